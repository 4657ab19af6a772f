// Package prereq resolves the native build prerequisites of mungefs for a
// distribution family.
package prereq

import (
	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/platform"
)

// Externals are the pinned iRODS externals mungefs builds against. They are
// the same on every family.
var Externals = core.PackageList{
	"irods-externals-avro1.7.7-0",
	"irods-externals-boost1.60.0-0",
	"irods-externals-clang3.8-0",
	"irods-externals-cppzmq4.1-0",
	"irods-externals-libarchive3.1.2-0",
}

// AptBase is the Debian-derived base list
var AptBase = core.PackageList{"libstdc++6", "make", "gcc", "g++", "libfuse-dev"}

// YumBase is the RPM-derived base list, also used for openSUSE
var YumBase = core.PackageList{"gcc-g++", "fuse", "fuse-devel"}

// Resolve returns the base list for family followed by Externals.
func Resolve(family platform.Family) (core.PackageList, error) {
	return Resolver{}.Resolve(family)
}

// Resolver resolves prerequisites with an optional externals override.
type Resolver struct {
	// Externals replaces the default externals list when non-nil.
	Externals core.PackageList
}

// Resolve returns a freshly allocated list: family base packages first,
// then the externals. An unrecognized family is an
// UnsupportedDistributionError naming it.
func (r Resolver) Resolve(family platform.Family) (core.PackageList, error) {
	externals := r.Externals
	if externals == nil {
		externals = Externals
	}

	switch family {
	case platform.FamilyUbuntu:
		return AptBase.Concat(externals), nil
	case platform.FamilyCentOS, platform.FamilyCentOSLinux, platform.FamilyOpenSUSE:
		return YumBase.Concat(externals), nil
	default:
		return nil, &core.UnsupportedDistributionError{Distribution: string(family)}
	}
}
