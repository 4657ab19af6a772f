// pkg/platform/resolver.go
package platform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/registry"
	"github.com/irods/mungefs/ci/pkg/runner"
)

// BackendName returns the package manager backend for a family. An
// unrecognized family yields an UnsupportedDistributionError naming it.
func BackendName(f Family) (string, error) {
	switch f {
	case FamilyUbuntu:
		return registry.Apt, nil
	case FamilyCentOS, FamilyCentOSLinux:
		return registry.Yum, nil
	case FamilyOpenSUSE:
		return registry.Zypper, nil
	default:
		return "", &core.UnsupportedDistributionError{Distribution: string(f)}
	}
}

// ResolveBackend builds the package manager for the detected distribution
func ResolveBackend(dist *Distribution, config *core.Config, r runner.Runner, logger *zap.Logger) (core.PackageManager, error) {
	name, err := BackendName(dist.Family)
	if err != nil {
		return nil, err
	}

	backend, err := registry.Get(name, registry.Options{
		Runner:     r,
		Sudo:       NeedsSudo(config.UseSudo),
		CoreDevURL: config.CoreDevURL,
		Codename:   dist.VersionCodename,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("getting backend '%s': %w", name, err)
	}

	return backend, nil
}
