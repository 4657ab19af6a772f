package prereq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/platform"
)

func TestResolveEveryFamily(t *testing.T) {
	bases := map[platform.Family]core.PackageList{
		platform.FamilyUbuntu:      AptBase,
		platform.FamilyCentOS:      YumBase,
		platform.FamilyCentOSLinux: YumBase,
		platform.FamilyOpenSUSE:    YumBase,
	}
	for _, family := range platform.Families {
		t.Run(string(family), func(t *testing.T) {
			got, err := Resolve(family)
			require.NoError(t, err)

			base := bases[family]
			require.Len(t, got, len(base)+len(Externals))
			assert.Equal(t, base, got[:len(base)])
			assert.Equal(t, Externals, got[len(base):])
		})
	}
}

func TestResolveUbuntuExact(t *testing.T) {
	got, err := Resolve(platform.FamilyUbuntu)
	require.NoError(t, err)
	assert.Equal(t, core.PackageList{
		"libstdc++6", "make", "gcc", "g++", "libfuse-dev",
		"irods-externals-avro1.7.7-0",
		"irods-externals-boost1.60.0-0",
		"irods-externals-clang3.8-0",
		"irods-externals-cppzmq4.1-0",
		"irods-externals-libarchive3.1.2-0",
	}, got)
}

func TestResolveUnsupported(t *testing.T) {
	for _, family := range []platform.Family{"", "Debian", "Opensuse ", "Fedora"} {
		got, err := Resolve(family)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.True(t, errors.Is(err, core.ErrUnsupportedDistribution))

		var unsupported *core.UnsupportedDistributionError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, string(family), unsupported.Distribution)
	}
}

func TestResolveDoesNotAlias(t *testing.T) {
	first, err := Resolve(platform.FamilyCentOS)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := Resolve(platform.FamilyCentOS)
	require.NoError(t, err)
	assert.Equal(t, "gcc-g++", second[0])
	assert.Equal(t, "gcc-g++", YumBase[0])
}

func TestResolverExternalsOverride(t *testing.T) {
	r := Resolver{Externals: core.PackageList{"irods-externals-cmake3.11.4-0"}}
	got, err := r.Resolve(platform.FamilyOpenSUSE)
	require.NoError(t, err)
	assert.Equal(t, core.PackageList{"gcc-g++", "fuse", "fuse-devel", "irods-externals-cmake3.11.4-0"}, got)
}
