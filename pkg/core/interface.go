// pkg/core/interface.go
package core

import (
	"context"

	"github.com/irods/mungefs/ci/pkg/runner"
)

// PackageManager is the native package manager of a distribution family.
// Every method blocks until the underlying commands finish and returns the
// first failure.
type PackageManager interface {
	// Name returns the backend name (e.g., "apt", "yum")
	Name() string

	// InstallPackages installs packages by name. Already installed
	// packages are left alone by the native tool.
	InstallPackages(ctx context.Context, env runner.Env, pkgs PackageList) error

	// InstallFromFiles installs local package files in the given order.
	InstallFromFiles(ctx context.Context, env runner.Env, files []string) error

	// InstallCoreDevRepository registers the iRODS core-dev package
	// repository and its signing key.
	InstallCoreDevRepository(ctx context.Context, env runner.Env) error
}
