// Package toolchain installs the pinned build tool and exposes it to later
// subprocesses through the environment overlay.
package toolchain

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/runner"
)

// Config configures an Installer
type Config struct {
	Package string // e.g. irods-externals-cmake3.5.2-0
	BinDir  string // directory holding the tool's executables
	Logger  *zap.Logger
}

// Installer installs a single pinned package
type Installer struct {
	pm     core.PackageManager
	config Config
	logger *zap.Logger
}

// NewInstaller creates an Installer backed by pm
func NewInstaller(pm core.PackageManager, cfg Config) *Installer {
	if cfg.Package == "" {
		cfg.Package = core.DefaultToolchainPackage
	}
	if cfg.BinDir == "" {
		cfg.BinDir = core.DefaultToolchainBinDir
	}
	return &Installer{
		pm:     pm,
		config: cfg,
		logger: core.LoggerOrNop(cfg.Logger),
	}
}

// Install installs the pinned package and returns env with its bin
// directory prepended to PATH. env itself is not modified.
func (i *Installer) Install(ctx context.Context, env runner.Env) (runner.Env, error) {
	i.logger.Info("installing toolchain", zap.Stringer("toolchain", i))
	if err := i.pm.InstallPackages(ctx, env, core.PackageList{i.config.Package}); err != nil {
		return nil, &core.Error{Op: "install toolchain", Package: i.config.Package, Err: err}
	}

	next := env.PrependPath(i.config.BinDir)
	i.logger.Debug("toolchain added to PATH", zap.String("bin_dir", i.config.BinDir), zap.String("PATH", next["PATH"]))
	return next, nil
}

// String describes the pinned toolchain
func (i *Installer) String() string {
	return fmt.Sprintf("%s (%s)", i.config.Package, i.config.BinDir)
}
