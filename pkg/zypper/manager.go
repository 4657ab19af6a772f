// pkg/zypper/manager.go
package zypper

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/fetch"
	"github.com/irods/mungefs/ci/pkg/runner"
)

var _ core.PackageManager = (*PackageManager)(nil)

// NewPackageManager creates a new zypper package manager
func NewPackageManager(cfg *Config) *PackageManager {
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.Runner == nil {
		cfg.Runner = runner.New(nil)
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = fetch.NewClient(fetch.DefaultTimeout)
	}
	if cfg.CoreDevURL == "" {
		cfg.CoreDevURL = core.DefaultCoreDevURL
	}
	cfg.CoreDevURL = strings.TrimRight(cfg.CoreDevURL, "/")

	return &PackageManager{
		config: cfg,
		logger: core.LoggerOrNop(cfg.Logger).With(zap.String("backend", "zypper")),
	}
}

// Name returns the backend name
func (pm *PackageManager) Name() string {
	return "zypper"
}

// InstallPackages runs zypper install non-interactively
func (pm *PackageManager) InstallPackages(ctx context.Context, env runner.Env, pkgs core.PackageList) error {
	if len(pkgs) == 0 {
		return nil
	}
	pm.logger.Info("installing packages", zap.Strings("packages", pkgs))
	argv := append([]string{"zypper", "--non-interactive", "install"}, pkgs...)
	if err := pm.run(ctx, env, argv, ""); err != nil {
		return fmt.Errorf("installing packages: %w", err)
	}
	return nil
}

// InstallFromFiles installs local rpms, skipping signature checks since
// locally built packages are unsigned
func (pm *PackageManager) InstallFromFiles(ctx context.Context, env runner.Env, files []string) error {
	if len(files) == 0 {
		return nil
	}
	pm.logger.Info("installing package files", zap.Strings("files", files))
	argv := append([]string{"zypper", "--non-interactive", "--no-gpg-checks", "install"}, files...)
	if err := pm.run(ctx, env, argv, ""); err != nil {
		return fmt.Errorf("installing package files: %w", err)
	}
	return nil
}

// InstallCoreDevRepository imports the signing key and writes the .repo file
func (pm *PackageManager) InstallCoreDevRepository(ctx context.Context, env runner.Env) error {
	keyURL := pm.config.CoreDevURL + "/" + SigningKeyPath
	pm.logger.Info("Step 1: importing core-dev signing key", zap.String("url", keyURL))
	if err := pm.run(ctx, env, []string{"rpm", "--import", keyURL}, ""); err != nil {
		return fmt.Errorf("importing signing key: %w", err)
	}

	repoURL := pm.config.CoreDevURL + "/" + RepoFileName
	dest := path.Join(ReposDir, RepoFileName)
	pm.logger.Info("Step 2: writing core-dev repository", zap.String("url", repoURL), zap.String("path", dest))
	repo, err := pm.config.Fetcher.Fetch(ctx, repoURL)
	if err != nil {
		return fmt.Errorf("downloading repository definition: %w", err)
	}
	if err := pm.run(ctx, env, []string{"tee", dest}, string(repo)); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

func (pm *PackageManager) run(ctx context.Context, env runner.Env, argv []string, stdin string) error {
	if pm.config.Sudo {
		argv = append([]string{"sudo"}, argv...)
	}
	_, err := pm.config.Runner.Run(ctx, runner.Command{Argv: argv, Env: env, Stdin: stdin, Check: true})
	return err
}
