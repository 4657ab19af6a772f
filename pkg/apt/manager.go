// pkg/apt/manager.go
package apt

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/fetch"
	"github.com/irods/mungefs/ci/pkg/runner"
)

var _ core.PackageManager = (*PackageManager)(nil)

// NewPackageManager creates a new apt package manager
func NewPackageManager(cfg *Config) *PackageManager {
	if cfg == nil {
		cfg = &Config{}
	}

	// Set defaults
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

	logger := core.LoggerOrNop(cfg.Logger).With(zap.String("backend", "apt"))

	return &PackageManager{
		config: cfg,
		logger: logger,
	}
}

// Name returns the backend name
func (pm *PackageManager) Name() string {
	return "apt"
}

// InstallPackages runs apt-get install, refreshing the index first
func (pm *PackageManager) InstallPackages(ctx context.Context, env runner.Env, pkgs core.PackageList) error {
	if len(pkgs) == 0 {
		return nil
	}
	if err := pm.update(ctx, env); err != nil {
		return err
	}

	pm.logger.Info("installing packages", zap.Strings("packages", pkgs))
	argv := append([]string{"apt-get", "install", "-y"}, pkgs...)
	if err := pm.run(ctx, env, argv, ""); err != nil {
		return fmt.Errorf("installing packages: %w", err)
	}
	return nil
}

// InstallFromFiles installs each .deb with gdebi so that dependencies are
// pulled from the configured repositories
func (pm *PackageManager) InstallFromFiles(ctx context.Context, env runner.Env, files []string) error {
	if len(files) == 0 {
		return nil
	}
	if err := pm.InstallPackages(ctx, env, core.PackageList{GdebiPackage}); err != nil {
		return fmt.Errorf("installing gdebi: %w", err)
	}

	for _, f := range files {
		pm.logger.Info("installing package file", zap.String("file", f))
		if err := pm.run(ctx, env, []string{"gdebi", "-n", f}, ""); err != nil {
			return fmt.Errorf("installing %s: %w", f, err)
		}
	}
	return nil
}

// InstallCoreDevRepository imports the signing key, writes the apt source
// line and refreshes the package index
func (pm *PackageManager) InstallCoreDevRepository(ctx context.Context, env runner.Env) error {
	keyURL := pm.config.CoreDevURL + "/" + SigningKeyPath
	pm.logger.Info("Step 1: importing core-dev signing key", zap.String("url", keyURL))
	key, err := pm.config.Fetcher.Fetch(ctx, keyURL)
	if err != nil {
		return fmt.Errorf("downloading signing key: %w", err)
	}
	if err := pm.run(ctx, env, []string{"apt-key", "add", "-"}, string(key)); err != nil {
		return fmt.Errorf("importing signing key: %w", err)
	}

	pm.logger.Info("Step 2: writing core-dev source list", zap.String("path", SourcesListPath))
	line, err := pm.SourceLine(ctx, env)
	if err != nil {
		return err
	}
	if err := pm.run(ctx, env, []string{"tee", SourcesListPath}, line+"\n"); err != nil {
		return fmt.Errorf("writing %s: %w", SourcesListPath, err)
	}

	pm.logger.Info("Step 3: updating package index")
	pm.updated = false
	return pm.update(ctx, env)
}

// SourceLine renders the core-dev "deb [arch=...] <url>/apt/ <codename> main" line
func (pm *PackageManager) SourceLine(ctx context.Context, env runner.Env) (string, error) {
	codename, err := pm.codename(ctx, env)
	if err != nil {
		return "", err
	}
	arch := pm.config.Architecture
	if arch == "" {
		arch, err = DetectArchitecture()
		if err != nil {
			return "", fmt.Errorf("detecting architecture: %w", err)
		}
	}
	return fmt.Sprintf("deb [arch=%s] %s/apt/ %s %s", arch, pm.config.CoreDevURL, codename, DefaultComponent), nil
}

func (pm *PackageManager) codename(ctx context.Context, env runner.Env) (string, error) {
	if pm.config.Codename != "" {
		return pm.config.Codename, nil
	}
	res, err := pm.config.Runner.Run(ctx, runner.Command{Argv: []string{"lsb_release", "-sc"}, Env: env, Check: true})
	if err != nil {
		return "", fmt.Errorf("detecting release codename: %w", err)
	}
	codename := strings.TrimSpace(res.Output)
	if codename == "" {
		return "", fmt.Errorf("detecting release codename: lsb_release returned nothing")
	}
	pm.config.Codename = codename
	return codename, nil
}

func (pm *PackageManager) update(ctx context.Context, env runner.Env) error {
	if pm.updated {
		return nil
	}
	if err := pm.run(ctx, env, []string{"apt-get", "update"}, ""); err != nil {
		return fmt.Errorf("updating package index: %w", err)
	}
	pm.updated = true
	return nil
}

func (pm *PackageManager) run(ctx context.Context, env runner.Env, argv []string, stdin string) error {
	env = env.Clone()
	env["DEBIAN_FRONTEND"] = "noninteractive"
	if pm.config.Sudo {
		argv = append([]string{"sudo", "-E"}, argv...)
	}
	_, err := pm.config.Runner.Run(ctx, runner.Command{Argv: argv, Env: env, Stdin: stdin, Check: true})
	return err
}
