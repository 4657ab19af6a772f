// Package artifact installs previously built upstream dev and runtime
// packages from a directory of build outputs.
package artifact

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/dpkg"
	"github.com/irods/mungefs/ci/pkg/runner"
)

// Config configures an Installer
type Config struct {
	DevPrefix     string
	RuntimePrefix string
	AllowMissing  bool // zero matches for a kind only warns
	Logger        *zap.Logger
}

// Installer locates and installs artifact files
type Installer struct {
	pm     core.PackageManager
	config Config
	logger *zap.Logger
}

// NewInstaller creates an Installer backed by pm
func NewInstaller(pm core.PackageManager, cfg Config) *Installer {
	if cfg.DevPrefix == "" {
		cfg.DevPrefix = core.DefaultDevPrefix
	}
	if cfg.RuntimePrefix == "" {
		cfg.RuntimePrefix = core.DefaultRuntimePrefix
	}
	return &Installer{
		pm:     pm,
		config: cfg,
		logger: core.LoggerOrNop(cfg.Logger),
	}
}

// Patterns returns the dev and runtime glob patterns for dir and suffix
func (i *Installer) Patterns(dir, suffix string) []string {
	return []string{
		filepath.Join(dir, i.config.DevPrefix+"*."+suffix),
		filepath.Join(dir, i.config.RuntimePrefix+"*."+suffix),
	}
}

// Find globs the dev pattern then the runtime pattern and returns the
// concatenated matches, dev first, without deduplication.
func (i *Installer) Find(dir, suffix string) ([]string, error) {
	var files []string
	for _, pattern := range i.Patterns(dir, suffix) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}

		if len(matches) == 0 {
			if !i.config.AllowMissing {
				return nil, fmt.Errorf("%w: %s", core.ErrNoArtifacts, pattern)
			}
			i.logger.Warn("no artifacts matched", zap.String("pattern", pattern))
		}

		i.logger.Debug("artifact glob", zap.String("pattern", pattern), zap.Strings("matches", matches))
		files = append(files, matches...)
	}
	return files, nil
}

// Install installs every artifact found under dir and returns the files
// handed to the package manager.
func (i *Installer) Install(ctx context.Context, env runner.Env, dir, suffix string) ([]string, error) {
	files, err := i.Find(dir, suffix)
	if err != nil {
		return nil, &core.Error{Op: "find artifacts", Err: err}
	}

	if suffix == "deb" {
		i.inspect(files)
	}

	i.logger.Info("installing artifacts", zap.String("dir", dir), zap.Int("count", len(files)))
	if err := i.pm.InstallFromFiles(ctx, env, files); err != nil {
		return nil, &core.Error{Op: "install artifacts", Err: err}
	}
	return files, nil
}

// inspect logs the identity of each .deb; the backend decides validity
func (i *Installer) inspect(files []string) {
	for _, f := range files {
		ctrl, err := dpkg.ReadControl(f)
		if err != nil {
			i.logger.Warn("cannot read package control", zap.String("file", f), zap.Error(err))
			continue
		}
		i.logger.Info("artifact",
			zap.String("file", filepath.Base(f)),
			zap.String("package", ctrl.Package),
			zap.String("version", ctrl.Version),
			zap.String("architecture", ctrl.Architecture),
			zap.String("maintainer", ctrl.Maintainer),
			zap.Strings("depends", ctrl.Depends))
	}
}
