// Package ci builds mungefs on a continuous integration host: it installs
// the iRODS core-dev repository, the pinned toolchain, the native
// prerequisites and previously built iRODS packages, then configures and
// packages mungefs and collects the results.
package ci

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/artifact"
	"github.com/irods/mungefs/ci/pkg/build"
	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/platform"
	"github.com/irods/mungefs/ci/pkg/prereq"
	"github.com/irods/mungefs/ci/pkg/runner"
	"github.com/irods/mungefs/ci/pkg/toolchain"
)

// Usage messages for missing required arguments
const (
	MissingOutputRoot        = "--output_root_directory must be provided"
	MissingBuiltPackagesRoot = "--built_packages_root_directory must be provided"
)

// Options are the per-run arguments
type Options struct {
	OutputRoot        string // where built mungefs packages are collected
	BuiltPackagesRoot string // where upstream iRODS packages were built
}

// Validate checks that both directories were given, output root first
func (o Options) Validate() error {
	if o.OutputRoot == "" {
		return &core.UsageError{Message: MissingOutputRoot}
	}
	if o.BuiltPackagesRoot == "" {
		return &core.UsageError{Message: MissingBuiltPackagesRoot}
	}
	return nil
}

// Settings wires an Orchestrator to its collaborators. Nil fields get
// production defaults.
type Settings struct {
	Config   *core.Config
	Runner   runner.Runner
	Detect   platform.Detector
	Backend  func(*platform.Distribution) (core.PackageManager, error)
	Env      runner.Env // initial environment overlay
	CPUCount func() (int, error)
	DryRun   bool
	Logger   *zap.Logger
}

// Orchestrator runs the CI build steps in order
type Orchestrator struct {
	settings Settings
	logger   *zap.Logger
}

// New creates an Orchestrator, filling in defaults
func New(s Settings) *Orchestrator {
	if s.Config == nil {
		s.Config = core.DefaultConfig()
	}
	logger := core.LoggerOrNop(s.Logger)
	if s.Runner == nil {
		if s.DryRun {
			s.Runner = runner.NewDryRun(logger)
		} else {
			s.Runner = runner.New(&runner.Config{Stream: os.Stderr, Logger: logger})
		}
	}
	if s.Detect == nil {
		s.Detect = platform.Detect
	}
	if s.Backend == nil {
		cfg, r := s.Config, s.Runner
		s.Backend = func(dist *platform.Distribution) (core.PackageManager, error) {
			return platform.ResolveBackend(dist, cfg, r, logger)
		}
	}
	return &Orchestrator{settings: s, logger: logger}
}

// run holds the state threaded through the steps of one Run
type run struct {
	opts Options
	dist *platform.Distribution
	pm   core.PackageManager
	env  runner.Env
	src  string
}

type step struct {
	name string
	fn   func(context.Context, *run) error
}

// Run validates opts and then executes, strictly in order: core-dev
// repository, toolchain, prerequisites, upstream artifacts, build. The
// first failure stops the run.
func (o *Orchestrator) Run(ctx context.Context, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	logger := o.logger.With(zap.String("run_id", uuid.NewString()))

	dist, err := o.settings.Detect()
	if err != nil {
		return &core.Error{Op: "detect platform", Err: err}
	}
	logger.Info("detected platform", zap.Stringer("distribution", dist), zap.String("os_dir", dist.OSDirectory()))

	pm, err := o.settings.Backend(dist)
	if err != nil {
		return err
	}

	src, err := o.sourceDir()
	if err != nil {
		return err
	}

	r := &run{opts: opts, dist: dist, pm: pm, env: o.settings.Env.Clone(), src: src}
	steps := []step{
		{"install core-dev repository", o.installCoreDevRepository},
		{"install toolchain", o.installToolchain},
		{"install prerequisites", o.installPrerequisites},
		{"install upstream artifacts", o.installArtifacts},
		{"build", o.build},
	}
	for i, s := range steps {
		logger.Info(fmt.Sprintf("Step %d: %s", i+1, s.name), zap.String("backend", pm.Name()))
		if err := s.fn(ctx, r); err != nil {
			logger.Error("step failed", zap.String("step", s.name), zap.Error(err))
			return err
		}
	}

	logger.Info("build complete", zap.String("output", dist.AppendOSSpecificDirectory(opts.OutputRoot)))
	return nil
}

func (o *Orchestrator) sourceDir() (string, error) {
	src := o.settings.Config.SourceDirectory
	if src == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining source directory: %w", err)
		}
		return wd, nil
	}
	return filepath.Abs(src)
}

func (o *Orchestrator) installCoreDevRepository(ctx context.Context, r *run) error {
	if err := r.pm.InstallCoreDevRepository(ctx, r.env); err != nil {
		return &core.Error{Op: "install core-dev repository", Err: err}
	}
	return nil
}

func (o *Orchestrator) installToolchain(ctx context.Context, r *run) error {
	cfg := o.settings.Config.Toolchain
	env, err := toolchain.NewInstaller(r.pm, toolchain.Config{
		Package: cfg.Package,
		BinDir:  cfg.BinDir,
		Logger:  o.logger,
	}).Install(ctx, r.env)
	if err != nil {
		return err
	}
	r.env = env
	return nil
}

func (o *Orchestrator) installPrerequisites(ctx context.Context, r *run) error {
	resolver := prereq.Resolver{}
	if len(o.settings.Config.Externals) > 0 {
		resolver.Externals = core.PackageList(o.settings.Config.Externals)
	}
	pkgs, err := resolver.Resolve(r.dist.Family)
	if err != nil {
		return err
	}
	if err := r.pm.InstallPackages(ctx, r.env, pkgs); err != nil {
		return &core.Error{Op: "install prerequisites", Err: err}
	}
	return nil
}

func (o *Orchestrator) installArtifacts(ctx context.Context, r *run) error {
	cfg := o.settings.Config.Artifacts
	_, err := artifact.NewInstaller(r.pm, artifact.Config{
		DevPrefix:     cfg.DevPrefix,
		RuntimePrefix: cfg.RuntimePrefix,
		AllowMissing:  cfg.AllowMissing || o.settings.DryRun,
		Logger:        o.logger,
	}).Install(ctx, r.env, r.dist.AppendOSSpecificDirectory(r.opts.BuiltPackagesRoot), r.dist.PackageSuffix())
	return err
}

func (o *Orchestrator) build(ctx context.Context, r *run) error {
	_, err := build.NewDriver(build.Config{
		Runner:      o.settings.Runner,
		SourceDir:   r.src,
		Suffix:      r.dist.PackageSuffix(),
		OSDirectory: r.dist.OSDirectory(),
		Build:       o.settings.Config.Build,
		CPUCount:    o.settings.CPUCount,
		DryRun:      o.settings.DryRun,
		Logger:      o.logger,
	}).Run(ctx, r.env, r.opts.OutputRoot)
	return err
}
