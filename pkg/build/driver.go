// Package build runs the configure and package steps of the mungefs build
// and collects the produced packages.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/fileutil"
	"github.com/irods/mungefs/ci/pkg/runner"
)

// Config configures a Driver
type Config struct {
	Runner      runner.Runner
	SourceDir   string // directory holding the top-level CMakeLists.txt
	Suffix      string // package suffix to collect, e.g. deb
	OSDirectory string // subdirectory of the output root, e.g. Ubuntu_16
	Build       core.BuildConfig
	CPUCount    func() (int, error) // defaults to the affinity mask count
	DryRun      bool                // skip output collection
	Logger      *zap.Logger
}

// Driver drives one configure + package build
type Driver struct {
	config Config
	logger *zap.Logger
}

// Invocation records what a build run did
type Invocation struct {
	BuildDir  string
	Jobs      int
	Collected []string // destination paths under the output root
}

// NewDriver creates a Driver, filling in defaults
func NewDriver(cfg Config) *Driver {
	if cfg.Build.ConfigureCommand == "" {
		cfg.Build.ConfigureCommand = "cmake"
	}
	if cfg.Build.BuildCommand == "" {
		cfg.Build.BuildCommand = "make"
	}
	if cfg.Build.PackageTarget == "" {
		cfg.Build.PackageTarget = "package"
	}
	if cfg.Build.DirPrefix == "" {
		cfg.Build.DirPrefix = core.DefaultBuildDirPrefix
	}
	if cfg.CPUCount == nil {
		cfg.CPUCount = availableCPUs
	}
	return &Driver{
		config: cfg,
		logger: core.LoggerOrNop(cfg.Logger),
	}
}

// Jobs returns the worker count for the package step, never less than 1
func (d *Driver) Jobs() int {
	n, err := d.config.CPUCount()
	if err != nil {
		d.logger.Warn("cannot determine CPU count, using 1", zap.Error(err))
		return 1
	}
	if n < 1 {
		return 1
	}
	return n
}

// Run configures and packages SourceDir in a fresh temporary directory. When
// outputRoot is non-empty, every produced file ending in the package suffix
// is copied to <outputRoot>/<OSDirectory>.
func (d *Driver) Run(ctx context.Context, env runner.Env, outputRoot string) (*Invocation, error) {
	buildDir, err := os.MkdirTemp("", d.config.Build.DirPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating build directory: %w", err)
	}

	inv := &Invocation{BuildDir: buildDir, Jobs: d.Jobs()}
	d.logger.Info("building", zap.String("source_dir", d.config.SourceDir), zap.String("build_dir", buildDir))

	configure := append(strings.Fields(d.config.Build.ConfigureCommand), d.config.SourceDir)
	if err := d.run(ctx, env, buildDir, configure); err != nil {
		return inv, &core.Error{Op: "configure", Err: err}
	}

	build := append(strings.Fields(d.config.Build.BuildCommand),
		"-j", strconv.Itoa(inv.Jobs), d.config.Build.PackageTarget)
	if err := d.run(ctx, env, buildDir, build); err != nil {
		return inv, &core.Error{Op: "package", Err: err}
	}

	if outputRoot != "" && !d.config.DryRun {
		dst := filepath.Join(outputRoot, d.config.OSDirectory)
		collected, err := fileutil.GatherFilesSatisfyingPredicate(buildDir, dst, fileutil.HasSuffix(d.config.Suffix))
		if err != nil {
			return inv, &core.Error{Op: "collect packages", Err: err}
		}
		inv.Collected = collected
		d.logger.Info("collected packages", zap.String("dir", dst), zap.Strings("files", collected))
	}

	if !d.config.Build.KeepDir() {
		if err := os.RemoveAll(buildDir); err != nil {
			d.logger.Warn("cannot remove build directory", zap.String("dir", buildDir), zap.Error(err))
		}
	}
	return inv, nil
}

func (d *Driver) run(ctx context.Context, env runner.Env, dir string, argv []string) error {
	_, err := d.config.Runner.Run(ctx, runner.Command{
		Argv:  argv,
		Dir:   dir,
		Env:   env,
		Check: true,
	})
	return err
}
