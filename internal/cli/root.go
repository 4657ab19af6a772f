// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/irods/mungefs/ci"
	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/platform"
	"github.com/irods/mungefs/ci/pkg/runner"
)

// EnvPrefix prefixes environment variables that stand in for flags
const EnvPrefix = "MUNGEFS_CI"

// Flag names
const (
	flagOutputRoot        = "output_root_directory"
	flagBuiltPackagesRoot = "built_packages_root_directory"
	flagSourceDirectory   = "source_directory"
	flagConfig            = "config"
	flagDebug             = "debug"
	flagDryRun            = "dry-run"
)

// app holds the state shared by the commands of one invocation
type app struct {
	v      *viper.Viper
	config *core.Config
	logger *zap.Logger

	// overridable in tests
	detect platform.Detector
	runner runner.Runner
}

// NewRootCommand builds the mungefs-ci command tree
func NewRootCommand() *cobra.Command {
	return newApp(platform.Detect, nil).rootCmd()
}

func newApp(detect platform.Detector, r runner.Runner) *app {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{v: v, detect: detect, runner: r}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mungefs-ci",
		Short: "Build mungefs packages on a CI host",
		Long: `mungefs-ci - continuous integration build of mungefs

Installs the iRODS core-dev repository, the pinned CMake toolchain, the
native build prerequisites and the previously built iRODS dev and runtime
packages, then configures and packages mungefs and collects the produced
packages under <output_root_directory>/<os>_<major version>.`,
		Example: `  mungefs-ci --output_root_directory /out --built_packages_root_directory /pkgs
  MUNGEFS_CI_OUTPUT_ROOT_DIRECTORY=/out mungefs-ci --built_packages_root_directory /pkgs`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
		RunE:              a.runBuild,
		Version:           Version,
	}

	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "config file (default is $HOME/.config/mungefs-ci/config.yaml)")
	flags.Bool(flagDebug, false, "enable debug logging")
	flags.Bool(flagDryRun, false, "log commands instead of running them")

	local := cmd.Flags()
	local.String(flagOutputRoot, "", "directory receiving the built mungefs packages")
	local.String(flagBuiltPackagesRoot, "", "directory holding the built iRODS packages")
	local.String(flagSourceDirectory, "", "mungefs source directory (default is the working directory)")

	// Bind flags to viper
	_ = a.v.BindPFlags(flags)
	_ = a.v.BindPFlags(local)

	cmd.AddCommand(a.platformCmd())
	cmd.AddCommand(a.prereqsCmd())
	cmd.AddCommand(a.configCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

// initConfig loads the config file and overlays flags and environment
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	config, err := core.LoadConfig(a.v.GetString(flagConfig))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if src := a.v.GetString(flagSourceDirectory); src != "" {
		config.SourceDirectory = src
	}
	if a.v.GetBool(flagDebug) {
		config.Debug = true
	}

	logger, err := core.NewLogger(config.Debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	a.config = config
	a.logger = logger
	return nil
}

// Execute runs the command tree, cancelling on SIGINT or SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

// ReportError prints err for the user: usage errors go to stdout as the bare
// message, everything else to stderr.
func ReportError(stdout, stderr io.Writer, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ci.ErrUsage) {
		fmt.Fprintln(stdout, err)
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}
