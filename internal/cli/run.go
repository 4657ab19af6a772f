// internal/cli/run.go
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/irods/mungefs/ci"
)

func (a *app) runBuild(cmd *cobra.Command, _ []string) error {
	defer func() { _ = a.logger.Sync() }()

	opts := ci.Options{
		OutputRoot:        a.v.GetString(flagOutputRoot),
		BuiltPackagesRoot: a.v.GetString(flagBuiltPackagesRoot),
	}

	dryRun := a.v.GetBool(flagDryRun)
	if dryRun {
		a.logger.Info("dry run, commands are logged only")
	}

	orch := ci.New(ci.Settings{
		Config: a.config,
		Runner: a.runner,
		Detect: a.detect,
		DryRun: dryRun,
		Logger: a.logger,
	})

	if err := orch.Run(cmd.Context(), opts); err != nil {
		return err
	}
	a.logger.Debug("done", zap.String("output_root", opts.OutputRoot))
	return nil
}
