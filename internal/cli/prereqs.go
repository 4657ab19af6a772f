// internal/cli/prereqs.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irods/mungefs/ci/pkg/core"
	"github.com/irods/mungefs/ci/pkg/platform"
	"github.com/irods/mungefs/ci/pkg/prereq"
)

func (a *app) prereqsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prereqs [family]",
		Short: "List the build prerequisites for a distribution family",
		Long: `List the native packages installed before building mungefs.

The family defaults to the detected one. Known families: Ubuntu, Centos,
"Centos linux", Opensuse.

Examples:
  mungefs-ci prereqs
  mungefs-ci prereqs Ubuntu
  mungefs-ci prereqs "Centos linux"`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runPrereqs,
	}
}

func (a *app) runPrereqs(cmd *cobra.Command, args []string) error {
	var family platform.Family
	if len(args) == 1 {
		family = platform.Family(args[0])
	} else {
		dist, err := a.detect()
		if err != nil {
			return fmt.Errorf("detecting platform: %w", err)
		}
		family = dist.Family
	}

	resolver := prereq.Resolver{}
	if len(a.config.Externals) > 0 {
		resolver.Externals = core.PackageList(a.config.Externals)
	}
	pkgs, err := resolver.Resolve(family)
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		fmt.Fprintln(cmd.OutOrStdout(), pkg)
	}
	return nil
}
