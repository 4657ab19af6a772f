// internal/cli/platform.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irods/mungefs/ci/pkg/platform"
	"github.com/irods/mungefs/ci/pkg/registry"
)

func (a *app) platformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Show the detected distribution",
		Long:  `Show the detected distribution, its package directory name, package suffix and package manager backend.`,
		Args:  cobra.NoArgs,
		RunE:  a.runPlatform,
	}
}

func (a *app) runPlatform(cmd *cobra.Command, _ []string) error {
	dist, err := a.detect()
	if err != nil {
		return fmt.Errorf("detecting platform: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Distribution: %s\n", dist)
	fmt.Fprintf(out, "Family:       %s\n", dist.Family)
	fmt.Fprintf(out, "OS directory: %s\n", dist.OSDirectory())
	fmt.Fprintf(out, "Supported:    %t\n", dist.Family.Known())

	backend, err := platform.BackendName(dist.Family)
	if err != nil {
		fmt.Fprintf(out, "Backend:      none (%v)\n", err)
	} else {
		fmt.Fprintf(out, "Suffix:       %s\n", dist.PackageSuffix())
		fmt.Fprintf(out, "Backend:      %s\n", backend)
	}

	fmt.Fprintf(out, "\nRegistered backends: %v\n", registry.Available())
	return nil
}
