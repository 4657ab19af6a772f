// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at link time
var Version = "0.1.0"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mungefs-ci version %s\n", Version)
			fmt.Fprintln(cmd.OutOrStdout(), "Continuous integration build for mungefs")
			fmt.Fprintln(cmd.OutOrStdout(), "https://github.com/irods/irods_client_mungefs")
		},
	}
}
