// internal/cli/config.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/irods/mungefs/ci/pkg/core"
)

func (a *app) configCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after defaults, the config file and flags are applied.

With --write the configuration is saved to the --config path (default
$HOME/.config/mungefs-ci/config.yaml) instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if write {
				path := a.v.GetString(flagConfig)
				if path == "" {
					path = core.DefaultConfigPath()
				}
				if err := core.SaveConfig(a.config, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.config); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the configuration instead of printing it")
	return cmd
}
