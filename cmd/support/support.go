// Package support implements housekeeping commands: generating a default
// configuration file and validating the active one.
package support

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/mediaflow/internal/conf"
)

// Command creates the support command with its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "support",
		Short: "Configuration housekeeping",
	}

	cmd.AddCommand(
		generateConfigCommand(),
		validateConfigCommand(settings),
	)

	return cmd
}

func generateConfigCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Write a config file populated with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := conf.SaveDefaultConfig(path); err != nil {
				return err
			}
			fmt.Printf("default configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "config.yaml", "Destination for the generated config file")

	return cmd
}

func validateConfigCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Validate the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := conf.ValidateSettings(settings); err != nil {
				return err
			}
			fmt.Println("configuration is valid")
			return nil
		},
	}
}
