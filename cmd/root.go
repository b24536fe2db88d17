// Package cmd assembles the mediaflow command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/mediaflow/cmd/run"
	"github.com/tphakala/mediaflow/cmd/support"
	"github.com/tphakala/mediaflow/internal/buildinfo"
	"github.com/tphakala/mediaflow/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mediaflow",
		Short:   "mediaflow pipeline engine",
		Version: fmt.Sprintf("%s (built %s)", build.GetVersion(), build.GetBuildDate()),
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		run.Command(settings),
		support.Command(settings),
	)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Name, "name", viper.GetString("name"), "Instance name used in log attribution")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
