package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/traffic-logger/internal/app"
	"github.com/oshokin/traffic-logger/internal/config"
	"github.com/oshokin/traffic-logger/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
	configInitCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Long: `Writes a commented default configuration to the given path (default is '` +
			config.DefaultConfigFilename + `').

Every setting can also be overridden with an environment variable prefixed with ` +
			config.EnvPrefix + `_, for example ` + config.EnvPrefix + `_PRINT_LEVEL=body.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var path string
			if len(args) > 0 {
				path = args[0]
			}

			force, _ := cmd.Flags().GetBool("force")

			if err := app.ExecuteConfigInitCommand(cmd.Context(), path, force); err != nil {
				logger.Fatalf(cmd.Context(), "%v", err)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing file.")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
