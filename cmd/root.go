package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/traffic-logger/internal/config"
	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/printer"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "traffic-logger",
		Short: "Send HTTP requests and print their traffic.",
		Long: `Traffic Logger is a CLI tool that sends HTTP and GraphQL requests and prints
the outgoing traffic in a bounded, human-readable form.

The amount of detail is controlled by the print level:
- none: nothing is printed
- basic: URL, method, status and timing
- headers: basic plus all headers
- body: headers plus bodies, JSON is pretty-printed

Binary payloads (images, archives, octet streams) are summarized, never dumped.`,
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s' if it exists)",
			config.DefaultConfigFilename))

	addPrintFlags(rootCmd.PersistentFlags())
}

// addPrintFlags registers the flags shared by every command that prints traffic.
func addPrintFlags(flags *pflag.FlagSet) {
	flags.StringP(
		"level",
		"l",
		"",
		"print level: none, basic, headers, body.")

	flags.Int(
		"max-line-length",
		0,
		fmt.Sprintf("maximum printed line length, %d to %d.", printer.MinLineLength, printer.MaxLineLength))

	flags.Bool(
		"debug",
		true,
		"print traffic at all; --debug=false turns printing off.")

	flags.Bool(
		"async",
		false,
		"render traffic on background workers.")

	flags.StringP(
		"output",
		"o",
		"",
		"where traffic is printed: logger, stderr, stdout, file.")

	flags.String(
		"log-level",
		"",
		"application log level: debug, info, warn, error.")
}

// addClientFlags registers the flags of commands that send requests.
func addClientFlags(flags *pflag.FlagSet) {
	flags.String(
		"timeout",
		"",
		"request timeout, for example: 10s, 1m.")

	flags.String(
		"user-agent",
		"",
		"User-Agent header sent with every request.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

//nolint:cyclop // One branch per flag.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("level"); flag != nil && flag.Changed {
		cfg.PrintLevel, _ = flags.GetString("level")
	}

	if flag := flags.Lookup("max-line-length"); flag != nil && flag.Changed {
		cfg.MaxLineLength, _ = flags.GetInt("max-line-length")
	}

	if flag := flags.Lookup("debug"); flag != nil && flag.Changed {
		cfg.Debug, _ = flags.GetBool("debug")
	}

	if flag := flags.Lookup("async"); flag != nil && flag.Changed {
		cfg.Async, _ = flags.GetBool("async")
	}

	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.Output, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("client"); flag != nil && flag.Changed {
		cfg.Client, _ = flags.GetString("client")
	}

	if flag := flags.Lookup("timeout"); flag != nil && flag.Changed {
		cfg.Timeout, _ = flags.GetString("timeout")
	}

	if flag := flags.Lookup("user-agent"); flag != nil && flag.Changed {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}

	return config.ValidateConfig(cfg)
}
