package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/oshokin/traffic-logger/internal/app"
	"github.com/oshokin/traffic-logger/internal/logger"
)

var (
	//nolint:gochecknoglobals // Flag values are bound once during startup.
	requestArgs app.RequestArgs

	//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
	requestCmd = &cobra.Command{
		Use:   "request [flags] URL",
		Short: "Send an HTTP request and print its traffic",
		Long: `Sends one HTTP request with the selected client and writes the response body to stdout.
The request and the response are printed to the configured output.

Examples:
  traffic-logger request https://httpbin.org/get
  traffic-logger request -X POST -H "Content-Type: application/json" -d '{"name":"John"}' https://httpbin.org/post
  traffic-logger request --client retryable --level body -d @payload.json -X PUT https://example.com/items/1`,
		Args:   cobra.ExactArgs(1),
		PreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			requestArgs.URL = args[0]

			err := app.ExecuteRequestCommand(cmd.Context(), appConfig, requestArgs, app.DefaultStreams())
			if err != nil {
				logger.Fatalf(cmd.Context(), "Request failed: %v", err)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	flags := requestCmd.Flags()

	flags.StringVarP(&requestArgs.Method, "method", "X", http.MethodGet, "HTTP method.")
	flags.StringArrayVarP(&requestArgs.Headers, "header", "H", nil, "request header in 'Name: value' form, repeatable.")
	flags.StringVarP(&requestArgs.Data, "data", "d", "", "request body, '@path' reads it from a file.")
	flags.String("client", "", "HTTP client: http, resty, retryable.")

	addClientFlags(flags)

	rootCmd.AddCommand(requestCmd)
}
