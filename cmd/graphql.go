package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/traffic-logger/internal/app"
	"github.com/oshokin/traffic-logger/internal/logger"
)

var (
	//nolint:gochecknoglobals // Flag values are bound once during startup.
	graphQLArgs app.GraphQLArgs

	//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
	graphQLCmd = &cobra.Command{
		Use:   "graphql [flags] ENDPOINT",
		Short: "Run a GraphQL query and print its traffic",
		Long: `Runs one GraphQL query and writes the "data" member of the response to stdout.

Examples:
  traffic-logger graphql -q '{ countries { code } }' https://countries.trevorblades.com/
  traffic-logger graphql -q @query.graphql --var id=42 --var 'tags=["a","b"]' https://example.com/graphql`,
		Args:   cobra.ExactArgs(1),
		PreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			graphQLArgs.Endpoint = args[0]

			err := app.ExecuteGraphQLCommand(cmd.Context(), appConfig, graphQLArgs, app.DefaultStreams())
			if err != nil {
				logger.Fatalf(cmd.Context(), "GraphQL query failed: %v", err)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	flags := graphQLCmd.Flags()

	flags.StringVarP(&graphQLArgs.Query, "query", "q", "", "GraphQL document, '@path' reads it from a file.")
	flags.StringArrayVar(&graphQLArgs.Variables, "var", nil, "variable in 'name=value' form, JSON values are decoded, repeatable.")
	flags.StringArrayVarP(&graphQLArgs.Headers, "header", "H", nil, "request header in 'Name: value' form, repeatable.")

	_ = graphQLCmd.MarkFlagRequired("query")

	addClientFlags(flags)

	rootCmd.AddCommand(graphQLCmd)
}
