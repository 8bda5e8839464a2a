package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/traffic-logger/internal/client"
	"github.com/oshokin/traffic-logger/internal/config"
)

// GraphQLArgs describes one query sent by the graphql command.
type GraphQLArgs struct {
	// Endpoint is the GraphQL endpoint URL.
	Endpoint string
	// Query is the GraphQL document, "@path" reads it from a file.
	Query string
	// Variables are "name=value" pairs. Values that parse as JSON are sent as such, others as strings.
	Variables []string
	// Headers are "Name: value" pairs.
	Headers []string
}

// ExecuteGraphQLCommand runs one query and writes the indented "data" member to stdout.
func ExecuteGraphQLCommand(ctx context.Context, cfg *config.Config, args GraphQLArgs, streams Streams) error {
	header, err := parseHeaders(args.Headers)
	if err != nil {
		return err
	}

	vars, err := parseVariables(args.Variables)
	if err != nil {
		return err
	}

	query, err := readData(args.Query)
	if err != nil {
		return err
	}

	t, err := newTraffic(cfg, streams)
	if err != nil {
		return fmt.Errorf("failed to configure traffic printer: %w", err)
	}

	graphQLClient := client.NewGraphQLClient(ctx, args.Endpoint, t.clientOptions(cfg))

	runErr := func() error {
		data, runErr := graphQLClient.Run(ctx, string(query), vars, header)
		if runErr != nil {
			return runErr
		}

		encoder := json.NewEncoder(streams.Stdout)
		encoder.SetIndent("", "  ")

		if encodeErr := encoder.Encode(data); encodeErr != nil {
			return fmt.Errorf("failed to write GraphQL data: %w", encodeErr)
		}

		return nil
	}()

	return errors.Join(runErr, t.close(ctx))
}

// parseVariables converts "name=value" pairs into GraphQL variables.
func parseVariables(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")

		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidVariable, pair)
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			decoded = value
		}

		vars[name] = decoded
	}

	return vars, nil
}
