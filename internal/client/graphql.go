package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/machinebox/graphql"

	"github.com/oshokin/traffic-logger/internal/logger"
)

// GraphQLClient runs GraphQL queries over the printing net/http transport.
type GraphQLClient struct {
	graphQLClient *graphql.Client
	opts          Options
}

// NewGraphQLClient creates a client for the GraphQL endpoint.
func NewGraphQLClient(ctx context.Context, endpoint string, opts Options) *GraphQLClient {
	httpClient := &http.Client{Transport: newPrintingTransport(opts)}

	graphQLClient := graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient))
	graphQLClient.Log = func(s string) {
		logger.Debug(ctx, s)
	}

	return &GraphQLClient{
		graphQLClient: graphQLClient,
		opts:          opts,
	}
}

// Run sends query with vars and returns the "data" member of the response.
func (c *GraphQLClient) Run(ctx context.Context, query string, vars map[string]any, header http.Header) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.timeout())
	defer cancel()

	graphqlRequest := graphql.NewRequest(query)

	for name, value := range vars {
		graphqlRequest.Var(name, value)
	}

	for name, values := range header {
		for _, value := range values {
			graphqlRequest.Header.Add(name, value)
		}
	}

	var graphQLResponse map[string]any
	if err := c.graphQLClient.Run(ctx, graphqlRequest, &graphQLResponse); err != nil {
		return nil, fmt.Errorf("failed to run GraphQL query: %w", err)
	}

	return graphQLResponse, nil
}
