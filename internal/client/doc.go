// Package client provides the HTTP and GraphQL clients used by the CLI.
// Every client sends its traffic through the printer configured in Options.
package client
