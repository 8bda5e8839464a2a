// Package app provides the use cases behind the traffic-logger commands.
// It turns the application configuration into a traffic printer, sends
// HTTP or GraphQL requests through the selected client and writes the
// default configuration file.
package app
