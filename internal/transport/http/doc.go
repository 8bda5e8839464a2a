// Package http provides round trippers shared by the traffic-logger clients:
// User-Agent header injection and the chaining of wrappers around a base transport.
package http
