// Package model holds the client-agnostic representation of intercepted HTTP
// requests and responses. Adapters for concrete HTTP clients describe their
// native objects through RequestSource and ResponseSource, and the
// constructors in this package turn them into immutable details values.
package model
