// Package classifier decides whether an HTTP payload should be logged as text
// or summarized as a file, based on its declared content type.
package classifier
