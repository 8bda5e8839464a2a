package model

import (
	"net/http"
	"time"
)

// RequestSource exposes the fields of a client-native request.
// Implementations must not consume the request body in a way that
// changes what the client sends.
type RequestSource interface {
	// Method returns the HTTP method.
	Method() string
	// URL returns the full request URL.
	URL() string
	// Header returns all request headers.
	Header() http.Header
	// ContentType returns the declared content type, or an empty string.
	ContentType() string
	// ContentLength returns the body length in bytes, or -1 if unknown.
	ContentLength() int64
	// Body returns the body bytes. It is only called for textual payloads.
	Body() ([]byte, error)
}

// TruncatingSource is implemented by sources that may return only the first part of a body.
// BodyTruncated is consulted after Body.
type TruncatingSource interface {
	BodyTruncated() bool
}

// ResponseSource exposes the fields of a client-native response.
type ResponseSource interface {
	RequestSource
	// StatusCode returns the numeric HTTP status.
	StatusCode() int
	// Status returns the status line text, e.g. "200 OK".
	Status() string
	// Elapsed returns the time between sending the request and receiving the response.
	Elapsed() time.Duration
}
