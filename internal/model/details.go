package model

import (
	"time"

	"github.com/oshokin/traffic-logger/internal/classifier"
)

// UnknownContentLength marks a body whose size is not known up front.
const UnknownContentLength int64 = -1

// RequestDetails is the normalized view of one intercepted request.
// It is built once per event and must not be modified afterwards.
type RequestDetails struct {
	// ID correlates a request with its response.
	ID string
	// Method is the HTTP method.
	Method string
	// URL is the full request URL.
	URL string
	// Attempt is the retry number, zero for the first try.
	Attempt int
	// Header holds the request headers.
	Header Headers
	// ContentType is the declared content type.
	ContentType string
	// ContentLength is the body size in bytes, or UnknownContentLength.
	ContentLength int64
	// Body holds the textual body when it was captured.
	Body []byte
	// BodyUnavailable is set when the body could not be read.
	BodyUnavailable bool
	// BodyTruncated is set when Body holds only the first part of the payload.
	BodyTruncated bool

	isFile bool
}

// ResponseDetails is the normalized view of one intercepted response.
// It is built once per event and must not be modified afterwards.
type ResponseDetails struct {
	// ID correlates a response with its request.
	ID string
	// Method is the HTTP method of the originating request.
	Method string
	// URL is the URL of the originating request.
	URL string
	// StatusCode is the numeric HTTP status.
	StatusCode int
	// Status is the status line text.
	Status string
	// Elapsed is the round trip duration.
	Elapsed time.Duration
	// Header holds the response headers.
	Header Headers
	// ContentType is the declared content type.
	ContentType string
	// ContentLength is the body size in bytes, or UnknownContentLength.
	ContentLength int64
	// Body holds the textual body when it was captured.
	Body []byte
	// BodyUnavailable is set when the body could not be read.
	BodyUnavailable bool
	// BodyTruncated is set when Body holds only the first part of the payload.
	BodyTruncated bool

	isFile bool
}

// NewRequestDetails extracts a request from src.
// The body is read only when withBody is set and the payload is not a file.
func NewRequestDetails(id string, attempt int, src RequestSource, withBody bool) *RequestDetails {
	contentType := src.ContentType()

	details := &RequestDetails{
		ID:            id,
		Method:        src.Method(),
		URL:           src.URL(),
		Attempt:       attempt,
		Header:        HeadersFromHTTP(src.Header()),
		ContentType:   contentType,
		ContentLength: src.ContentLength(),
		isFile:        classifier.IsFileRequest(contentType),
	}

	if withBody && !details.isFile {
		details.Body, details.BodyUnavailable = readBody(src)
		details.BodyTruncated = bodyTruncated(src)
	}

	return details
}

// NewResponseDetails extracts a response from src.
// The body is read only when withBody is set and the payload is not a file.
func NewResponseDetails(id string, src ResponseSource, withBody bool) *ResponseDetails {
	contentType := src.ContentType()

	details := &ResponseDetails{
		ID:            id,
		Method:        src.Method(),
		URL:           src.URL(),
		StatusCode:    src.StatusCode(),
		Status:        src.Status(),
		Elapsed:       src.Elapsed(),
		Header:        HeadersFromHTTP(src.Header()),
		ContentType:   contentType,
		ContentLength: src.ContentLength(),
		isFile:        classifier.IsFileRequest(contentType),
	}

	if withBody && !details.isFile {
		details.Body, details.BodyUnavailable = readBody(src)
		details.BodyTruncated = bodyTruncated(src)
	}

	return details
}

// IsFile reports whether the request payload was classified as a file.
func (d *RequestDetails) IsFile() bool {
	return d.isFile
}

// IsFile reports whether the response payload was classified as a file.
func (d *ResponseDetails) IsFile() bool {
	return d.isFile
}

// readBody reads the body and turns a failure into an unavailable marker.
func readBody(src RequestSource) ([]byte, bool) {
	body, err := src.Body()
	if err != nil {
		return nil, true
	}

	return body, false
}

// bodyTruncated reports whether src returned a cut body.
func bodyTruncated(src RequestSource) bool {
	truncating, ok := src.(TruncatingSource)

	return ok && truncating.BodyTruncated()
}
