package interceptor

import (
	"errors"
	"net/http"
	"time"

	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/printer"
)

// Transport is an http.RoundTripper that prints every request and response passing through it.
// It wraps another http.RoundTripper and leaves the outcome of the call untouched.
type Transport struct {
	handler

	// next is the underlying HTTP round tripper.
	next http.RoundTripper
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")
)

// NewTransport creates and returns a new instance of Transport.
// If next is nil, http.DefaultTransport is used.
func NewTransport(next http.RoundTripper, cfg *printer.Config) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &Transport{
		handler: newHandler(cfg),
		next:    next,
	}
}

// RoundTrip executes a single HTTP transaction and prints the request and response.
// It implements the http.RoundTripper interface.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if !t.enabled() {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()
	id := newEventID()

	src := &httpRequestSource{req: req}

	t.logRequest(ctx, id, 0, src)

	// The source may have swapped in a clone carrying the restored body.
	outgoing := src.req

	startTime := time.Now()

	resp, err := t.next.RoundTrip(outgoing)

	elapsed := time.Since(startTime)

	if err != nil {
		logger.Debugf(ctx, "Request failed: %s %s | Error: %v", req.Method, req.URL.String(), err)

		return resp, err
	}

	t.logHTTPResponse(ctx, id, &httpResponseSource{resp: resp, req: outgoing, elapsed: elapsed})

	return resp, nil
}
