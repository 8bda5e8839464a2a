package client

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oshokin/traffic-logger/internal/printer"
	http_transport "github.com/oshokin/traffic-logger/internal/transport/http"
)

// Client sends a single HTTP request.
type Client interface {
	// Do sends req and returns the response with its body read.
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request is a client-independent HTTP request.
type Request struct {
	// Method is the HTTP method, GET when empty.
	Method string
	// URL is the absolute request URL.
	URL string
	// Header holds the request headers.
	Header http.Header
	// Body is the request payload, nil for none.
	Body []byte
}

// Response is a client-independent HTTP response.
type Response struct {
	// StatusCode is the numeric HTTP status.
	StatusCode int
	// Status is the status line text, e.g. "200 OK".
	Status string
	// Header holds the response headers.
	Header http.Header
	// Body is the response payload, cut at Options.MaxResponseSize.
	Body []byte
	// Truncated is set when Body was cut.
	Truncated bool
}

// Options configures every client kind.
type Options struct {
	// Printer receives the traffic. A nil Printer disables printing.
	Printer *printer.Config
	// Timeout bounds a whole call including retries, 0 means http_transport.DefaultTimeout.
	Timeout time.Duration
	// RetryMax is the number of retries of the retryable client.
	RetryMax int
	// UserAgent overrides http_transport.DefaultUserAgent.
	UserAgent string
	// MaxResponseSize limits Response.Body, 0 means no limit.
	MaxResponseSize int64
	// Transport is the base round tripper, http.DefaultTransport when nil.
	Transport http.RoundTripper
}

const userAgentHeader = "User-Agent"

// Client kinds.
const (
	KindHTTP      = "http"
	KindResty     = "resty"
	KindRetryable = "retryable"
)

// Static error definitions for better error handling.
var (
	// ErrUnknownKind indicates that the client kind is not recognized.
	ErrUnknownKind = errors.New("unknown client kind")
	// ErrNilRequest indicates that the request is nil.
	ErrNilRequest = errors.New("request is nil")
)

// New creates a client of the given kind.
func New(kind string, opts Options) (Client, error) {
	switch kind {
	case KindHTTP:
		return NewHTTPClient(opts), nil
	case KindResty:
		return NewRestyClient(opts), nil
	case KindRetryable:
		return NewRetryableClient(opts)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownKind, kind)
	}
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return http_transport.DefaultTimeout
	}

	return o.Timeout
}

func (o Options) userAgentProvider() http_transport.UserAgentProvider {
	return http_transport.NewUserAgentProvider(o.UserAgent)
}

func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}

	return r.Method
}

// readLimited reads body up to limit bytes, 0 meaning everything.
func readLimited(body io.Reader, limit int64) ([]byte, bool, error) {
	if limit <= 0 {
		data, err := io.ReadAll(body)

		return data, false, err
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, false, err
	}

	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}

	return data, false, nil
}

// limitBody cuts an already read body to limit bytes, 0 meaning no limit.
func limitBody(body []byte, limit int64) ([]byte, bool) {
	if limit > 0 && int64(len(body)) > limit {
		return body[:limit], true
	}

	return body, false
}
