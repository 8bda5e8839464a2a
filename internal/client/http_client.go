package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/oshokin/traffic-logger/internal/interceptor"
	http_transport "github.com/oshokin/traffic-logger/internal/transport/http"
)

// HTTPClient sends requests with net/http.
type HTTPClient struct {
	httpClient *http.Client
	opts       Options
}

// NewHTTPClient creates a net/http client printing its traffic.
func NewHTTPClient(opts Options) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Transport: newPrintingTransport(opts)},
		opts:       opts,
	}
}

// newPrintingTransport injects the User-Agent first so the printed request shows it.
func newPrintingTransport(opts Options) http.RoundTripper {
	return http_transport.Chain(opts.Transport,
		http_transport.WithUserAgent(opts.userAgentProvider()),
		func(next http.RoundTripper) http.RoundTripper {
			return interceptor.NewTransport(next, opts.Printer)
		},
	)
}

// Do sends req and reads the response body.
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.timeout())
	defer cancel()

	var body io.Reader = http.NoBody
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, req.method(), req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, values := range req.Header {
		httpRequest.Header[name] = values
	}

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer httpResponse.Body.Close() //nolint:errcheck // The body is fully read.

	responseBody, truncated, err := readLimited(httpResponse.Body, c.opts.MaxResponseSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResponse.StatusCode,
		Status:     httpResponse.Status,
		Header:     httpResponse.Header,
		Body:       responseBody,
		Truncated:  truncated,
	}, nil
}
