package client

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/oshokin/traffic-logger/internal/interceptor"
	http_transport "github.com/oshokin/traffic-logger/internal/transport/http"
)

// RetryableClient sends requests with go-retryablehttp, printing every attempt.
type RetryableClient struct {
	retryableClient   *retryablehttp.Client
	userAgentProvider http_transport.UserAgentProvider
	opts              Options
}

// NewRetryableClient creates a retrying client printing its traffic.
func NewRetryableClient(opts Options) (*RetryableClient, error) {
	hooks, err := interceptor.NewRetryableHooks(opts.Printer)
	if err != nil {
		return nil, fmt.Errorf("failed to create retryable hooks: %w", err)
	}

	retryableClient := retryablehttp.NewClient()
	retryableClient.RetryMax = opts.RetryMax
	retryableClient.Logger = interceptor.NewRetryableLogger(context.Background())

	if opts.Transport != nil {
		retryableClient.HTTPClient.Transport = opts.Transport
	}

	return &RetryableClient{
		retryableClient:   hooks.Attach(retryableClient),
		userAgentProvider: opts.userAgentProvider(),
		opts:              opts,
	}, nil
}

// Do sends req, retrying on connection errors and 5xx responses.
func (c *RetryableClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.timeout())
	defer cancel()

	var body any
	if req.Body != nil {
		body = req.Body
	}

	retryableRequest, err := retryablehttp.NewRequestWithContext(ctx, req.method(), req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, values := range req.Header {
		retryableRequest.Header[name] = values
	}

	// The log hook runs before the transport, so the header is set here to be printed.
	if retryableRequest.Header.Get(userAgentHeader) == "" {
		retryableRequest.Header.Set(userAgentHeader, c.userAgentProvider.GetUserAgent())
	}

	httpResponse, err := c.retryableClient.Do(retryableRequest)
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
