package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/oshokin/traffic-logger/internal/interceptor"
	http_transport "github.com/oshokin/traffic-logger/internal/transport/http"
)

// RestyClient sends requests with go-resty.
type RestyClient struct {
	restyClient *resty.Client
	opts        Options
}

// NewRestyClient creates a resty client printing its traffic.
// resty sets its own User-Agent, so the configured one is set as a client header.
func NewRestyClient(opts Options) *RestyClient {
	restyClient := resty.New().
		SetTransport(http_transport.Chain(opts.Transport)).
		SetHeader(userAgentHeader, opts.userAgentProvider().GetUserAgent())

	return &RestyClient{
		restyClient: interceptor.NewRestyMiddleware(opts.Printer).Attach(restyClient),
		opts:        opts,
	}
}

// Do sends req. resty reads the whole body, the limit is applied afterwards.
func (c *RestyClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.timeout())
	defer cancel()

	restyRequest := c.restyClient.R().
		SetContext(ctx).
		SetHeaderMultiValues(req.Header)

	if req.Body != nil {
		restyRequest.SetBody(req.Body)
	}

	restyResponse, err := restyRequest.Execute(req.method(), req.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	body, truncated := limitBody(restyResponse.Body(), c.opts.MaxResponseSize)

	return &Response{
		StatusCode: restyResponse.StatusCode(),
		Status:     restyResponse.Status(),
		Header:     restyResponse.Header(),
		Body:       body,
		Truncated:  truncated,
	}, nil
}
