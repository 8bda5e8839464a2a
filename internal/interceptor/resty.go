package interceptor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/model"
	"github.com/oshokin/traffic-logger/internal/printer"
)

// ErrBodyNotCaptured indicates that resty did not keep the response body.
var ErrBodyNotCaptured = errors.New("response body was not captured by the client")

// restyAttemptKey stores the attempt number of a resty request in its context.
type restyAttemptKey struct{}

// RestyMiddleware prints requests and responses made by a resty client.
// Requests are printed from the *http.Request resty is about to send, so
// everything resty adds on its own (auth, default headers, encoded bodies)
// is part of the printed event.
type RestyMiddleware struct {
	handler
}

// NewRestyMiddleware creates middleware printing through cfg.
func NewRestyMiddleware(cfg *printer.Config) *RestyMiddleware {
	return &RestyMiddleware{handler: newHandler(cfg)}
}

// Attach registers the middleware on client and returns it.
// It installs the client's pre-request hook, replacing any previous one.
func (m *RestyMiddleware) Attach(client *resty.Client) *resty.Client {
	return client.
		OnBeforeRequest(m.BeforeRequest).
		SetPreRequestHook(m.PreRequest).
		OnAfterResponse(m.AfterResponse).
		OnError(m.OnError)
}

// BeforeRequest tags the attempt with a correlation ID. It never fails the request.
func (m *RestyMiddleware) BeforeRequest(_ *resty.Client, req *resty.Request) error {
	if req == nil || !m.enabled() {
		return nil
	}

	ctx := withEventID(req.Context(), newEventID())

	// resty counts attempts from one.
	ctx = context.WithValue(ctx, restyAttemptKey{}, max(req.Attempt-1, 0))

	req.SetContext(ctx)

	return nil
}

// PreRequest prints the request resty is about to send. It never fails the request.
func (m *RestyMiddleware) PreRequest(_ *resty.Client, req *http.Request) error {
	if req == nil || !m.enabled() {
		return nil
	}

	ctx := req.Context()
	attempt, _ := ctx.Value(restyAttemptKey{}).(int)

	// resty sends this very request, so a drained body is restored on it.
	m.logRequest(ctx, eventIDFromContext(ctx), attempt, &httpRequestSource{req: req, inPlace: true})

	return nil
}

// AfterResponse prints the response. It never fails the request.
func (m *RestyMiddleware) AfterResponse(_ *resty.Client, resp *resty.Response) error {
	if resp == nil || resp.Request == nil || !m.enabled() {
		return nil
	}

	ctx := resp.Request.Context()

	m.logResponse(ctx, eventIDFromContext(ctx), &restyResponseSource{resp: resp})

	return nil
}

// OnError logs a failed request at debug level.
func (m *RestyMiddleware) OnError(req *resty.Request, err error) {
	if req == nil || !m.enabled() {
		return
	}

	logger.Debugf(req.Context(), "Request failed: %s %s | Error: %v", req.Method, req.URL, err)
}

// restyResponseSource describes a resty response.
type restyResponseSource struct {
	resp      *resty.Response
	truncated bool
}

func (s *restyResponseSource) Method() string {
	if raw := s.resp.Request.RawRequest; raw != nil {
		return raw.Method
	}

	return s.resp.Request.Method
}

func (s *restyResponseSource) URL() string {
	if raw := s.resp.Request.RawRequest; raw != nil && raw.URL != nil {
		return raw.URL.String()
	}

	return s.resp.Request.URL
}

func (s *restyResponseSource) Header() http.Header {
	return s.resp.Header()
}

func (s *restyResponseSource) ContentType() string {
	return s.resp.Header().Get(contentTypeHeader)
}

func (s *restyResponseSource) ContentLength() int64 {
	if body := s.resp.Body(); body != nil {
		return int64(len(body))
	}

	if raw := s.resp.RawResponse; raw != nil && raw.ContentLength >= 0 {
		return raw.ContentLength
	}

	return model.UnknownContentLength
}

// Body returns the body resty has already read, cut to the capture limit.
func (s *restyResponseSource) Body() ([]byte, error) {
	body := s.resp.Body()
	if body == nil && s.resp.RawResponse != nil && s.resp.RawResponse.ContentLength != 0 {
		return nil, ErrBodyNotCaptured
	}

	captured := truncate(body, MaxCapturedBody)
	s.truncated = captured.truncated

	return captured.data, nil
}

func (s *restyResponseSource) BodyTruncated() bool {
	return s.truncated
}

func (s *restyResponseSource) StatusCode() int {
	return s.resp.StatusCode()
}

func (s *restyResponseSource) Status() string {
	return s.resp.Status()
}

func (s *restyResponseSource) Elapsed() time.Duration {
	return s.resp.Time()
}
