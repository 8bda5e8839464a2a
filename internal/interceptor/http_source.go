package interceptor

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/model"
)

const contentTypeHeader = "Content-Type"

// httpRequestSource describes a net/http request.
// Unless inPlace is set, a drained body is restored on a clone of req,
// which then replaces req and must be the request that is sent.
type httpRequestSource struct {
	req       *http.Request
	inPlace   bool
	truncated bool
}

// httpResponseSource describes a net/http response.
// A set captured holds a body recorded while the caller read it.
type httpResponseSource struct {
	resp    *http.Response
	req     *http.Request
	elapsed time.Duration

	captured  *capturedBody
	readErr   error
	truncated bool
}

func (s *httpRequestSource) Method() string {
	if s.req.Method == "" {
		return http.MethodGet
	}

	return s.req.Method
}

func (s *httpRequestSource) URL() string {
	if s.req.URL == nil {
		return ""
	}

	return s.req.URL.String()
}

func (s *httpRequestSource) Header() http.Header {
	return s.req.Header
}

func (s *httpRequestSource) ContentType() string {
	return s.req.Header.Get(contentTypeHeader)
}

func (s *httpRequestSource) ContentLength() int64 {
	if s.req.Body == nil || s.req.Body == http.NoBody {
		return 0
	}

	if s.req.ContentLength <= 0 {
		return model.UnknownContentLength
	}

	return s.req.ContentLength
}

// Body prefers GetBody so the outgoing stream stays untouched.
func (s *httpRequestSource) Body() ([]byte, error) {
	if s.req.Body == nil || s.req.Body == http.NoBody {
		return nil, nil
	}

	if s.req.GetBody != nil {
		body, err := s.req.GetBody()
		if err == nil {
			defer body.Close() //nolint:errcheck // A fresh copy of the body, nothing else reads it.

			captured, readErr := readLimited(body, MaxCapturedBody)
			if readErr == nil {
				s.truncated = captured.truncated

				return captured.data, nil
			}
		}
	}

	captured, restored, err := drainBody(s.req.Body, MaxCapturedBody)
	s.restore(restored)

	if err != nil {
		logger.Debugf(s.req.Context(), "Failed to read request body for logging: %v", err)

		return nil, err
	}

	s.truncated = captured.truncated

	return captured.data, nil
}

func (s *httpRequestSource) BodyTruncated() bool {
	return s.truncated
}

// restore puts a replacement body on the request that will be sent.
func (s *httpRequestSource) restore(body io.ReadCloser) {
	if s.inPlace {
		s.req.Body = body

		return
	}

	clone := s.req.Clone(s.req.Context())
	clone.Body = body
	s.req = clone
}

func (s *httpResponseSource) Method() string {
	return (&httpRequestSource{req: s.request()}).Method()
}

func (s *httpResponseSource) URL() string {
	return (&httpRequestSource{req: s.request()}).URL()
}

func (s *httpResponseSource) Header() http.Header {
	return s.resp.Header
}

func (s *httpResponseSource) ContentType() string {
	return s.resp.Header.Get(contentTypeHeader)
}

func (s *httpResponseSource) ContentLength() int64 {
	if s.resp.ContentLength < 0 {
		return model.UnknownContentLength
	}

	return s.resp.ContentLength
}

func (s *httpResponseSource) Body() ([]byte, error) {
	if s.captured != nil {
		s.truncated = s.captured.truncated

		return s.captured.data, s.readErr
	}

	captured, restored, err := drainBody(s.resp.Body, MaxCapturedBody)
	s.resp.Body = restored

	if err != nil {
		logger.Debugf(s.context(), "Failed to read response body for logging: %v", err)

		return nil, err
	}

	s.truncated = captured.truncated

	return captured.data, nil
}

func (s *httpResponseSource) BodyTruncated() bool {
	return s.truncated
}

// readsAhead reports whether reading the body now could hold the response back:
// streams, bodies of unknown length and bodies larger than the capture limit.
func (s *httpResponseSource) readsAhead() bool {
	if s.resp.Body == nil || s.resp.Body == http.NoBody {
		return false
	}

	return s.resp.ContentLength < 0 ||
		s.resp.ContentLength > MaxCapturedBody ||
		isStreamingContentType(s.ContentType())
}

// recordWhileRead replaces the response body with one that records what the
// caller reads and calls done once the caller has finished with it.
func (s *httpResponseSource) recordWhileRead(done func()) {
	s.resp.Body = newRecordingBody(s.resp.Body, MaxCapturedBody, func(captured capturedBody, err error) {
		s.captured = &captured
		s.readErr = err

		if err != nil {
			logger.Debugf(s.context(), "Failed to read response body for logging: %v", err)
		}

		done()
	})
}

func (s *httpResponseSource) StatusCode() int {
	return s.resp.StatusCode
}

func (s *httpResponseSource) Status() string {
	return s.resp.Status
}

func (s *httpResponseSource) Elapsed() time.Duration {
	return s.elapsed
}

// request returns the request the response belongs to.
func (s *httpResponseSource) request() *http.Request {
	if s.resp.Request != nil {
		return s.resp.Request
	}

	if s.req != nil {
		return s.req
	}

	return &http.Request{}
}

func (s *httpResponseSource) context() context.Context {
	return s.request().Context()
}
