package model

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBodyRead = errors.New("body read failed")

// fakeSource is a hand-written ResponseSource used to drive the constructors.
type fakeSource struct {
	method      string
	url         string
	header      http.Header
	body        []byte
	bodyErr     error
	bodyReads   int
	statusCode  int
	status      string
	elapsed     time.Duration
	contentSize int64
}

func (s *fakeSource) Method() string         { return s.method }
func (s *fakeSource) URL() string            { return s.url }
func (s *fakeSource) Header() http.Header    { return s.header }
func (s *fakeSource) ContentType() string    { return s.header.Get("Content-Type") }
func (s *fakeSource) ContentLength() int64   { return s.contentSize }
func (s *fakeSource) StatusCode() int        { return s.statusCode }
func (s *fakeSource) Status() string         { return s.status }
func (s *fakeSource) Elapsed() time.Duration { return s.elapsed }

func (s *fakeSource) Body() ([]byte, error) {
	s.bodyReads++

	return s.body, s.bodyErr
}

func newJSONSource() *fakeSource {
	return &fakeSource{
		method: http.MethodPost,
		url:    "http://example.com/users",
		header: http.Header{
			"Content-Type": {"application/json"},
			"Accept":       {"application/json", "text/plain"},
		},
		body:        []byte(`{"name":"John"}`),
		statusCode:  http.StatusCreated,
		status:      "201 Created",
		elapsed:     15 * time.Millisecond,
		contentSize: 15,
	}
}

// TestNewRequestDetails tests extraction of a textual request.
func TestNewRequestDetails(t *testing.T) {
	t.Parallel()

	src := newJSONSource()
	details := NewRequestDetails("id-1", 2, src, true)

	require.NotNil(t, details)
	assert.Equal(t, "id-1", details.ID)
	assert.Equal(t, http.MethodPost, details.Method)
	assert.Equal(t, "http://example.com/users", details.URL)
	assert.Equal(t, 2, details.Attempt)
	assert.Equal(t, "application/json", details.ContentType)
	assert.Equal(t, int64(15), details.ContentLength)
	assert.Equal(t, []byte(`{"name":"John"}`), details.Body)
	assert.False(t, details.BodyUnavailable)
	assert.False(t, details.IsFile())
	assert.Equal(t, 1, src.bodyReads)
}

// TestNewRequestDetails_WithoutBody tests that the body is not read when it will not be rendered.
func TestNewRequestDetails_WithoutBody(t *testing.T) {
	t.Parallel()

	src := newJSONSource()
	details := NewRequestDetails("id-1", 0, src, false)

	assert.Nil(t, details.Body)
	assert.Zero(t, src.bodyReads)
}

// TestNewRequestDetails_FileSkipsBody tests that file payloads are never read.
func TestNewRequestDetails_FileSkipsBody(t *testing.T) {
	t.Parallel()

	src := newJSONSource()
	src.header.Set("Content-Type", "image/png")

	details := NewRequestDetails("id-1", 0, src, true)

	assert.True(t, details.IsFile())
	assert.Nil(t, details.Body)
	assert.Zero(t, src.bodyReads)
}

// TestNewResponseDetails tests extraction of a textual response.
func TestNewResponseDetails(t *testing.T) {
	t.Parallel()

	src := newJSONSource()
	details := NewResponseDetails("id-2", src, true)

	assert.Equal(t, "id-2", details.ID)
	assert.Equal(t, http.StatusCreated, details.StatusCode)
	assert.Equal(t, "201 Created", details.Status)
	assert.Equal(t, 15*time.Millisecond, details.Elapsed)
	assert.Equal(t, []byte(`{"name":"John"}`), details.Body)
	assert.False(t, details.IsFile())
}

// TestNewResponseDetails_BodyError tests that a body read failure is recoverable.
func TestNewResponseDetails_BodyError(t *testing.T) {
	t.Parallel()

	src := newJSONSource()
	src.bodyErr = errBodyRead

	details := NewResponseDetails("id-3", src, true)

	require.NotNil(t, details)
	assert.True(t, details.BodyUnavailable)
	assert.Nil(t, details.Body)
	assert.Equal(t, http.StatusCreated, details.StatusCode)
}

// TestNewResponseDetails_OctetStream tests classification of an octet-stream response.
func TestNewResponseDetails_OctetStream(t *testing.T) {
	t.Parallel()

	src := newJSONSource()
	src.header.Set("Content-Type", "application/octet-stream")

	details := NewResponseDetails("id-4", src, true)

	assert.True(t, details.IsFile())
	assert.Zero(t, src.bodyReads)
}

// TestNewResponseDetails_MissingContentType tests that a missing content type is rendered as text.
func TestNewResponseDetails_MissingContentType(t *testing.T) {
	t.Parallel()

	src := newJSONSource()
	src.header.Del("Content-Type")

	details := NewResponseDetails("id-5", src, true)

	assert.False(t, details.IsFile())
	assert.NotNil(t, details.Body)
}

// truncatingSource reports a cut body.
type truncatingSource struct {
	*fakeSource
}

func (s truncatingSource) BodyTruncated() bool { return true }

// TestNewResponseDetails_Truncated tests that a truncating source marks the body as truncated.
func TestNewResponseDetails_Truncated(t *testing.T) {
	t.Parallel()

	src := truncatingSource{fakeSource: newJSONSource()}

	details := NewResponseDetails("id-1", src, true)

	assert.True(t, details.BodyTruncated)
	assert.Equal(t, []byte(`{"name":"John"}`), details.Body)

	plain := NewResponseDetails("id-2", newJSONSource(), true)
	assert.False(t, plain.BodyTruncated)
}
