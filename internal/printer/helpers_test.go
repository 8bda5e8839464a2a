package printer

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/oshokin/traffic-logger/internal/model"
)

const testJSONBody = `{"name":"John","age":31,"city":"New York"}`

// staticSource is a fixed model.ResponseSource for building details in tests.
type staticSource struct {
	method     string
	url        string
	header     http.Header
	body       []byte
	length     int64
	statusCode int
	status     string
	elapsed    time.Duration
}

func (s staticSource) Method() string         { return s.method }
func (s staticSource) URL() string            { return s.url }
func (s staticSource) Header() http.Header    { return s.header }
func (s staticSource) ContentType() string    { return s.header.Get("Content-Type") }
func (s staticSource) ContentLength() int64   { return s.length }
func (s staticSource) Body() ([]byte, error)  { return s.body, nil }
func (s staticSource) StatusCode() int        { return s.statusCode }
func (s staticSource) Status() string         { return s.status }
func (s staticSource) Elapsed() time.Duration { return s.elapsed }

func jsonSource() staticSource {
	return staticSource{
		method: http.MethodPost,
		url:    "http://localhost:8080/users",
		header: http.Header{
			"Content-Type": {"application/json"},
			"X-Trace":      {"abc"},
		},
		body:       []byte(testJSONBody),
		length:     int64(len(testJSONBody)),
		statusCode: http.StatusOK,
		status:     "200 OK",
		elapsed:    12 * time.Millisecond,
	}
}

func fileSource() staticSource {
	src := jsonSource()
	src.method = http.MethodGet
	src.header = http.Header{"Content-Type": {"application/octet-stream"}}
	src.body = []byte{0x00, 0x01, 0x02}
	src.length = 2048

	return src
}

func jsonRequest() *model.RequestDetails {
	return model.NewRequestDetails("req-1", 0, jsonSource(), true)
}

func jsonResponse() *model.ResponseDetails {
	return model.NewResponseDetails("req-1", jsonSource(), true)
}

func fileResponse() *model.ResponseDetails {
	return model.NewResponseDetails("req-2", fileSource(), true)
}

// recordingSink keeps every WriteLines call.
type recordingSink struct {
	mu    sync.Mutex
	calls [][]string
}

func (s *recordingSink) WriteLines(_ context.Context, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, append([]string(nil), lines...))

	return nil
}

func (s *recordingSink) Calls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([][]string(nil), s.calls...)
}

// bodySection returns the lines between "Body:" and the bottom border.
func bodySection(lines []string) []string {
	for i, line := range lines {
		if line == "Body:" {
			end := len(lines) - 1

			return lines[i+1 : end]
		}
	}

	return nil
}
