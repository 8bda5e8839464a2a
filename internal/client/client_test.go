package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/traffic-logger/internal/printer"
)

const testJSONBody = `{"name":"John","age":31,"city":"New York"}`

// recordingSink keeps the lines of every printed event.
type recordingSink struct {
	mu     sync.Mutex
	events [][]string
}

func (s *recordingSink) WriteLines(_ context.Context, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, lines)

	return nil
}

func (s *recordingSink) snapshot() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([][]string(nil), s.events...)
}

func newTestOptions(t *testing.T) (Options, *recordingSink) {
	t.Helper()

	sink := &recordingSink{}

	cfg, err := printer.NewConfig(printer.WithLevel(printer.LevelBody), printer.WithSink(sink))
	require.NoError(t, err)

	return Options{Printer: cfg, UserAgent: "TestAgent/1.0", RetryMax: 1}, sink
}

// newEchoServer answers with the received body and reports the User-Agent back in a header.
func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Seen-User-Agent", r.Header.Get("User-Agent"))
		w.Header().Set("X-Seen-Trace", r.Header.Get("X-Trace"))
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	return server
}

// TestNew tests the New function for every client kind.
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		kind        string
		expectedErr error
	}{
		{name: "net/http", kind: KindHTTP},
		{name: "resty", kind: KindResty},
		{name: "retryable", kind: KindRetryable},
		{name: "unknown", kind: "curl", expectedErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, _ := newTestOptions(t)

			c, err := New(tt.kind, opts)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, c)

				return
			}

			require.NoError(t, err)
			assert.Implements(t, (*Client)(nil), c)
		})
	}
}

// TestClient_Do tests that every client kind sends the request and prints the exchange.
func TestClient_Do(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{KindHTTP, KindResty, KindRetryable} {
		t.Run(kind, func(t *testing.T) {
			t.Parallel()

			server := newEchoServer(t)
			opts, sink := newTestOptions(t)

			c, err := New(kind, opts)
			require.NoError(t, err)

			resp, err := c.Do(t.Context(), &Request{
				Method: http.MethodPost,
				URL:    server.URL + "/users",
				Header: http.Header{
					"Content-Type": {"application/json"},
					"X-Trace":      {"abc"},
				},
				Body: []byte(testJSONBody),
			})
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, testJSONBody, string(resp.Body))
			assert.False(t, resp.Truncated)
			assert.Equal(t, "TestAgent/1.0", resp.Header.Get("X-Seen-User-Agent"))
			assert.Equal(t, "abc", resp.Header.Get("X-Seen-Trace"))

			events := sink.snapshot()
			require.Len(t, events, 2)
			assert.Contains(t, events[0], "URL: "+server.URL+"/users")
			assert.Contains(t, events[0], "Method: @POST")
			assert.Contains(t, events[0], "User-Agent: TestAgent/1.0")
			assert.Contains(t, events[0], `  "name": "John",`)
			assert.Contains(t, events[1], "Status Code: 200 / OK")
		})
	}
}

// TestClient_Do_MaxResponseSize tests that the response body is cut at the configured size.
func TestClient_Do_MaxResponseSize(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{KindHTTP, KindResty, KindRetryable} {
		t.Run(kind, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = io.WriteString(w, strings.Repeat("a", 100))
			}))
			defer server.Close()

			opts, _ := newTestOptions(t)
			opts.MaxResponseSize = 10

			c, err := New(kind, opts)
			require.NoError(t, err)

			resp, err := c.Do(t.Context(), &Request{URL: server.URL})
			require.NoError(t, err)

			assert.Equal(t, strings.Repeat("a", 10), string(resp.Body))
			assert.True(t, resp.Truncated)
		})
	}
}

// TestClient_Do_NilRequest tests that a nil request is rejected.
func TestClient_Do_NilRequest(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{KindHTTP, KindResty, KindRetryable} {
		t.Run(kind, func(t *testing.T) {
			t.Parallel()

			opts, _ := newTestOptions(t)

			c, err := New(kind, opts)
			require.NoError(t, err)

			resp, err := c.Do(t.Context(), nil)
			require.ErrorIs(t, err, ErrNilRequest)
			assert.Nil(t, resp)
		})
	}
}

// TestRetryableClient_Do_Retries tests that a failed attempt is retried and both attempts are printed.
func TestRetryableClient_Do_Retries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	opts, sink := newTestOptions(t)

	c, err := NewRetryableClient(opts)
	require.NoError(t, err)

	c.retryableClient.RetryWaitMin = 0
	c.retryableClient.RetryWaitMax = 0

	resp, err := c.Do(t.Context(), &Request{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	events := sink.snapshot()
	require.Len(t, events, 4)
	assert.Contains(t, events[1], "Status Code: 502 / Bad Gateway")
	assert.Contains(t, events[2], "Retry attempt: 1")
	assert.Contains(t, events[3], "Status Code: 204 / No Content")
}

// TestGraphQLClient_Run tests that a query is sent, decoded and printed.
func TestGraphQLClient_Run(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload.Query, "user(id: $id)")
		assert.Equal(t, "42", payload.Variables["id"])
		assert.Equal(t, "TestAgent/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"user":{"name":"John"}}}`)
	}))
	defer server.Close()

	opts, sink := newTestOptions(t)

	graphQLClient := NewGraphQLClient(t.Context(), server.URL, opts)

	data, err := graphQLClient.Run(t.Context(),
		`query getUser($id: ID!) { user(id: $id) { name } }`,
		map[string]any{"id": "42"},
		http.Header{"Authorization": {"Bearer token"}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"user": map[string]any{"name": "John"}}, data)

	events := sink.snapshot()
	require.Len(t, events, 2)
	assert.Contains(t, events[0], "Method: @POST")
	assert.Contains(t, events[1], `      "name": "John"`)
}

// TestGraphQLClient_Run_Error tests that GraphQL errors are returned.
func TestGraphQLClient_Run_Error(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"errors":[{"message":"user not found"}]}`)
	}))
	defer server.Close()

	opts, _ := newTestOptions(t)

	_, err := NewGraphQLClient(t.Context(), server.URL, opts).Run(t.Context(), `{ user { name } }`, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}
