package interceptor

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRestyMiddleware_JSONBody tests that a struct body is printed as JSON with merged headers.
func TestRestyMiddleware_JSONBody(t *testing.T) {
	t.Parallel()

	server := newEchoServer(t)
	cfg, sink := newTestConfig(t)

	client := NewRestyMiddleware(cfg).Attach(
		resty.New().SetBaseURL(server.URL).SetHeader("X-Client", "traffic-logger"),
	)

	resp, err := client.R().
		SetContext(t.Context()).
		SetBody(map[string]any{"name": "John"}).
		Post("/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.JSONEq(t, `{"name":"John"}`, resp.String())

	events := sink.snapshot()
	require.Len(t, events, 2)

	request, response := events[0], events[1]

	assert.Contains(t, request, "URL: "+server.URL+"/users")
	assert.Contains(t, request, "Method: @POST")
	assert.Contains(t, request, "X-Client: traffic-logger")
	assert.Contains(t, joined(request), "Content-Type: application/json")
	assert.Contains(t, request, `  "name": "John"`)

	assert.Contains(t, response, "Status Code: 200 / OK")
	assert.Contains(t, response, `  "name": "John"`)

	assert.NotEmpty(t, idOf(request))
	assert.Equal(t, idOf(request), idOf(response))
}

// TestRestyMiddleware_ReaderBody tests that a reader body is printed and still sent.
func TestRestyMiddleware_ReaderBody(t *testing.T) {
	t.Parallel()

	server := newEchoServer(t)
	cfg, sink := newTestConfig(t)

	client := NewRestyMiddleware(cfg).Attach(resty.New().SetBaseURL(server.URL))

	resp, err := client.R().
		SetContext(t.Context()).
		SetHeader("Content-Type", "text/plain").
		SetBody(strings.NewReader("hello resty")).
		Put("/echo")
	require.NoError(t, err)
	assert.Equal(t, "hello resty", resp.String())

	events := sink.snapshot()
	require.Len(t, events, 2)
	assert.Contains(t, events[0], "hello resty")
	assert.Contains(t, events[1], "hello resty")
}

// TestRestyMiddleware_URL tests that path and query parameters are resolved like resty does.
func TestRestyMiddleware_URL(t *testing.T) {
	t.Parallel()

	server := newEchoServer(t)
	cfg, sink := newTestConfig(t)

	client := NewRestyMiddleware(cfg).Attach(
		resty.New().SetBaseURL(server.URL).SetQueryParam("page", "2"),
	)

	_, err := client.R().
		SetContext(t.Context()).
		SetPathParam("id", "42").
		SetQueryParam("sort", "asc").
		Get("/users/{id}")
	require.NoError(t, err)

	events := sink.snapshot()
	require.Len(t, events, 2)

	assert.Contains(t, events[0], "URL: "+server.URL+"/users/42?page=2&sort=asc")
	assert.Contains(t, events[0], "Body: empty request body")
	assert.Contains(t, events[1], "URL: "+server.URL+"/users/42?page=2&sort=asc")
	assert.Contains(t, events[1], "Body: empty response body")
}

// TestRestyMiddleware_FormData tests that form data is printed as an encoded body.
func TestRestyMiddleware_FormData(t *testing.T) {
	t.Parallel()

	server := newEchoServer(t)
	cfg, sink := newTestConfig(t)

	client := NewRestyMiddleware(cfg).Attach(resty.New().SetBaseURL(server.URL))

	resp, err := client.R().
		SetContext(t.Context()).
		SetFormData(map[string]string{"user": "john", "role": "admin"}).
		Post("/login")
	require.NoError(t, err)
	assert.Equal(t, "role=admin&user=john", resp.String())

	events := sink.snapshot()
	require.Len(t, events, 2)
	assert.Contains(t, events[0], "Content-Type: application/x-www-form-urlencoded")
	assert.Contains(t, events[0], "role=admin&user=john")
}

// TestRestyMiddleware_ClientAddedHeaders tests that headers and bodies resty builds itself are printed.
func TestRestyMiddleware_ClientAddedHeaders(t *testing.T) {
	t.Parallel()

	received := make(chan http.Header, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		received <- r.Header.Clone()

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg, sink := newTestConfig(t)

	client := NewRestyMiddleware(cfg).Attach(
		resty.New().SetBaseURL(server.URL).SetAuthToken("secret-token"),
	)

	resp, err := client.R().
		SetContext(t.Context()).
		SetMultipartFormData(map[string]string{"a": "b"}).
		Post("/upload")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	sent := <-received

	events := sink.snapshot()
	require.Len(t, events, 2)

	request := joined(events[0])

	assert.Contains(t, request, "URL: "+server.URL+"/upload")
	assert.Contains(t, request, "Authorization: Bearer secret-token")
	assert.Contains(t, request, "User-Agent: "+sent.Get("User-Agent"))
	assert.Contains(t, request, "Content-Type: "+sent.Get("Content-Type"))
	assert.Contains(t, request, "Content-Type: multipart/form-data; boundary=")
	assert.Contains(t, request, "Omitted request body")
}

// TestRestyMiddleware_XMLBody tests that a struct body is printed the way resty encoded it.
func TestRestyMiddleware_XMLBody(t *testing.T) {
	t.Parallel()

	type user struct {
		XMLName xml.Name `xml:"user"`
		Name    string   `xml:"name"`
	}

	server := newEchoServer(t)
	cfg, sink := newTestConfig(t)

	client := NewRestyMiddleware(cfg).Attach(resty.New().SetBaseURL(server.URL))

	_, err := client.R().
		SetContext(t.Context()).
		SetHeader("Content-Type", "application/xml").
		SetBody(user{Name: "John"}).
		Post("/users")
	require.NoError(t, err)

	events := sink.snapshot()
	require.Len(t, events, 2)
	assert.Contains(t, events[0], "<user><name>John</name></user>")
}

// TestRestyMiddleware_Retries tests that every attempt is printed with its retry number.
func TestRestyMiddleware_Retries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg, sink := newTestConfig(t)

	client := NewRestyMiddleware(cfg).Attach(
		resty.New().
			SetBaseURL(server.URL).
			SetRetryCount(1).
			SetRetryWaitTime(time.Millisecond).
			SetRetryMaxWaitTime(time.Millisecond).
			AddRetryCondition(func(r *resty.Response, _ error) bool {
				return r.StatusCode() == http.StatusServiceUnavailable
			}),
	)

	resp, err := client.R().SetContext(t.Context()).Get("/flaky")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	events := sink.snapshot()
	require.Len(t, events, 4)

	assert.NotContains(t, joined(events[0]), "Retry attempt:")
	assert.Contains(t, events[2], "Retry attempt: 1")
	assert.Contains(t, events[3], "Status Code: 200 / OK")
	assert.Equal(t, idOf(events[2]), idOf(events[3]))
}

// TestRestyMiddleware_Disabled tests that a closed gate leaves the request untouched.
func TestRestyMiddleware_Disabled(t *testing.T) {
	t.Parallel()

	server := newEchoServer(t)
	sink := &recordingSink{}

	cfg, err := newDisabledConfig(sink)
	require.NoError(t, err)

	client := NewRestyMiddleware(cfg).Attach(resty.New().SetBaseURL(server.URL))

	resp, err := client.R().SetContext(t.Context()).SetBody(testJSONBody).Post("/users")
	require.NoError(t, err)
	assert.JSONEq(t, testJSONBody, resp.String())
	assert.Empty(t, sink.snapshot())
}
