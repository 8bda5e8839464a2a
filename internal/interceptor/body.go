package interceptor

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MaxCapturedBody is the number of body bytes kept for printing.
// Longer bodies are passed through whole and printed truncated.
const MaxCapturedBody = 64 << 10

// streamingContentTypes are textual payloads that may never end.
//
//nolint:gochecknoglobals // Read-only lookup table.
var streamingContentTypes = []string{
	"text/event-stream",
	"application/x-ndjson",
	"application/stream+json",
	"application/jsonl",
	"application/grpc",
}

// replayBody serves already consumed bytes followed by the rest of the original stream.
type replayBody struct {
	io.Reader
	io.Closer
}

// capturedBody is the printable part of a body.
type capturedBody struct {
	data      []byte
	truncated bool
}

// drainBody reads up to limit bytes of b and returns them together with a body
// that yields the full original stream again. Only a body that fits the limit
// is read to the end and closed; a longer one continues from b.
// On a read failure the replacement replays what was read and then continues
// with b, so the consumer sees the same data and the same error.
func drainBody(b io.ReadCloser, limit int) (capturedBody, io.ReadCloser, error) {
	if b == nil || b == http.NoBody {
		return capturedBody{}, b, nil
	}

	var buf bytes.Buffer

	_, err := buf.ReadFrom(io.LimitReader(b, int64(limit)+1))
	if err != nil {
		return capturedBody{}, &replayBody{Reader: io.MultiReader(bytes.NewReader(buf.Bytes()), b), Closer: b}, err
	}

	if buf.Len() > limit {
		captured := capturedBody{data: buf.Bytes()[:limit], truncated: true}

		return captured, &replayBody{Reader: io.MultiReader(bytes.NewReader(buf.Bytes()), b), Closer: b}, nil
	}

	_ = b.Close() //nolint:errcheck // The content is fully buffered, a close error changes nothing for the caller.

	return capturedBody{data: buf.Bytes()}, io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

// readLimited reads up to limit bytes of a body nobody else consumes.
func readLimited(r io.Reader, limit int) (capturedBody, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return capturedBody{}, err
	}

	return truncate(data, limit), nil
}

// truncate cuts data to limit bytes.
func truncate(data []byte, limit int) capturedBody {
	if len(data) > limit {
		return capturedBody{data: data[:limit], truncated: true}
	}

	return capturedBody{data: data}
}

// isStreamingContentType reports whether a payload of this type is typically an open-ended stream.
func isStreamingContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	for _, streaming := range streamingContentTypes {
		if strings.HasPrefix(contentType, streaming) {
			return true
		}
	}

	return false
}

// recordingBody passes a body through to its reader and keeps the first
// limit bytes. done is called once, when the body hits EOF, fails or is closed.
type recordingBody struct {
	body  io.ReadCloser
	limit int
	done  func(capturedBody, error)

	mu        sync.Mutex
	buf       bytes.Buffer
	truncated bool
	once      sync.Once
}

func newRecordingBody(body io.ReadCloser, limit int, done func(capturedBody, error)) *recordingBody {
	return &recordingBody{
		body:  body,
		limit: limit,
		done:  done,
	}
}

func (r *recordingBody) Read(p []byte) (int, error) {
	n, err := r.body.Read(p)

	r.record(p[:n])

	switch {
	case errors.Is(err, io.EOF):
		r.finish(nil, false)
	case err != nil:
		r.finish(err, false)
	}

	return n, err
}

// Close reports a body that was not read to the end as truncated.
func (r *recordingBody) Close() error {
	err := r.body.Close()

	r.finish(nil, true)

	return err
}

func (r *recordingBody) record(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room := r.limit - r.buf.Len(); len(p) > room {
		p = p[:room]
		r.truncated = true
	}

	r.buf.Write(p)
}

func (r *recordingBody) finish(err error, closed bool) {
	r.once.Do(func() {
		r.mu.Lock()
		captured := capturedBody{
			data:      bytes.Clone(r.buf.Bytes()),
			truncated: r.truncated || closed,
		}
		r.mu.Unlock()

		r.done(captured, err)
	})
}
