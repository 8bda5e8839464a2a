package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/traffic-logger/internal/model"
)

const jsonIndent = "  "

// bodyView is the body part of an event.
type bodyView struct {
	data        []byte
	unavailable bool
	truncated   bool
}

// renderer accumulates bounded lines for one event.
type renderer struct {
	maxLineLength int
	lines         []string
}

func newRenderer(maxLineLength int) *renderer {
	return &renderer{maxLineLength: maxLineLength}
}

// RenderRequest turns a request into lines no longer than maxLineLength.
// It returns nil when level is LevelNone.
func RenderRequest(d *model.RequestDetails, level Level, maxLineLength int) []string {
	if d == nil || level == LevelNone || !level.IsValid() {
		return nil
	}

	r := newRenderer(maxLineLength)

	r.top("Request")
	r.optional("ID: ", d.ID)
	r.line("URL: " + d.URL)
	r.line("Method: @" + d.Method)

	if d.Attempt > 0 {
		r.line("Retry attempt: " + strconv.Itoa(d.Attempt))
	}

	if d.IsFile() {
		r.fileSummary(d.ContentType, d.ContentLength, "Omitted request body")
	} else {
		r.headersAndBody(level, d.Header, bodyView{d.Body, d.BodyUnavailable, d.BodyTruncated}, "request")
	}

	r.bottom()

	return r.lines
}

// RenderResponse turns a response into lines no longer than maxLineLength.
// It returns nil when level is LevelNone.
func RenderResponse(d *model.ResponseDetails, level Level, maxLineLength int) []string {
	if d == nil || level == LevelNone || !level.IsValid() {
		return nil
	}

	r := newRenderer(maxLineLength)

	r.top("Response")
	r.optional("ID: ", d.ID)
	r.line("URL: " + d.URL)
	r.line("Method: @" + d.Method)
	r.line(fmt.Sprintf("Status Code: %d / %s", d.StatusCode, statusText(d.StatusCode, d.Status)))

	if d.Elapsed > 0 {
		r.line("Received in: " + d.Elapsed.Round(time.Microsecond).String())
	}

	if d.IsFile() {
		r.fileSummary(d.ContentType, d.ContentLength, "Omitted response body")
	} else {
		r.headersAndBody(level, d.Header, bodyView{d.Body, d.BodyUnavailable, d.BodyTruncated}, "response")
	}

	r.bottom()

	return r.lines
}

// line appends one logical line, wrapped to the maximum length.
func (r *renderer) line(text string) {
	r.lines = append(r.lines, wrapLine(text, r.maxLineLength)...)
}

func (r *renderer) optional(label, value string) {
	if value != "" {
		r.line(label + value)
	}
}

func (r *renderer) top(title string) {
	r.lines = append(r.lines, topBorder(title, borderWidth(r.maxLineLength)))
}

func (r *renderer) bottom() {
	r.lines = append(r.lines, bottomBorder(borderWidth(r.maxLineLength)))
}

func (r *renderer) fileSummary(contentType string, contentLength int64, omitted string) {
	r.line("Content-Type: " + contentType)
	r.line("Content-Length: " + formatLength(contentLength))
	r.line(omitted)
}

func (r *renderer) headersAndBody(level Level, headers model.Headers, body bodyView, kind string) {
	if level.IncludesHeaders() {
		r.headers(headers)
	}

	if level.IncludesBody() {
		r.body(body, kind)
	}
}

func (r *renderer) headers(headers model.Headers) {
	if headers.Len() == 0 {
		r.line("Headers: (none)")
		return
	}

	r.line("Headers:")

	for _, field := range headers {
		for _, value := range field.Values {
			r.line(field.Name + ": " + value)
		}
	}
}

func (r *renderer) body(body bodyView, kind string) {
	switch {
	case body.unavailable:
		r.line("Body: " + kind + " body unavailable")
	case len(body.data) == 0 && body.truncated:
		r.line("Body: " + kind + " body not read")
	case len(body.data) == 0:
		r.line("Body: empty " + kind + " body")
	default:
		r.line("Body:")

		for _, text := range bodyLines(body.data) {
			r.line(text)
		}

		if body.truncated {
			r.line("... " + kind + " body truncated")
		}
	}
}

// bodyLines pretty-prints JSON bodies and splits everything else on newlines.
func bodyLines(body []byte) []string {
	if json.Valid(body) {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", jsonIndent); err == nil {
			return strings.Split(pretty.String(), "\n")
		}
	}

	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")

	return strings.Split(text, "\n")
}

// statusText extracts the reason phrase from a status line such as "200 OK".
func statusText(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason != "" {
		return reason
	}

	if reason = http.StatusText(code); reason != "" {
		return reason
	}

	return "unknown"
}

func formatLength(length int64) string {
	if length < 0 {
		return "unknown"
	}

	return fmt.Sprintf("%s (%d bytes)", humanize.Bytes(uint64(length)), length)
}
