package interceptor

import (
	"context"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"

	"github.com/oshokin/traffic-logger/internal/classifier"
	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/model"
	"github.com/oshokin/traffic-logger/internal/printer"
)

// eventIDKey stores the correlation ID of a request in its context.
type eventIDKey struct{}

// handler is the part every adapter shares: the gate, extraction and printing.
type handler struct {
	cfg *printer.Config
}

func newHandler(cfg *printer.Config) handler {
	return handler{cfg: cfg}
}

// enabled reports whether events should be extracted at all.
func (h handler) enabled() bool {
	return h.cfg.Enabled()
}

// logRequest extracts and prints a request. Panics are contained.
func (h handler) logRequest(ctx context.Context, id string, attempt int, src model.RequestSource) {
	h.contain(ctx, func() {
		details := model.NewRequestDetails(id, attempt, src, h.cfg.Level().IncludesBody())
		printer.PrintRequest(ctx, h.cfg, details)
	})
}

// logResponse extracts and prints a response. Panics are contained.
func (h handler) logResponse(ctx context.Context, id string, src model.ResponseSource) {
	h.contain(ctx, func() {
		details := model.NewResponseDetails(id, src, h.cfg.Level().IncludesBody())
		printer.PrintResponse(ctx, h.cfg, details)
	})
}

// logHTTPResponse prints a net/http response. When reading the body up front
// would hold the response back, the response is printed once the caller has
// read or closed the body instead.
func (h handler) logHTTPResponse(ctx context.Context, id string, src *httpResponseSource) {
	if !h.cfg.Level().IncludesBody() || classifier.IsFileRequest(src.ContentType()) || !src.readsAhead() {
		h.logResponse(ctx, id, src)

		return
	}

	src.recordWhileRead(func() {
		h.logResponse(ctx, id, src)
	})
}

func (h handler) contain(ctx context.Context, fn func()) {
	var catcher panics.Catcher

	catcher.Try(fn)

	if recovered := catcher.Recovered(); recovered != nil {
		logger.Errorf(ctx, "HTTP traffic logging panicked: %v", recovered.Value)
	}
}

func newEventID() string {
	return uuid.NewString()
}

// eventIDFromContext returns the correlation ID stored by withEventID.
func eventIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(eventIDKey{}).(string)

	return id
}

func withEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDKey{}, id)
}
