package interceptor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/printer"
)

// pendingRequestsSize bounds the number of requests awaiting their response.
const pendingRequestsSize = 1024

// RetryableHooks prints requests and responses of a go-retryablehttp client.
type RetryableHooks struct {
	handler

	// pending maps an in-flight request to its correlation data.
	pending *lru.Cache[*http.Request, pendingRequest]
}

type pendingRequest struct {
	id        string
	startedAt time.Time
}

// NewRetryableHooks creates hooks printing through cfg.
func NewRetryableHooks(cfg *printer.Config) (*RetryableHooks, error) {
	pending, err := lru.New[*http.Request, pendingRequest](pendingRequestsSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pending requests cache: %w", err)
	}

	return &RetryableHooks{
		handler: newHandler(cfg),
		pending: pending,
	}, nil
}

// Attach installs the hooks on client and returns it.
func (h *RetryableHooks) Attach(client *retryablehttp.Client) *retryablehttp.Client {
	client.RequestLogHook = h.LogRequest
	client.ResponseLogHook = h.LogResponse

	return client
}

// LogRequest is called by the client before every attempt.
// The client counts attempts from one. The hook owns the request at this
// point, so a drained body is restored on req itself.
func (h *RetryableHooks) LogRequest(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if req == nil || !h.enabled() {
		return
	}

	id := newEventID()

	h.pending.Add(req, pendingRequest{id: id, startedAt: time.Now()})
	h.logRequest(req.Context(), id, max(attempt-1, 0), &httpRequestSource{req: req, inPlace: true})
}

// LogResponse is called by the client after every attempt that produced a response.
// A response whose request was not seen is printed without ID and timing.
func (h *RetryableHooks) LogResponse(_ retryablehttp.Logger, resp *http.Response) {
	if resp == nil || !h.enabled() {
		return
	}

	var (
		ctx     = context.Background()
		id      string
		elapsed time.Duration
	)

	if req := resp.Request; req != nil {
		ctx = req.Context()

		if entry, ok := h.pending.Get(req); ok {
			id = entry.id
			elapsed = time.Since(entry.startedAt)

			h.pending.Remove(req)
		}
	}

	h.logHTTPResponse(ctx, id, &httpResponseSource{resp: resp, elapsed: elapsed})
}

// Pending returns the number of requests still waiting for a response.
func (h *RetryableHooks) Pending() int {
	return h.pending.Len()
}

// retryableLogger routes go-retryablehttp diagnostics to the application logger.
type retryableLogger struct {
	ctx context.Context //nolint:containedctx // The client API has no context parameter.
}

// NewRetryableLogger returns a retryablehttp.LeveledLogger backed by the logger carried in ctx.
// The client's per-attempt info messages are written at debug level.
func NewRetryableLogger(ctx context.Context) retryablehttp.LeveledLogger {
	return &retryableLogger{ctx: logger.WithName(ctx, "retryablehttp")}
}

func (l *retryableLogger) Error(msg string, keysAndValues ...any) {
	logger.ErrorKV(l.ctx, msg, keysAndValues...)
}

func (l *retryableLogger) Info(msg string, keysAndValues ...any) {
	logger.DebugKV(l.ctx, msg, keysAndValues...)
}

func (l *retryableLogger) Debug(msg string, keysAndValues ...any) {
	logger.DebugKV(l.ctx, msg, keysAndValues...)
}

func (l *retryableLogger) Warn(msg string, keysAndValues ...any) {
	logger.WarnKV(l.ctx, msg, keysAndValues...)
}
