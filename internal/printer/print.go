package printer

import (
	"context"

	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/metrics"
	"github.com/oshokin/traffic-logger/internal/model"
)

// PrintRequest renders d and writes it to the configured sink.
// It does nothing when cfg is not Enabled. Errors are reported to the
// diagnostic logger and never returned.
func PrintRequest(ctx context.Context, cfg *Config, d *model.RequestDetails) {
	if !cfg.Enabled() || d == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)

	cfg.executor.Submit(func() {
		emit(ctx, cfg, metrics.KindRequest, RenderRequest(d, cfg.level, cfg.maxLineLength))
	})
}

// PrintResponse renders d and writes it to the configured sink.
// It does nothing when cfg is not Enabled. Errors are reported to the
// diagnostic logger and never returned.
func PrintResponse(ctx context.Context, cfg *Config, d *model.ResponseDetails) {
	if !cfg.Enabled() || d == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)

	cfg.executor.Submit(func() {
		emit(ctx, cfg, metrics.KindResponse, RenderResponse(d, cfg.level, cfg.maxLineLength))
	})
}

func emit(ctx context.Context, cfg *Config, kind string, lines []string) {
	if len(lines) == 0 {
		return
	}

	if err := cfg.sink.WriteLines(ctx, lines); err != nil {
		cfg.metrics.SinkFailed()
		logger.Warnf(ctx, "Failed to write HTTP %s log: %v", kind, err)

		return
	}

	cfg.metrics.EventRendered(kind, len(lines))
}
