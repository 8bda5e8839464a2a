package app

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/oshokin/traffic-logger/internal/client"
	"github.com/oshokin/traffic-logger/internal/config"
	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/metrics"
	"github.com/oshokin/traffic-logger/internal/printer"
)

// Streams are the standard streams of a command.
type Streams struct {
	// Stdout receives command results.
	Stdout io.Writer
	// Stderr receives the traffic log when output is stderr.
	Stderr io.Writer
}

// DefaultStreams returns the process standard streams.
func DefaultStreams() Streams {
	return Streams{Stdout: os.Stdout, Stderr: os.Stderr}
}

// traffic bundles the printer built from the configuration with what must be released after use.
type traffic struct {
	printer *printer.Config
	metrics *metrics.Collector
	closers []func() error
}

// newTraffic builds the printer: sink from output and color, executor from async, counters on a private registry.
func newTraffic(cfg *config.Config, streams Streams) (*traffic, error) {
	t := &traffic{
		metrics: metrics.NewCollector(prometheus.NewRegistry()),
	}

	sink := t.newSink(cfg, streams)

	var executor printer.Executor = printer.SyncExecutor{}

	if cfg.Async {
		queue := printer.NewQueueExecutor(cfg.AsyncWorkers, cfg.AsyncQueueSize,
			printer.WithQueueMetrics(t.metrics))

		// The queue must be drained before the sink is closed.
		t.closers = append([]func() error{func() error {
			queue.Close()

			return nil
		}}, t.closers...)

		executor = queue
	}

	printerConfig, err := printer.NewConfig(
		printer.WithLevel(cfg.ParsedPrintLevel),
		printer.WithDebug(cfg.Debug),
		printer.WithMaxLineLength(cfg.MaxLineLength),
		printer.WithExecutor(executor),
		printer.WithSink(sink),
		printer.WithMetrics(t.metrics),
	)
	if err != nil {
		_ = t.close(context.Background())

		return nil, err
	}

	t.printer = printerConfig

	return t, nil
}

func (t *traffic) newSink(cfg *config.Config, streams Streams) printer.Sink {
	switch cfg.Output {
	case config.OutputLogger:
		return printer.NewLoggerSink()
	case config.OutputStdout:
		return newWriterSink(streams.Stdout, cfg.Color)
	case config.OutputFile:
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile.Filename,
			MaxSize:    cfg.LogFile.MaxSizeMB,
			MaxBackups: cfg.LogFile.MaxBackups,
			MaxAge:     cfg.LogFile.MaxAgeDays,
			Compress:   cfg.LogFile.Compress,
		}

		t.closers = append(t.closers, file.Close)

		return printer.NewWriterSink(file)
	default:
		return newWriterSink(streams.Stderr, cfg.Color)
	}
}

// newWriterSink styles the output when color is forced or w is a terminal.
func newWriterSink(w io.Writer, color string) printer.Sink {
	if useColor(w, color) {
		return printer.NewWriterSink(w, printer.WithStyles(printer.DefaultStyles()))
	}

	return printer.NewWriterSink(w)
}

func useColor(w io.Writer, color string) bool {
	switch color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// clientOptions returns the client options matching cfg.
func (t *traffic) clientOptions(cfg *config.Config) client.Options {
	return client.Options{
		Printer:         t.printer,
		Timeout:         cfg.ParsedTimeout,
		RetryMax:        cfg.RetryMax,
		UserAgent:       cfg.UserAgent,
		MaxResponseSize: cfg.ParsedMaxResponseSize,
	}
}

// close drains pending events, releases the sink and logs the counters.
func (t *traffic) close(ctx context.Context) error {
	var errs []error

	for _, closeFn := range t.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	t.closers = nil

	snapshot := t.metrics.Snapshot()
	logger.DebugKV(ctx, "Traffic summary",
		"requests", snapshot.Requests,
		"responses", snapshot.Responses,
		"lines", snapshot.Lines,
		"sink_failures", snapshot.SinkFailures,
		"dropped_tasks", snapshot.DroppedTasks)

	return errors.Join(errs...)
}
