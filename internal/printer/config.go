package printer

import (
	"errors"
	"fmt"

	"github.com/oshokin/traffic-logger/internal/metrics"
)

const (
	// MinLineLength is the smallest accepted maximum line length.
	MinLineLength = 10
	// MaxLineLength is the largest accepted maximum line length.
	MaxLineLength = 500
	// DefaultLineLength is used when no maximum line length is given.
	DefaultLineLength = 110
)

// Static error definitions for better error handling.
var (
	// ErrInvalidMaxLineLength indicates a maximum line length outside [MinLineLength, MaxLineLength].
	ErrInvalidMaxLineLength = errors.New("invalid max line length")
	// ErrNilExecutor indicates that a nil executor was supplied.
	ErrNilExecutor = errors.New("executor cannot be nil")
	// ErrNilSink indicates that a nil sink was supplied.
	ErrNilSink = errors.New("sink cannot be nil")
)

// Config holds printer settings. It is immutable once built and safe to share
// between any number of interceptors and goroutines.
type Config struct {
	level         Level
	isDebug       bool
	maxLineLength int
	executor      Executor
	sink          Sink
	metrics       *metrics.Collector
}

// Option customizes a Config under construction.
type Option func(*Config)

// WithLevel sets the verbosity level.
func WithLevel(level Level) Option {
	return func(c *Config) {
		c.level = level
	}
}

// WithDebug turns rendering on or off as a whole.
func WithDebug(isDebug bool) Option {
	return func(c *Config) {
		c.isDebug = isDebug
	}
}

// WithMaxLineLength sets the maximum number of characters per emitted line.
func WithMaxLineLength(length int) Option {
	return func(c *Config) {
		c.maxLineLength = length
	}
}

// WithExecutor sets where rendering runs.
func WithExecutor(executor Executor) Option {
	return func(c *Config) {
		c.executor = executor
	}
}

// WithSink sets where rendered lines are written.
func WithSink(sink Sink) Option {
	return func(c *Config) {
		c.sink = sink
	}
}

// WithMetrics sets the collector that counts printer activity.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Config) {
		c.metrics = collector
	}
}

// NewConfig builds and validates a Config.
// Defaults: LevelBasic, debug on, DefaultLineLength, a SyncExecutor and a LoggerSink.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := Config{
		level:         LevelBasic,
		isDebug:       true,
		maxLineLength: DefaultLineLength,
		executor:      SyncExecutor{},
		sink:          NewLoggerSink(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ValidateMaxLineLength(cfg.maxLineLength); err != nil {
		return nil, err
	}

	if !cfg.level.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, uint8(cfg.level))
	}

	if cfg.executor == nil {
		return nil, ErrNilExecutor
	}

	if cfg.sink == nil {
		return nil, ErrNilSink
	}

	return &cfg, nil
}

// ValidateMaxLineLength checks that length lies within [MinLineLength, MaxLineLength].
func ValidateMaxLineLength(length int) error {
	if length < MinLineLength || length > MaxLineLength {
		return fmt.Errorf("%w: %d, must be between %d and %d",
			ErrInvalidMaxLineLength, length, MinLineLength, MaxLineLength)
	}

	return nil
}

// Level returns the verbosity level.
func (c *Config) Level() Level {
	return c.level
}

// IsDebug reports whether rendering is switched on.
func (c *Config) IsDebug() bool {
	return c.isDebug
}

// MaxLineLength returns the maximum number of characters per line.
func (c *Config) MaxLineLength() int {
	return c.maxLineLength
}

// Executor returns the executor rendering runs on.
func (c *Config) Executor() Executor {
	return c.executor
}

// Sink returns the destination of rendered lines.
func (c *Config) Sink() Sink {
	return c.sink
}

// Metrics returns the collector, which may be nil.
func (c *Config) Metrics() *metrics.Collector {
	return c.metrics
}

// Enabled reports whether anything would be rendered.
func (c *Config) Enabled() bool {
	return c != nil && c.isDebug && c.level != LevelNone
}
