package printer

//go:generate $MOCKGEN -source=sink.go -destination=mocks/sink_mock.go

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/traffic-logger/internal/logger"
)

// Sink receives the rendered lines of one event.
type Sink interface {
	// WriteLines writes lines in order. Implementations must be safe for
	// concurrent use and keep the lines of one call together.
	WriteLines(ctx context.Context, lines []string) error
}

// LoggerSink writes every line as a separate info entry of the global logger.
type LoggerSink struct {
	mu sync.Mutex
}

// NewLoggerSink creates a sink backed by the global logger.
func NewLoggerSink() *LoggerSink {
	return &LoggerSink{}
}

// WriteLines logs lines one by one while holding the sink lock.
func (s *LoggerSink) WriteLines(ctx context.Context, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx)
	for _, line := range lines {
		log.Info(line)
	}

	return nil
}

// Styles decorates lines written by a WriterSink.
// Styling is applied after wrapping, so it never affects line length accounting.
type Styles struct {
	// Border styles the top and bottom border lines.
	Border lipgloss.Style
	// Line styles every other line.
	Line lipgloss.Style
}

// DefaultStyles returns the styles used for terminals.
func DefaultStyles() Styles {
	return Styles{
		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Line:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// WriterSink writes all lines of an event to an io.Writer with a single Write call.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	styles *Styles
}

// WriterSinkOption customizes a WriterSink.
type WriterSinkOption func(*WriterSink)

// WithStyles enables styled output.
func WithStyles(styles Styles) WriterSinkOption {
	return func(s *WriterSink) {
		s.styles = &styles
	}
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer, opts ...WriterSinkOption) *WriterSink {
	s := &WriterSink{w: w}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WriteLines joins lines with newlines and writes them at once.
func (s *WriterSink) WriteLines(_ context.Context, lines []string) error {
	if len(lines) == 0 {
		return nil
	}

	var sb strings.Builder

	for _, line := range lines {
		sb.WriteString(s.style(line))
		sb.WriteByte('\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, sb.String()); err != nil {
		return fmt.Errorf("failed to write traffic log: %w", err)
	}

	return nil
}

// style colours a line. Tabs are kept as they are, so the visible text
// stays exactly the rendered line.
func (s *WriterSink) style(line string) string {
	if s.styles == nil {
		return line
	}

	style := s.styles.Line
	if isBorder(line) {
		style = s.styles.Border
	}

	return style.TabWidth(lipgloss.NoTabConversion).Render(line)
}
