package interceptor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/traffic-logger/internal/printer"
)

const testJSONBody = `{"name":"John","age":31,"city":"New York"}`

var errSinkDown = errors.New("sink is down")

// recordingSink keeps the lines of every printed event.
type recordingSink struct {
	mu     sync.Mutex
	events [][]string
	err    error
}

func (s *recordingSink) WriteLines(_ context.Context, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, lines)

	return s.err
}

func (s *recordingSink) snapshot() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([][]string(nil), s.events...)
}

// newTestConfig builds a synchronous BODY-level config writing to a fresh sink.
func newTestConfig(t *testing.T, opts ...printer.Option) (*printer.Config, *recordingSink) {
	t.Helper()

	sink := &recordingSink{}

	cfg, err := printer.NewConfig(append([]printer.Option{
		printer.WithLevel(printer.LevelBody),
		printer.WithSink(sink),
	}, opts...)...)
	require.NoError(t, err)

	return cfg, sink
}

// joined returns the lines of one event as a single text.
func joined(lines []string) string {
	return strings.Join(lines, "\n")
}

// idOf returns the value of the ID line of an event.
func idOf(lines []string) string {
	for _, line := range lines {
		if id, ok := strings.CutPrefix(line, "ID: "); ok {
			return id
		}
	}

	return ""
}

func newDisabledConfig(sink printer.Sink) (*printer.Config, error) {
	return printer.NewConfig(
		printer.WithLevel(printer.LevelBody),
		printer.WithDebug(false),
		printer.WithSink(sink),
	)
}
