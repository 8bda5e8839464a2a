package printer

import (
	"errors"
	"fmt"
	"strings"
)

// Level controls how much of an HTTP event is rendered.
// Levels are cumulative: each one includes everything below it.
type Level uint8

const (
	// LevelNone disables rendering.
	LevelNone Level = iota
	// LevelBasic renders the summary lines only.
	LevelBasic
	// LevelHeaders renders the summary and the headers.
	LevelHeaders
	// LevelBody renders the summary, the headers and the body.
	LevelBody
)

// ErrUnknownLevel indicates that a level name or value is not recognized.
var ErrUnknownLevel = errors.New("unknown print level")

// ParseLevel converts a level name (case-insensitive) into a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return LevelNone, nil
	case "basic":
		return LevelBasic, nil
	case "headers":
		return LevelHeaders, nil
	case "body":
		return LevelBody, nil
	default:
		return LevelNone, fmt.Errorf("%w: '%s'", ErrUnknownLevel, name)
	}
}

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelBasic:
		return "basic"
	case LevelHeaders:
		return "headers"
	case LevelBody:
		return "body"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// IsValid reports whether l is one of the defined levels.
func (l Level) IsValid() bool {
	return l <= LevelBody
}

// IncludesHeaders reports whether headers are rendered at this level.
func (l Level) IncludesHeaders() bool {
	return l >= LevelHeaders && l.IsValid()
}

// IncludesBody reports whether bodies are rendered at this level.
func (l Level) IncludesBody() bool {
	return l == LevelBody
}
