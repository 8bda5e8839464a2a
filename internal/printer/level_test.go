package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseLevel tests the ParseLevel function.
func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected Level
		valid    bool
	}{
		{name: "none", input: "none", expected: LevelNone, valid: true},
		{name: "basic", input: "basic", expected: LevelBasic, valid: true},
		{name: "headers", input: "headers", expected: LevelHeaders, valid: true},
		{name: "body", input: "body", expected: LevelBody, valid: true},
		{name: "uppercase", input: "BODY", expected: LevelBody, valid: true},
		{name: "with spaces", input: " headers ", expected: LevelHeaders, valid: true},
		{name: "unknown", input: "verbose", valid: false},
		{name: "empty", input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(tt.input)
			if !tt.valid {
				require.ErrorIs(t, err, ErrUnknownLevel)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
			assert.Equal(t, tt.expected.String(), level.String())
		})
	}
}

// TestLevel_Includes tests that levels are cumulative.
func TestLevel_Includes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   Level
		headers bool
		body    bool
	}{
		{level: LevelNone, headers: false, body: false},
		{level: LevelBasic, headers: false, body: false},
		{level: LevelHeaders, headers: true, body: false},
		{level: LevelBody, headers: true, body: true},
		{level: Level(42), headers: false, body: false},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.headers, tt.level.IncludesHeaders())
			assert.Equal(t, tt.body, tt.level.IncludesBody())
		})
	}
}
