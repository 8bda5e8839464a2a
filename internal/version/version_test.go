package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestShort tests the Short function.
func TestShort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Version, Short())
}

// TestFull tests that Full prints the program name and the build version.
func TestFull(t *testing.T) {
	t.Parallel()

	assert.Equal(t, formatFull(Version, Commit, BuildTime), Full())
	assert.Contains(t, Full(), "traffic-logger "+Version)
}

// TestFormatFull tests the layout of the build metadata line.
func TestFormatFull(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		version   string
		commit    string
		buildTime string
		expected  string
	}{
		{
			name:      "local build",
			version:   "0.1.0",
			commit:    "none",
			buildTime: "unknown",
			expected:  "traffic-logger 0.1.0",
		},
		{
			name:      "release build",
			version:   "1.2.3",
			commit:    "5f936abd7ae8c4a1",
			buildTime: "2025-01-02T03:04:05Z",
			expected:  "traffic-logger 1.2.3 (commit 5f936ab, built 2025-01-02T03:04:05Z)",
		},
		{
			name:      "commit only",
			version:   "1.2.3",
			commit:    "abc",
			buildTime: "",
			expected:  "traffic-logger 1.2.3 (commit abc)",
		},
		{
			name:      "build time only",
			version:   "1.2.3",
			commit:    "",
			buildTime: "2025-01-02",
			expected:  "traffic-logger 1.2.3 (built 2025-01-02)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, formatFull(tt.version, tt.commit, tt.buildTime))
		})
	}
}
