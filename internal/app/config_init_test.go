package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/traffic-logger/internal/config"
)

// TestExecuteConfigInitCommand tests that the default configuration is written once unless forced.
func TestExecuteConfigInitCommand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)

	require.NoError(t, ExecuteConfigInitCommand(t.Context(), path, false))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	err = ExecuteConfigInitCommand(t.Context(), path, false)
	require.ErrorIs(t, err, config.ErrConfigFileExists)

	require.NoError(t, ExecuteConfigInitCommand(t.Context(), path, true))
}
