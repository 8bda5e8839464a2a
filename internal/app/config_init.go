package app

import (
	"context"
	"fmt"

	"github.com/oshokin/traffic-logger/internal/config"
	"github.com/oshokin/traffic-logger/internal/logger"
)

// ExecuteConfigInitCommand writes the default configuration file to path.
func ExecuteConfigInitCommand(ctx context.Context, path string, overwrite bool) error {
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if err := config.SaveDefaultConfig(path, overwrite); err != nil {
		return fmt.Errorf("failed to write default configuration: %w", err)
	}

	logger.Infof(ctx, "Default configuration written to %s", path)

	return nil
}
