package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/traffic-logger/internal/constants"
	"github.com/oshokin/traffic-logger/internal/logger"
	"github.com/oshokin/traffic-logger/internal/printer"
)

// Config holds all configuration settings.
type Config struct {
	// LogLevel specifies the verbosity of the application's own log.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// PrintLevel specifies how much of each HTTP event is printed (none, basic, headers, body).
	PrintLevel string `mapstructure:"print_level" yaml:"print_level"`
	// Debug is the master switch of traffic printing.
	Debug bool `mapstructure:"debug" yaml:"debug"`
	// MaxLineLength is the maximum length of a printed line.
	MaxLineLength int `mapstructure:"max_line_length" yaml:"max_line_length"`
	// Async renders events on background workers instead of the calling goroutine.
	Async bool `mapstructure:"async" yaml:"async"`
	// AsyncWorkers is the number of background workers.
	AsyncWorkers int `mapstructure:"async_workers" yaml:"async_workers"`
	// AsyncQueueSize is the number of events that may wait for a worker before new ones are dropped.
	AsyncQueueSize int `mapstructure:"async_queue_size" yaml:"async_queue_size"`
	// Output selects where traffic is printed (logger, stderr, stdout, file).
	Output string `mapstructure:"output" yaml:"output"`
	// Color selects terminal styling (auto, always, never).
	Color string `mapstructure:"color" yaml:"color"`
	// LogFile configures the rotating file used when Output is "file".
	LogFile LogFileConfig `mapstructure:"log_file" yaml:"log_file"`
	// Client selects the HTTP client used by the CLI (http, resty, retryable).
	Client string `mapstructure:"client" yaml:"client"`
	// Timeout is the request timeout (e.g., "30s").
	Timeout string `mapstructure:"timeout" yaml:"timeout"`
	// RetryMax is the number of retries of the retryable client.
	RetryMax int `mapstructure:"retry_max" yaml:"retry_max"`
	// UserAgent overrides the default User-Agent header.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	// MaxResponseSize limits how much of a response body is written to stdout (e.g., "10MB", "0" for no limit).
	MaxResponseSize string `mapstructure:"max_response_size" yaml:"max_response_size"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level `mapstructure:"-" yaml:"-"`
	// ParsedPrintLevel is the parsed traffic print level.
	ParsedPrintLevel printer.Level `mapstructure:"-" yaml:"-"`
	// ParsedTimeout is the parsed request timeout.
	ParsedTimeout time.Duration `mapstructure:"-" yaml:"-"`
	// ParsedMaxResponseSize is the parsed response size limit in bytes, 0 means no limit.
	ParsedMaxResponseSize int64 `mapstructure:"-" yaml:"-"`
}

// LogFileConfig holds the settings of the rotating traffic log file.
type LogFileConfig struct {
	// Filename is the path of the log file.
	Filename string `mapstructure:"filename" yaml:"filename"`
	// MaxSizeMB is the size in megabytes at which the file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep, 0 keeps all.
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// MaxAgeDays is the number of days to keep rotated files, 0 keeps them forever.
	MaxAgeDays int `mapstructure:"max_age_days" yaml:"max_age_days"`
	// Compress enables gzip compression of rotated files.
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// Output destinations.
const (
	OutputLogger = "logger"
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// HTTP clients.
const (
	ClientHTTP      = "http"
	ClientResty     = "resty"
	ClientRetryable = "retryable"
)

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".traffic-logger.yaml"

	// EnvPrefix is the prefix of environment variables overriding the configuration.
	EnvPrefix = "TRAFFIC_LOGGER"

	// DefaultLogFilename is the default path of the traffic log file.
	DefaultLogFilename = "traffic.log"

	defaultAsyncWorkers    = 1
	defaultAsyncQueueSize  = 1024
	defaultTimeout         = "60s"
	defaultRetryMax        = 3
	defaultMaxResponseSize = "10MB"
	defaultLogFileSizeMB   = 100
	defaultLogFileBackups  = 3
	defaultLogFileAgeDays  = 28
)

// Static error definitions for better error handling.
var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownPrintLevel indicates that the print level is not recognized.
	ErrUnknownPrintLevel = errors.New("unknown print level")
	// ErrInvalidMaxLineLength indicates that the maximum line length is out of range.
	ErrInvalidMaxLineLength = errors.New("invalid max_line_length")
	// ErrInvalidAsyncWorkers indicates that the number of async workers is invalid.
	ErrInvalidAsyncWorkers = errors.New("async_workers must be a positive integer")
	// ErrInvalidAsyncQueueSize indicates that the async queue size is invalid.
	ErrInvalidAsyncQueueSize = errors.New("async_queue_size must be a positive integer")
	// ErrUnknownOutput indicates that the output destination is not recognized.
	ErrUnknownOutput = errors.New("unknown output")
	// ErrEmptyLogFilename indicates that file output is selected without a file name.
	ErrEmptyLogFilename = errors.New("log_file.filename cannot be empty when output is file")
	// ErrInvalidLogFileLimits indicates that a log file rotation limit is negative.
	ErrInvalidLogFileLimits = errors.New("log_file limits cannot be negative")
	// ErrUnknownColorMode indicates that the color mode is not recognized.
	ErrUnknownColorMode = errors.New("unknown color mode")
	// ErrUnknownClient indicates that the HTTP client is not recognized.
	ErrUnknownClient = errors.New("unknown client")
	// ErrInvalidTimeout indicates that the timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")
	// ErrInvalidRetryMax indicates that the retry count is negative.
	ErrInvalidRetryMax = errors.New("retry_max cannot be negative")
	// ErrConfigFileExists indicates that a configuration file would be overwritten.
	ErrConfigFileExists = errors.New("configuration file already exists")
)

// DefaultConfig returns the configuration used when no file or variable overrides it.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		PrintLevel:     printer.LevelBasic.String(),
		Debug:          true,
		MaxLineLength:  printer.DefaultLineLength,
		Async:          false,
		AsyncWorkers:   defaultAsyncWorkers,
		AsyncQueueSize: defaultAsyncQueueSize,
		Output:         OutputStderr,
		Color:          ColorAuto,
		LogFile: LogFileConfig{
			Filename:   DefaultLogFilename,
			MaxSizeMB:  defaultLogFileSizeMB,
			MaxBackups: defaultLogFileBackups,
			MaxAgeDays: defaultLogFileAgeDays,
			Compress:   false,
		},
		Client:          ClientHTTP,
		Timeout:         defaultTimeout,
		RetryMax:        defaultRetryMax,
		UserAgent:       "",
		MaxResponseSize: defaultMaxResponseSize,
	}
}

// LoadConfig loads configuration settings from a YAML file, defaults and environment variables.
// Without an explicit file name the default file is read if it exists.
func LoadConfig(configFilename string) (*Config, error) {
	v := newViper()

	explicit := configFilename != ""
	if !explicit {
		configFilename = DefaultConfigFilename
	}

	v.SetConfigFile(configFilename)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}

		logger.Debugf(context.Background(), "Configuration file %s not found, using defaults", configFilename)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// newViper returns a viper instance with defaults and environment overrides, e.g. TRAFFIC_LOGGER_LOG_FILE_FILENAME.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()

	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("print_level", defaults.PrintLevel)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("max_line_length", defaults.MaxLineLength)
	v.SetDefault("async", defaults.Async)
	v.SetDefault("async_workers", defaults.AsyncWorkers)
	v.SetDefault("async_queue_size", defaults.AsyncQueueSize)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("color", defaults.Color)
	v.SetDefault("log_file.filename", defaults.LogFile.Filename)
	v.SetDefault("log_file.max_size_mb", defaults.LogFile.MaxSizeMB)
	v.SetDefault("log_file.max_backups", defaults.LogFile.MaxBackups)
	v.SetDefault("log_file.max_age_days", defaults.LogFile.MaxAgeDays)
	v.SetDefault("log_file.compress", defaults.LogFile.Compress)
	v.SetDefault("client", defaults.Client)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("retry_max", defaults.RetryMax)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("max_response_size", defaults.MaxResponseSize)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,gocognit,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var err error

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.ParsedPrintLevel, err = printer.ParseLevel(cfg.PrintLevel)
	if err != nil {
		return fmt.Errorf("%w: '%s'", ErrUnknownPrintLevel, cfg.PrintLevel)
	}

	if err = printer.ValidateMaxLineLength(cfg.MaxLineLength); err != nil {
		return fmt.Errorf("%w: must be between %d and %d, got %d",
			ErrInvalidMaxLineLength, printer.MinLineLength, printer.MaxLineLength, cfg.MaxLineLength)
	}

	if cfg.Async {
		if cfg.AsyncWorkers <= 0 {
			return ErrInvalidAsyncWorkers
		}

		if cfg.AsyncQueueSize <= 0 {
			return ErrInvalidAsyncQueueSize
		}
	}

	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))

	switch cfg.Output {
	case OutputLogger, OutputStderr, OutputStdout:
	case OutputFile:
		if strings.TrimSpace(cfg.LogFile.Filename) == "" {
			return ErrEmptyLogFilename
		}

		if cfg.LogFile.MaxSizeMB < 0 || cfg.LogFile.MaxBackups < 0 || cfg.LogFile.MaxAgeDays < 0 {
			return ErrInvalidLogFileLimits
		}
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownOutput, cfg.Output)
	}

	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))

	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownColorMode, cfg.Color)
	}

	cfg.Client = strings.ToLower(strings.TrimSpace(cfg.Client))

	switch cfg.Client {
	case ClientHTTP, ClientResty, ClientRetryable:
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownClient, cfg.Client)
	}

	cfg.ParsedTimeout, err = time.ParseDuration(cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to parse timeout: %w", err)
	}

	if cfg.ParsedTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if cfg.RetryMax < 0 {
		return ErrInvalidRetryMax
	}

	cfg.ParsedMaxResponseSize = 0

	maxResponseSize := strings.TrimSpace(cfg.MaxResponseSize)
	if maxResponseSize != "" && maxResponseSize != "0" {
		parsed, parseErr := humanize.ParseBytes(maxResponseSize)
		if parseErr != nil {
			return fmt.Errorf("failed to parse max response size: %w", parseErr)
		}

		cfg.ParsedMaxResponseSize = safeUint64ToInt64(parsed)
	}

	return nil
}

// SaveDefaultConfig writes the default configuration to path with a comment above every key.
// An existing file is only replaced when overwrite is set.
func SaveDefaultConfig(path string, overwrite bool) error {
	if path == "" {
		path = DefaultConfigFilename
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%w: %s", ErrConfigFileExists, path)
	}

	var node yaml.Node
	if err := node.Encode(DefaultConfig()); err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	annotateNode(&node, keyComments)

	content, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, constants.DefaultFolderPermissions); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err = os.WriteFile(path, content, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

//nolint:gochecknoglobals // Immutable lookup table used by SaveDefaultConfig.
var keyComments = map[string]string{
	"log_level":         "Application log level: debug, info, warn, error.",
	"print_level":       "Traffic detail: none, basic (summary), headers (summary and headers), body (everything).",
	"debug":             "Master switch of traffic printing.",
	"max_line_length":   fmt.Sprintf("Maximum printed line length, %d to %d.", printer.MinLineLength, printer.MaxLineLength),
	"async":             "Render traffic on background workers.",
	"async_workers":     "Number of background workers when async is enabled.",
	"async_queue_size":  "Events waiting for a worker before new ones are dropped.",
	"output":            "Where traffic is printed: logger, stderr, stdout, file.",
	"color":             "Terminal styling: auto, always, never.",
	"log_file":          "Rotating file used when output is file.",
	"client":            "HTTP client used by the request command: http, resty, retryable.",
	"timeout":           "Request timeout.",
	"retry_max":         "Retries of the retryable client.",
	"user_agent":        "User-Agent header, empty for the default.",
	"max_response_size": "Largest response body written to stdout, 0 for no limit.",
}

// annotateNode sets head comments on the top-level keys of a YAML document or mapping node.
func annotateNode(node *yaml.Node, comments map[string]string) {
	mapNode := node
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return
		}

		mapNode = node.Content[0]
	}

	if mapNode.Kind != yaml.MappingNode {
		return
	}

	// Keys and values alternate.
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]

		if comment, ok := comments[keyNode.Value]; ok {
			keyNode.HeadComment = comment
		}
	}
}

// safeUint64ToInt64 converts a uint64 value to an int64 safely,
// ensuring that the value does not exceed the maximum limit of int64.
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(val)
}
