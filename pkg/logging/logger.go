// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelVerbose logs everything, including per-page fetch progress.
	LevelVerbose LogLevel = "verbose"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarning logs warning messages and above.
	LevelWarning LogLevel = "warning"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr). Use an
	// opened file here for a file sink.
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level. The verbose level maps to
// zerolog's debug level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "verbose", "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Verbose (debug): per-page fetch progress, cache hits/misses, page-size
// state changes.
//
// Info: probed total counts, completed fetches, successful uploads,
// authentication success.
//
// Warning: 429 backoffs, timeout retries, page-size shrinks, cache errors
// that fall back to a direct request.
//
// Error: exhausted retry budgets, inconsistent result counts, auth
// failures, unexpected API errors.
//
// Context Fields:
//   - path: API resource path
//   - fetch_id: correlation ID for one paginated fetch
//   - status: HTTP status code
//   - kind: failure classification
//   - page_size / accumulated / total: pagination state
