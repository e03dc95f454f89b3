// Package logger holds the process-wide zerolog logger. Components take a
// child logger from Component so every line carries its origin.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger zerolog.Logger

// Config represents logger configuration
type Config struct {
	// Level is a zerolog level name; unknown names mean info.
	Level string
	// Pretty enables the human-readable console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

// ConfigFromSettings builds a Config from the level/format strings used in the
// application configuration. Any format other than "json" is rendered pretty.
func ConfigFromSettings(level, format string) Config {
	return Config{
		Level:  level,
		Pretty: !strings.EqualFold(strings.TrimSpace(format), "json"),
	}
}

// Configure replaces the process-wide logger.
func Configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(levelOf(cfg.Level))

	defaultLogger = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

func levelOf(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return defaultLogger.With().Str("component", name).Logger()
}

// Get returns the process-wide logger.
func Get() zerolog.Logger {
	return defaultLogger
}

func Debug() *zerolog.Event { return defaultLogger.Debug() }
func Info() *zerolog.Event  { return defaultLogger.Info() }
func Warn() *zerolog.Event  { return defaultLogger.Warn() }
func Error() *zerolog.Event { return defaultLogger.Error() }

func init() {
	Configure(Config{Pretty: true})
}
