package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

// Init initializes the global logger. Pretty output is for development; in
// production the raw JSON stream goes to stdout.
func Init(level string, pretty bool) {
	var output io.Writer = os.Stdout
	if pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	log = zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	return &log
}

// Debug logs a debug level message.
func Debug() *zerolog.Event {
	return log.Debug()
}

// Info logs an info level message.
func Info() *zerolog.Event {
	return log.Info()
}

// Warn logs a warning level message.
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error logs an error level message.
func Error() *zerolog.Event {
	return log.Error()
}

// Fatal logs a fatal level message and exits.
func Fatal() *zerolog.Event {
	return log.Fatal()
}
