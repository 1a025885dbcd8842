// ABOUTME: Process-wide logger setup on charmbracelet/log
// ABOUTME: Parses level names and bridges to log/slog for HTTP middleware

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// Options controls logger construction.
type Options struct {
	Level  string
	JSON   bool
	Prefix string
}

// New builds a logger writing to w. An empty level means DefaultLevel.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	name := strings.TrimSpace(opts.Level)
	if name == "" {
		name = DefaultLevel
	}
	level, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if opts.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger, nil
}

// Setup builds a logger and installs it as the package default used by
// log.Debug/log.Info across the module.
func Setup(w io.Writer, opts Options) (*log.Logger, error) {
	logger, err := New(w, opts)
	if err != nil {
		return nil, err
	}
	log.SetDefault(logger)
	return logger, nil
}

// Slog adapts logger to the standard structured logging interface.
func Slog(logger *log.Logger) *slog.Logger {
	if logger == nil {
		logger = log.Default()
	}
	return slog.New(logger)
}

// LogError logs err with a message and key/value context. Nil errors are ignored.
func LogError(logger *log.Logger, msg string, err error, keyvals ...any) {
	if logger == nil || err == nil {
		return
	}
	logger.Error(msg, append([]any{"err", err}, keyvals...)...)
}
