package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

var (
	// globalLogger is the process-wide logger returned by Get
	globalLogger *Logger

	// once guards the first initialization of globalLogger
	once sync.Once

	defaultConfig = Config{
		Level:      "info",
		Format:     FormatConsole,
		TimeFormat: time.RFC3339,
	}
)

// Logger wraps zerolog.Logger with a field-map based API
type Logger struct {
	zerolog.Logger
	level zerolog.Level
}

// LogFormat defines the available log formats
type LogFormat string

const (
	// FormatJSON writes one JSON object per line
	FormatJSON LogFormat = "json"
	// FormatConsole writes human readable colored lines
	FormatConsole LogFormat = "console"
)

// String returns the string representation of the log format
func (f LogFormat) String() string {
	return string(f)
}

// ParseLogFormat parses a string into a LogFormat, defaulting to JSON
func ParseLogFormat(format string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "text", "pretty":
		return FormatConsole
	default:
		return FormatJSON
	}
}

// Config holds the configuration for the logger
type Config struct {
	// Level is the log level (debug, info, warn, error, fatal, panic)
	Level string
	// Format is the log format (json, console)
	Format LogFormat
	// Output is the output writer (default: os.Stdout)
	Output io.Writer
	// TimeFormat is used by the console writer (default: time.RFC3339)
	TimeFormat string
}

// New builds a standalone logger from cfg without touching the global one
func New(cfg Config) *Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}

	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	var zl zerolog.Logger
	switch cfg.Format {
	case FormatConsole:
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: cfg.TimeFormat,
		})
	default:
		zl = zerolog.New(output)
	}

	return &Logger{
		Logger: zl.Level(level).With().Timestamp().Logger(),
		level:  level,
	}
}

// Get returns the global logger instance, initializing it with defaults on first use
func Get() *Logger {
	once.Do(func() {
		if globalLogger == nil {
			globalLogger = New(defaultConfig)
		}
	})
	return globalLogger
}

// Setup initializes the global logger. Only the first call has an effect.
func Setup(cfg Config) {
	once.Do(func() {
		globalLogger = New(cfg)
		globalLogger.Debug("Logger initialized", map[string]interface{}{
			"format": cfg.Format.String(),
			"level":  globalLogger.GetLevel().String(),
		})
	})
}

// ResetForTesting resets the global logger so Setup can run again.
// This should only be used in tests
func ResetForTesting() {
	globalLogger = nil
	once = sync.Once{}
}

// GetLevel returns the level the logger was configured with
func (l *Logger) GetLevel() zerolog.Level {
	if l == nil {
		return zerolog.NoLevel
	}
	return l.level
}

// WithFields returns a child logger carrying the given fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	if l == nil {
		return Get()
	}
	if len(fields) == 0 {
		return l
	}

	return &Logger{
		Logger: l.Logger.With().Fields(fields).Logger(),
		level:  l.level,
	}
}

// Debug logs msg at debug level with optional fields
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.write(zerolog.DebugLevel, msg, fields)
}

// Info logs msg at info level with optional fields
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.write(zerolog.InfoLevel, msg, fields)
}

// Warn logs msg at warn level with optional fields
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.write(zerolog.WarnLevel, msg, fields)
}

// Error logs msg at error level with optional fields
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.write(zerolog.ErrorLevel, msg, fields)
}

func (l *Logger) write(level zerolog.Level, msg string, fields []map[string]interface{}) {
	if l == nil {
		return
	}

	event := l.Logger.WithLevel(level)
	if len(fields) > 0 && len(fields[0]) > 0 {
		event = event.Fields(fields[0])
	}
	event.Msg(msg)
}

// loggerKey is the context key for a request scoped logger
type loggerKey struct{}

// NewContext returns ctx carrying logger. A nil logger leaves ctx unchanged.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the global logger
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*Logger); ok {
			return l
		}
	}
	return Get()
}
