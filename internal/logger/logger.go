package logger

import (
	"io"
	"log/slog"
	"os"
)

var Log *slog.Logger

// Init initializes the global logger
func Init(level string, logFile string) error {
	// Parse log level
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelDebug
	}

	// Set up multi-writer (stdout + file)
	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writers = append(writers, f)
	}

	multiWriter := io.MultiWriter(writers...)

	// Create handler with custom options
	handler := slog.NewTextHandler(multiWriter, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Shorten time format
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("15:04:05"))
			}
			return a
		},
	})

	Log = slog.New(handler)
	slog.SetDefault(Log)

	return nil
}

// Debug logs at debug level
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Info logs at info level
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Warn logs at warn level
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

// Error logs at error level
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

// Component tags every record logged through it with a "component" attr,
// so cssbuild/cssbot/cssapi/cssd/cssingest and the packages they drive
// (bot, ingest, api) don't each have to hand-prefix their own messages
// (e.g. "cssbot: reloaded model").
func Component(name string) *ComponentLogger {
	return &ComponentLogger{name: name}
}

// ComponentLogger is a thin view over the global logger that always
// attaches its component name as the first attribute.
type ComponentLogger struct {
	name string
}

func (c *ComponentLogger) args(args []any) []any {
	return append([]any{"component", c.name}, args...)
}

func (c *ComponentLogger) Debug(msg string, args ...any) { Log.Debug(msg, c.args(args)...) }
func (c *ComponentLogger) Info(msg string, args ...any)  { Log.Info(msg, c.args(args)...) }
func (c *ComponentLogger) Warn(msg string, args ...any)  { Log.Warn(msg, c.args(args)...) }
func (c *ComponentLogger) Error(msg string, args ...any) { Log.Error(msg, c.args(args)...) }
