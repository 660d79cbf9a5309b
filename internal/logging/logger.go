// Package logging provides structured logging for the medtrack CLI.
// It wraps a zap SugaredLogger that discards everything until Init is called.
package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// defaultLogger is the package-level logger instance.
	defaultLogger = zap.NewNop().Sugar()
	loggerMu      sync.RWMutex

	// Debug indicates if debug mode is enabled.
	Debug bool
)

// Config holds logger configuration.
type Config struct {
	Level     string    // Minimum log level: debug, info, warn or error
	JSON      bool      // Use JSON output format
	Output    io.Writer // Output destination (default: stderr)
	AddCaller bool      // Include source file and line number
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		JSON:   false,
		Output: os.Stderr,
	}
}

// DebugConfig returns a configuration suitable for debug mode.
func DebugConfig() Config {
	return Config{
		Level:     "debug",
		JSON:      true,
		Output:    os.Stderr,
		AddCaller: true,
	}
}

// Init initializes the global logger with the given configuration.
func Init(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.JSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(output)), level)

	var opts []zap.Option
	if cfg.AddCaller {
		opts = append(opts, zap.AddCaller())
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = zap.New(core, opts...).Sugar()
	Debug = level == zapcore.DebugLevel
	return nil
}

// InitDebug initializes the logger in debug mode with JSON output.
func InitDebug() error {
	return Init(DebugConfig())
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger().Sync()
}

// Logger returns the current logger instance.
func Logger() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// With returns a logger with additional key-value pairs.
func With(args ...any) *zap.SugaredLogger {
	return Logger().With(args...)
}

// Info logs at INFO level.
func Info(msg string, args ...any) {
	Logger().Infow(msg, args...)
}

// DebugLog logs at DEBUG level.
func DebugLog(msg string, args ...any) {
	Logger().Debugw(msg, args...)
}

// Warn logs at WARN level.
func Warn(msg string, args ...any) {
	Logger().Warnw(msg, args...)
}

// Error logs at ERROR level.
func Error(msg string, args ...any) {
	Logger().Errorw(msg, args...)
}

// Common structured logging fields.
const (
	KeyRequestID  = "request_id"
	KeyOperation  = "op"
	KeyError      = "error"
	KeyQuery      = "query"
	KeyArgs       = "args"
	KeyRows       = "rows"
	KeyPath       = "path"
	KeyReminderID = "reminder_id"
	KeyCount      = "count"
)
