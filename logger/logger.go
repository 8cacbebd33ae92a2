package logger

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggers pairs the structured logger handed out by L with the sugared
// logger behind the printf wrappers, which skips one extra frame so the
// caller field points at the code calling Info, Warn, etc.
type loggers struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

func newLoggers(z *zap.Logger) *loggers {
	return &loggers{base: z, sugar: z.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// global holds the process logger. It starts as a no-op so packages
// can log before Init runs (tests, early startup).
var global atomic.Pointer[loggers]

func init() {
	global.Store(newLoggers(zap.NewNop()))
}

// Init builds the process logger.
// Production mode writes JSON to stdout; development mode uses the console encoder.
func Init(levelStr string, development bool) error {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(levelStr))
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	z, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return fmt.Errorf("build zap logger: %w", err)
	}

	Replace(z)
	Info("Logger initialized | level=%s development=%v", levelStr, development)
	return nil
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Replace swaps the process logger and returns a func restoring the previous one.
func Replace(z *zap.Logger) func() {
	prev := global.Swap(newLoggers(z))
	return func() { global.Store(prev) }
}

// L returns the structured process logger.
func L() *zap.Logger {
	return global.Load().base
}

func sugar() *zap.SugaredLogger {
	return global.Load().sugar
}

// Debug logs at debug level
func Debug(format string, v ...any) {
	sugar().Debugf(format, v...)
}

// Info logs at info level
func Info(format string, v ...any) {
	sugar().Infof(format, v...)
}

// Warn logs at warn level
func Warn(format string, v ...any) {
	sugar().Warnf(format, v...)
}

// Error logs at error level
func Error(format string, v ...any) {
	sugar().Errorf(format, v...)
}

// Sync flushes buffered entries.
func Sync() error {
	return global.Load().base.Sync()
}
