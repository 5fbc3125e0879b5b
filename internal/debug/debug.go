package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged.
type Options struct {
	Path       string
	Level      string // debug, info, warn, error
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	enabled bool
	logger  = zap.NewNop()
	writer  *lumberjack.Logger
	mu      sync.Mutex
)

// Enable turns on debug logging to the specified file.
func Enable(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	if opts.Path == "" {
		return fmt.Errorf("log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return err
	}

	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = 10
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAgeDays == 0 {
		opts.MaxAgeDays = 7
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil || opts.Level == "" {
		level = zapcore.DebugLevel
	}

	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), level)

	writer = w
	logger = zap.New(core)
	enabled = true

	logger.Info("debug logging enabled", zap.String("path", opts.Path))
	return nil
}

// Close flushes and closes the debug log.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	_ = logger.Sync()
	if writer != nil {
		_ = writer.Close()
		writer = nil
	}
	logger = zap.NewNop()
	enabled = false
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Logger returns a named structured logger. It is a no-op logger until
// Enable succeeds.
func Logger(name string) *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger.Named(name)
}

// Log writes a formatted debug message if debugging is enabled.
func Log(format string, args ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()

	l.Sugar().Debugf(format, args...)
}

// Timed logs the duration of an operation. Usage:
//
//	defer debug.Timed("operation name")()
func Timed(name string, fields ...zap.Field) func() {
	if !IsEnabled() {
		return func() {}
	}

	l := Logger("timing").With(fields...)
	start := time.Now()
	l.Debug(name + " started")

	return func() {
		l.Debug(name+" completed", zap.Duration("elapsed", time.Since(start)))
	}
}
