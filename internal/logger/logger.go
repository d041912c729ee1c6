// Package logger provides verbose logging for the defectdoc core.
// When verbose mode is enabled, debug messages describing the
// reconciliation pipeline (candidate builds, merges, corrections) are
// written to stderr through a zap development logger. The default is a
// no-op logger so library consumers pay nothing unless they opt in.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop().Sugar()
)

// SetVerbose enables or disables verbose logging.
// Enabling installs a zap development logger writing to stderr.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()

	if !v {
		log = zap.NewNop().Sugar()
		return
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		// Keep the previous logger rather than fail the caller.
		return
	}
	log = l.Sugar()
}

// SetLogger installs a custom zap logger. Useful for testing and for
// embedding the library in an application with its own logging setup.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		log = zap.NewNop().Sugar()
		return
	}
	log = l.Sugar()
}

// Debug logs a formatted debug message.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debugf(format, args...)
}

// Info logs a formatted informational message.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Infof(format, args...)
}

// Warn logs a formatted warning message.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warnf(format, args...)
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = log.Sync()
}
