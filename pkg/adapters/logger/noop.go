package logger

import (
	"sync/atomic"

	"github.com/user/shots/pkg/ports"
)

// NoopLogger is a logger that discards all messages.
// It still tracks its level so configuration can be observed in tests.
type NoopLogger struct {
	level atomic.Int32
}

// NewNoop creates a new no-op logger at LevelInfo.
func NewNoop() *NoopLogger {
	l := &NoopLogger{}
	l.level.Store(int32(ports.LevelInfo))
	return l
}

func (l *NoopLogger) Debug(msg string, args ...interface{}) {}
func (l *NoopLogger) Info(msg string, args ...interface{})  {}
func (l *NoopLogger) Warn(msg string, args ...interface{})  {}
func (l *NoopLogger) Error(msg string, args ...interface{}) {}

// SetLevel records the level.
func (l *NoopLogger) SetLevel(level ports.LogLevel) {
	l.level.Store(int32(level))
}

// Level returns the recorded level.
func (l *NoopLogger) Level() ports.LogLevel {
	return ports.LogLevel(l.level.Load())
}

// WithComponent returns the same no-op logger.
func (l *NoopLogger) WithComponent(component string) ports.Logger {
	return l
}

var _ ports.Logger = (*NoopLogger)(nil)
