// Package logger provides logging implementations.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/shots/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// ConsoleLogger logs messages to the console with color support.
type ConsoleLogger struct {
	level     *atomic.Int32 // shared with component loggers
	component string
	color     bool
	stdout    io.Writer
	stderr    io.Writer
}

// NewConsole creates a new console logger with the specified level.
// Color output is automatically enabled when stdout is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	return NewConsoleWriter(level, os.Stdout, os.Stderr, IsTerminal())
}

// NewConsoleWriter creates a console logger writing to the given streams.
func NewConsoleWriter(level ports.LogLevel, stdout, stderr io.Writer, color bool) *ConsoleLogger {
	l := &ConsoleLogger{
		level:  new(atomic.Int32),
		color:  color,
		stdout: stdout,
		stderr: stderr,
	}
	l.level.Store(int32(level))
	return l
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.logAt(ports.LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.logAt(ports.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.logAt(ports.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.logAt(ports.LevelError, msg, args...)
}

// SetLevel changes the verbosity of this logger and its component loggers.
func (l *ConsoleLogger) SetLevel(level ports.LogLevel) {
	l.level.Store(int32(level))
}

// Level reports the current verbosity.
func (l *ConsoleLogger) Level() ports.LogLevel {
	return ports.LogLevel(l.level.Load())
}

// Color reports whether output is colorized.
func (l *ConsoleLogger) Color() bool {
	return l.color
}

// WithComponent returns a new logger with the specified component name.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	return &ConsoleLogger{
		level:     l.level,
		component: component,
		color:     l.color,
		stdout:    l.stdout,
		stderr:    l.stderr,
	}
}

func (l *ConsoleLogger) logAt(level ports.LogLevel, msg string, args ...interface{}) {
	if l.Level() > level {
		return
	}
	l.log(level, msg, args...)
}

// log outputs a log message with appropriate formatting.
func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args ...interface{}) {
	// Translate message using go-l10n
	translated := l10n.F(msg, args...)

	var output string
	if l.component != "" {
		if l.color {
			output = fmt.Sprintf("%s[%s]%s %s", colorCyan, l.component, colorReset, translated)
		} else {
			output = fmt.Sprintf("[%s] %s", l.component, translated)
		}
	} else {
		output = translated
	}

	if l.color {
		switch level {
		case ports.LevelDebug:
			output = colorGray + output + colorReset
		case ports.LevelWarn:
			output = colorYellow + output + colorReset
		case ports.LevelError:
			output = colorRed + output + colorReset
		}
	}

	if level >= ports.LevelWarn {
		fmt.Fprintln(l.stderr, output)
	} else {
		fmt.Fprintln(l.stdout, output)
	}
}

var _ ports.Logger = (*ConsoleLogger)(nil)
