package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for per-task details: sessions, saved shots, copies.
	LevelDebug LogLevel = iota
	// LevelInfo is for operation-level progress.
	LevelInfo
	// LevelWarn is for recoverable problems and phase banners.
	LevelWarn
	// LevelError is for failures and result summaries.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel.
// "trace" and "silent" are accepted as aliases of debug and quiet.
// Unknown names fall back to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "trace", "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet", "silent":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger abstracts logging operations with multi-language support.
// The msg parameter is a message key that can be translated.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// SetLevel changes the verbosity of this logger and every logger
	// derived from it with WithComponent.
	SetLevel(level LogLevel)

	// Level reports the current verbosity.
	Level() LogLevel

	// WithComponent returns a new Logger that prefixes messages with the component name.
	WithComponent(component string) Logger
}
