// Package logger defines the logging contract used by the gripper driver.
//
// Every component that can emit diagnostics (the serial transport, the
// response reader and the gripper session) takes a Logger through its
// configuration, so applications can route driver output into their own
// logging framework. The default implementation is backed by log/slog.
//
// Log Levels:
//
//   - DebugLevel: raw request/response frames and poll iterations.
//   - InfoLevel:  connection lifecycle and completed commands.
//   - WarnLevel:  ignored operations, failed acknowledgements, short feedback.
//   - ErrorLevel: transport failures.
//   - FatalLevel: reserved for applications; the driver never uses it.
package logger

// Level indicates the logging severity level.
type Level = int8

const (
	// DebugLevel logs are voluminous and usually disabled outside bench testing.
	DebugLevel Level = iota - 1
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs report operations the driver ignored or could not complete.
	WarnLevel
	// ErrorLevel logs report transport level failures.
	ErrorLevel
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel
)

// Logger defines a common interface for structured, leveled logging.
type Logger interface {
	// Debug logs a message at DebugLevel.
	Debug(msg string, keysAndValues ...any)
	// Info logs a message at InfoLevel.
	Info(msg string, keysAndValues ...any)
	// Warn logs a message at WarnLevel.
	Warn(msg string, keysAndValues ...any)
	// Error logs a message at ErrorLevel.
	Error(msg string, keysAndValues ...any)
	// Fatal logs a message at FatalLevel and then calls os.Exit(1).
	Fatal(msg string, keysAndValues ...any)
	// With creates a child logger carrying the given key-value pairs.
	// Key-values added to the child don't affect the parent, and vice versa.
	With(keyValues ...any) Logger
	// Level returns the minimum enabled level for this logger.
	Level() Level
	// SetLevel sets the minimum enabled level for this logger.
	SetLevel(level Level)
}
