package device

import "time"

// Read phases reported through Progress.
const (
	PhaseReading  = "reading"
	PhaseComplete = "complete"
)

// Progress contains information about a ReadAll in progress.
type Progress struct {
	// Phase is PhaseReading or PhaseComplete
	Phase string

	// BytesRead is the number of bytes read so far
	BytesRead int

	// TotalBytes is the declared data length
	TotalBytes int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since the read started
	ElapsedTime time.Duration
}

// ProgressCallback is called after every chunk read by ReadAll.
// Implementations should return quickly; the session lock is not held.
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to a Session.
// The logging package has adapters for log/slog and zap.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
