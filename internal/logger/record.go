package logger

import (
	"strings"
	"sync"

	"github.com/Ago95Dev/SA-ADR/types"
)

// Entry is one recorded log call.
type Entry struct {
	// Level is the log level name: "DEBUG", "INFO", "WARN" or "ERROR".
	Level string

	// Message is the log message.
	Message string

	// KeysAndValues are the structured fields as passed to the logger.
	KeysAndValues []any
}

// RecordingLogger captures log calls for assertions in tests.
//
// Safe for concurrent use; worker goroutines log into it while the test
// inspects entries.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// Compile-time assertion that RecordingLogger implements Logger.
var _ types.Logger = (*RecordingLogger)(nil)

// NewRecording creates a logger that records every call.
//
// Returns:
//   - *RecordingLogger: A new recording logger instance
func NewRecording() *RecordingLogger {
	return &RecordingLogger{}
}

// Debug records a debug-level entry.
func (l *RecordingLogger) Debug(msg string, keysAndValues ...any) {
	l.record("DEBUG", msg, keysAndValues)
}

// Info records an info-level entry.
func (l *RecordingLogger) Info(msg string, keysAndValues ...any) {
	l.record("INFO", msg, keysAndValues)
}

// Warn records a warn-level entry.
func (l *RecordingLogger) Warn(msg string, keysAndValues ...any) {
	l.record("WARN", msg, keysAndValues)
}

// Error records an error-level entry.
func (l *RecordingLogger) Error(msg string, keysAndValues ...any) {
	l.record("ERROR", msg, keysAndValues)
}

// Entries returns a copy of all recorded entries in call order.
func (l *RecordingLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Contains reports whether any recorded message at the given level contains
// the substring.
func (l *RecordingLogger) Contains(level, substring string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if e.Level == level && strings.Contains(e.Message, substring) {
			return true
		}
	}

	return false
}

// Reset discards all recorded entries.
func (l *RecordingLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
}

func (l *RecordingLogger) record(level, msg string, keysAndValues []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{Level: level, Message: msg, KeysAndValues: keysAndValues})
}
