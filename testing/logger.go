package testing

import (
	"sync"
	"testing"

	"github.com/arloliu/rebalance/types"
)

// NewTestLogger creates a new logger instance that writes to the testing.T logger.
// This is useful for seeing log output during test runs.
func NewTestLogger(t *testing.T) types.Logger {
	return &testLogger{t: t}
}

type testLogger struct {
	t *testing.T
}

var _ types.Logger = (*testLogger)(nil)

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.t.Logf("DEBUG: %s %v", msg, keysAndValues)
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.t.Logf("INFO: %s %v", msg, keysAndValues)
}

func (l *testLogger) Warn(msg string, keysAndValues ...any) {
	l.t.Logf("WARN: %s %v", msg, keysAndValues)
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.t.Logf("ERROR: %s %v", msg, keysAndValues)
}

func (l *testLogger) Fatal(msg string, keysAndValues ...any) {
	l.t.Fatalf("FATAL: %s %v", msg, keysAndValues)
}

// CaptureLogger records log entries so tests can assert on warning paths.
type CaptureLogger struct {
	mu      sync.Mutex
	entries []CapturedEntry
}

// CapturedEntry is one recorded log call.
type CapturedEntry struct {
	Level   string
	Message string
	Fields  []any
}

var _ types.Logger = (*CaptureLogger)(nil)

// NewCaptureLogger creates a logger that records every entry.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

// Entries returns a copy of the recorded entries.
func (l *CaptureLogger) Entries() []CapturedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]CapturedEntry(nil), l.entries...)
}

// Warnings returns the messages of all recorded warn-level entries.
func (l *CaptureLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var msgs []string
	for _, e := range l.entries {
		if e.Level == "warn" {
			msgs = append(msgs, e.Message)
		}
	}

	return msgs
}

func (l *CaptureLogger) record(level, msg string, fields []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, CapturedEntry{Level: level, Message: msg, Fields: fields})
}

// Debug records the message.
func (l *CaptureLogger) Debug(msg string, keysAndValues ...any) {
	l.record("debug", msg, keysAndValues)
}

// Info records the message.
func (l *CaptureLogger) Info(msg string, keysAndValues ...any) {
	l.record("info", msg, keysAndValues)
}

// Warn records the message.
func (l *CaptureLogger) Warn(msg string, keysAndValues ...any) {
	l.record("warn", msg, keysAndValues)
}

// Error records the message.
func (l *CaptureLogger) Error(msg string, keysAndValues ...any) {
	l.record("error", msg, keysAndValues)
}

// Fatal records the message (does NOT call os.Exit).
func (l *CaptureLogger) Fatal(msg string, keysAndValues ...any) {
	l.record("fatal", msg, keysAndValues)
}
