// Package logtest implements support for testing Loggers.
package logtest

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/jacobpatterson1549/wibble/server/log"
)

// DiscardLogger is a Logger that writes nothing.
var DiscardLogger log.Logger = discardLogger{}

type discardLogger struct{}

// Printf implements the log.Logger interface.
func (discardLogger) Printf(format string, v ...interface{}) {}

// Logger is a logger that writes to a buffer to be read later.  It is safe to use from multiple goroutines.
type Logger struct {
	buf bytes.Buffer
	mu  sync.RWMutex
}

// NewLogger creates a Logger.
func NewLogger() *Logger {
	return new(Logger)
}

// Printf implements the log.Logger interface.  Each message is written on its own line.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(&l.buf, format, v...)
	l.buf.WriteByte('\n')
}

// String returns the recorded text.
func (l *Logger) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.String()
}

// Empty determines if nothing has been logged.
func (l *Logger) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.Len() == 0
}

// Contains determines if the text has been logged.
func (l *Logger) Contains(s string) bool {
	return strings.Contains(l.String(), s)
}

// Reset clears the recorded text.
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Reset()
}
