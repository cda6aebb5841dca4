// Package logging provides the file-backed debug log. The terminal belongs to
// the dashboard while it runs, so diagnostics go to a file or nowhere.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DebugLogger writes timestamped lines to a file.
// A logger without a file is a no-op.
type DebugLogger struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// NewDebugLogger creates a logger writing to the specified path.
// If the path is empty, returns a no-op logger.
// Creates parent directories if they don't exist.
func NewDebugLogger(logPath string) (*DebugLogger, error) {
	if logPath == "" {
		return &DebugLogger{}, nil
	}

	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := &DebugLogger{file: f}
	logger.Log("=== daneel debug log started at %s ===", time.Now().Format(time.RFC3339))
	return logger, nil
}

// DefaultLogPath returns the debug log location under the user state dir.
func DefaultLogPath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, _ := os.UserHomeDir()
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "daneel", "debug.log")
}

// NopLogger returns a no-op logger for testing or when logging is disabled.
func NopLogger() *DebugLogger {
	return &DebugLogger{}
}

// Enabled reports whether the logger writes anywhere.
func (l *DebugLogger) Enabled() bool {
	return l != nil && l.file != nil
}

// Log writes a timestamped message to the debug log.
// If the logger is nil or has no file, this is a no-op.
func (l *DebugLogger) Log(format string, args ...interface{}) {
	if !l.Enabled() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeLocked(fmt.Sprintf(format, args...))
}

// Write lets the standard library logger and other io.Writer users share the
// file. Each call becomes one timestamped line.
func (l *DebugLogger) Write(p []byte) (int, error) {
	if !l.Enabled() {
		return len(p), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeLocked(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (l *DebugLogger) writeLocked(msg string) {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	fmt.Fprintf(l.file, "[%s] %s\n", now().Format("15:04:05.000"), msg)
	l.file.Sync()
}

// Close closes the log file.
// Safe to call on nil logger or logger without file.
func (l *DebugLogger) Close() error {
	if !l.Enabled() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.file.Close()
	l.file = nil
	return err
}
