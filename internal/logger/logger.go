// Package logger provides the file-backed structured logger used by insight.
// The console owns the terminal, so log output never goes to stdout.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFileName is the log file created under the OS temp dir.
const DefaultFileName = "insight-debug.log"

var (
	mu       sync.Mutex
	current  *slog.Logger
	logFile  io.Closer
	levelVar = new(slog.LevelVar)
)

// DefaultPath returns the default log file location.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultFileName)
}

// SetDebug switches between debug and info level at runtime.
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Init opens path for appending and installs a text handler writing to it.
// Calling Init again replaces the previous file.
func Init(path string, debug bool) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	SetDebug(debug)
	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))

	mu.Lock()
	prev := logFile
	current, logFile = l, f
	mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	l.Info("logger initialized", "path", path, "debug", debug)
	return nil
}

// Get returns the active logger, or one that discards everything when Init
// has not been called.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return slog.New(slog.DiscardHandler)
	}
	return current
}

// Close flushes and closes the log file.
func Close() error {
	mu.Lock()
	f := logFile
	current, logFile = nil, nil
	mu.Unlock()

	if f == nil {
		return nil
	}
	return f.Close()
}
