// ABOUTME: Diagnostic log file for the TUI
// ABOUTME: The alternate screen owns the terminal, so diagnostics go to disk

package debuglog

import (
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu     sync.Mutex
	file   *os.File
	logger *log.Logger
)

// Init opens (or creates) debug.log inside configDir. An empty dir
// disables logging and every Log/Error call becomes a no-op.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	file = f
	logger = log.New(f, "", log.LstdFlags)
	return nil
}

// Close flushes and disables the logger
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = nil
}

// Log writes one formatted line
func Log(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}

// Error logs a non-nil error with its originating operation
func Error(op string, err error) {
	if err == nil {
		return
	}
	Log("error in %s: %v", op, err)
}
