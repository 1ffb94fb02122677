// Package debug writes a category-tagged log to the config directory.
// Disabled by default; the --debug flag turns it on. The terminal is
// owned by the TUI, so diagnostics have to go to a file.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	file    *os.File
	enabled bool
)

// Enable starts logging to <dir>/debug.log, truncating any previous log.
func Enable(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	file = f
	enabled = true
	write("debug", "=== log started ===")
	return nil
}

// Disable stops logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Log writes one line tagged with a category. No-op unless enabled.
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || file == nil {
		return
	}
	write(category, fmt.Sprintf(format, args...))
}

// write assumes mu is held.
func write(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %-8s %s\n", ts, category, msg)
	file.Sync() // keep the log useful after a crash
}
