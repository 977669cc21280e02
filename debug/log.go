package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// File logger for development runs. Everything lands in a single file
// under the user config dir so a session can be inspected after a crash.

var (
	mu       sync.Mutex
	out      *os.File
	counters = make(map[string]int)
)

func logPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-scseq", "debug.log"), nil
}

// Enable opens (and truncates) the debug log. Calling it again while
// enabled is a no-op.
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if out != nil {
		return nil
	}

	path, err := logPath()
	if err != nil {
		return err
	}
	os.MkdirAll(filepath.Dir(path), 0755)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	out = f

	writeLine("debug", "=== logging started ===")
	return nil
}

// Disable closes the log; Log calls become no-ops again
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if out != nil {
		out.Close()
		out = nil
	}
}

// Log writes one line tagged with a category
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	writeLine(category, fmt.Sprintf(format, args...))
}

// LogEvery writes only every nth call with the same category and
// format, for per-frame events that would otherwise flood the file
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	key := category + "|" + format
	counters[key]++
	if counters[key]%n != 0 {
		return
	}
	msg := fmt.Sprintf(format, args...)
	writeLine(category, fmt.Sprintf("%s (count=%d)", msg, counters[key]))
}

// writeLine appends one timestamped line; callers hold mu. The file is
// synced per line so the tail survives a crash.
func writeLine(category, msg string) {
	if out == nil {
		return
	}
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[%s] %-10s %s\n", ts, category, msg)
	out.Sync()
}
