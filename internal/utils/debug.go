package utils

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	debugFile *os.File
	debugOnce sync.Once
	enabled   bool
)

// SetEnabled turns debug logging on or off, mirroring the -d/--debug switch.
// Must be called (if at all) before the first Debug call.
func SetEnabled(v bool) {
	enabled = v
}

// Debug writes a message to debug.log in the current directory, but only
// once SetEnabled(true) has been called; otherwise it is a no-op so an
// ordinary run never touches the filesystem for logging.
func Debug(format string, args ...any) {
	if !enabled {
		return
	}
	// add timestamp to each debug message
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	debugOnce.Do(func() {
		debugFile, _ = os.Create("debug.log")
	})
	if debugFile != nil {
		fmt.Fprintf(debugFile, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
		debugFile.Sync() // Flush immediately
	}
}
