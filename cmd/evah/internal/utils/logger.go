// Package utils provides utility functions for the evah CLI.
//
// This file implements a debug logger that writes log messages to
// ~/.evah/debug.log for troubleshooting runs. Run IDs, parameters sent and
// model error messages end up here rather than on screen.
package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	debugLogger *log.Logger
	logPath     string
)

// InitLogger initializes the debug logger
func InitLogger() error {
	logDir := filepath.Join(os.Getenv("HOME"), ".evah")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logFile := filepath.Join(logDir, "debug.log")
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	debugLogger = log.New(file, "", log.LstdFlags|log.Lshortfile)
	logPath = logFile
	debugLogger.Printf("=== evah started ===")
	return nil
}

// LogPath returns the debug log file, empty before InitLogger succeeded
func LogPath() string {
	return logPath
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	if debugLogger != nil {
		debugLogger.Output(2, fmt.Sprintf(format, args...))
	}
}
