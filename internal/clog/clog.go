// Package clog is the compiler's structured, verbose-mode-only logging
// layer. It is pure observability: it never participates in control flow
// and never reports the fatal errors internal/diag owns (spec.md §4.1).
//
// Grounded on hashicorp/logutils.LevelFilter wrapping the standard
// log.Logger, the way qjcg-driving wires its own verbose-mode reporting.
package clog

import (
	"io"
	"log"
	"os"

	"github.com/hashicorp/logutils"
)

// logger is package-global: every pipeline stage logs through the same
// filtered writer, configured once by Init at startup.
var logger = log.New(io.Discard, "", 0)

// Init installs the level filter. When verbose is false, every level below
// WARN is discarded. The minimum level is chosen once here; the filter then
// checks each written line's level prefix against it.
func Init(verbose bool) {
	minLevel := logutils.LogLevel("WARN")
	if verbose {
		minLevel = logutils.LogLevel("DEBUG")
	}
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN"},
		MinLevel: minLevel,
		Writer:   os.Stderr,
	}
	logger = log.New(filter, "", 0)
}

// Debug logs a DEBUG-level line (compiled pipeline stage entry/exit
// counters; spec.md §2.2).
func Debug(format string, args ...interface{}) {
	logger.Printf("[DEBUG] "+format, args...)
}

// Info logs an INFO-level line.
func Info(format string, args ...interface{}) {
	logger.Printf("[INFO] "+format, args...)
}

// Warn logs a WARN-level line. WARN is always shown, verbose or not.
func Warn(format string, args ...interface{}) {
	logger.Printf("[WARN] "+format, args...)
}
