// log.go - log-file writer (spec.md §6 "Log-file format")
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package chuidlog wraps github.com/opencoff/go-logger, the same
// logging library the teacher's own test harness constructs
// (opencoff-go-fio/testsuite/run.go). go-logger's own line format --
// "<weekday month day HH:MM:SS year> <severity>: <message>" -- is
// exactly the format spec.md §6 specifies, so no custom formatter is
// needed here; this package only adds the INFO/WARNING/ERROR
// convenience wrappers and threads the logger through worker context
// instead of a package global (per spec.md's Design Notes on global
// mutable state).
package chuidlog

import (
	"fmt"
	"path/filepath"

	"github.com/opencoff/go-logger"
)

// Logger wraps a go-logger.Logger. It is safe for concurrent use --
// go-logger itself serializes writes.
type Logger struct {
	l logger.Logger
}

// New opens (creating if needed) "<dir>/chuid_log" and returns a
// Logger writing to it. verbose selects LOG_DEBUG over LOG_INFO.
func New(dir string, verbose bool) (*Logger, error) {
	path := filepath.Join(dir, "chuid_log")

	prio := logger.LOG_INFO
	if verbose {
		prio = logger.LOG_DEBUG
	}

	l, err := logger.NewLogger(path, prio, "chuid", logger.Ldate|logger.Ltime|logger.Lmicroseconds)
	if err != nil {
		return nil, fmt.Errorf("chuidlog: %w", err)
	}
	return &Logger{l: l}, nil
}

// Infof logs an INFO line.
func (lg *Logger) Infof(format string, args ...interface{}) {
	lg.l.Info(format, args...)
}

// Warningf logs a WARNING line.
func (lg *Logger) Warningf(format string, args ...interface{}) {
	lg.l.Warn(format, args...)
}

// Errorf logs an ERROR line.
func (lg *Logger) Errorf(format string, args ...interface{}) {
	lg.l.Err(format, args...)
}

// Debugf logs at DEBUG level; only surfaces in the log file when the
// logger was opened with verbose=true.
func (lg *Logger) Debugf(format string, args ...interface{}) {
	lg.l.Debug(format, args...)
}

// Close flushes and closes the underlying log file.
func (lg *Logger) Close() error {
	return lg.l.Close()
}
