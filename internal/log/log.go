// Package log provides leveled logging for the extractor.
//
// All output goes through a single writer (stderr by default) behind a
// mutex, so pipeline stages and parser pool workers may log concurrently.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is the severity of a log message.
type Level int

const (
	// LevelDebug traces per-file extraction and resolution steps.
	LevelDebug Level = iota
	// LevelInfo reports pipeline progress and run summaries.
	LevelInfo
	// LevelWarn reports recoverable problems, such as inputs that were skipped.
	LevelWarn
	// LevelError reports failures that abort the run.
	LevelError
)

// prefix distinguishes extractor output when stderr is shared with a build.
const prefix = "[CTE] "

var (
	mu       sync.Mutex
	output   io.Writer = os.Stderr
	minLevel           = LevelInfo
)

// SetOutput redirects log output. Passing nil silences logging entirely;
// tests use this to capture or suppress messages.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetLevel sets the minimum severity that will be written.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// GetLevel reports the minimum severity currently written.
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return minLevel
}

// Debug logs per-file tracing detail.
func Debug(format string, args ...any) {
	write(LevelDebug, format, args...)
}

// Info logs pipeline progress.
func Info(format string, args ...any) {
	write(LevelInfo, format, args...)
}

// Warn logs a recoverable problem.
func Warn(format string, args ...any) {
	write(LevelWarn, format, args...)
}

// Error logs a failure.
func Error(format string, args ...any) {
	write(LevelError, format, args...)
}

func write(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if level < minLevel || output == nil {
		return
	}

	fmt.Fprintf(output, prefix+format+"\n", args...)
}
