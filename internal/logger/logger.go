package logger

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log with conversion-specific helpers.
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w at info level.
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level.
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(name string) (log.Level, error) {
	return log.ParseLevel(name)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return New(io.Discard)
}

// BatchStarted logs the start of a batch.
func (l *Logger) BatchStarted(input, dest, outDir string) {
	l.Info("batch started",
		"input", input,
		"dest", dest,
		"out", outDir)
}

// BatchCompleted logs the totals of a finished batch.
func (l *Logger) BatchCompleted(converted, skipped, failed int, duration time.Duration) {
	l.Info("batch completed",
		"converted", converted,
		"skipped", skipped,
		"failed", failed,
		"duration", duration.Round(time.Millisecond))
}

// FileConverted logs a successful conversion.
func (l *Logger) FileConverted(source, dest string) {
	l.Info("file converted",
		"source", source,
		"dest", dest)
}

// FileFailed logs a conversion that failed.
func (l *Logger) FileFailed(source string, err error) {
	l.Error("conversion failed",
		"file", source,
		"error", err)
}

// FileSkipped logs a file left out of the batch.
func (l *Logger) FileSkipped(file, reason string) {
	l.Warn("file skipped",
		"file", file,
		"reason", reason)
}

// OutputInPlace warns that converted files are written next to their sources.
func (l *Logger) OutputInPlace(dir string) {
	l.Warn("output directory is the input directory",
		"dir", dir)
}
