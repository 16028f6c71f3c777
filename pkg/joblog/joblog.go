// Package joblog writes the line-oriented operational log for batch jobs:
// one timestamped line per action, mirrored to stdout and optionally to a
// file so cron output and the persisted log match.
package joblog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

type Logger struct {
	out  io.Writer
	file *os.File
}

// New returns a logger writing to stdout; if path is non-empty the lines
// are also appended to that file.
func New(path string) (*Logger, error) {
	l := &Logger{out: os.Stdout}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("joblog: open %s: %w", path, err)
		}
		l.file = f
	}
	return l, nil
}

// Printf writes a single timestamped line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	stamped := fmt.Sprintf("[%s] %s\n", time.Now().Format(time.RFC3339), line)
	if l.out != nil {
		fmt.Fprint(l.out, stamped)
	}
	if l.file != nil {
		fmt.Fprint(l.file, stamped)
	}
}

// Close releases the file handle, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
