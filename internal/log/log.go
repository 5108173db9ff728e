package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

const (
	LevelTrace = slog.Level(-8)
	// LevelNone is above every level slog emits, so nothing gets through.
	LevelNone = slog.Level(12)
)

// ParseLevel maps trace, debug, info, warn, error and none to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "none", "":
		return LevelNone, nil
	default:
		return LevelNone, fmt.Errorf("unknown log level '%s', expected trace, debug, info, warn, error or none", s)
	}
}

// Output is the process log destination. When it writes to a file the file can be reopened
// after rotation.
type Output struct {
	mu   sync.Mutex
	path string
	w    io.Writer
	file *os.File
}

// OpenOutput opens path for appending, creating parent directories. An empty path, or a
// path that cannot be opened, logs to stderr.
func OpenOutput(path string) *Output {
	out := &Output{path: path, w: os.Stderr}
	if path == "" {
		return out
	}
	if err := out.open(); err != nil {
		fmt.Fprintf(os.Stderr, "%v; falling back to stderr\n", err)
	}
	return out
}

func (o *Output) open() error {
	if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory for '%s': %v", o.path, err)
	}
	fh, err := os.OpenFile(o.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file '%s': %v", o.path, err)
	}
	o.file = fh
	o.w = fh
	return nil
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Write(p)
}

// ToFile reports whether records currently go to the log file.
func (o *Output) ToFile() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.file != nil
}

// Reopen closes and reopens the log file, for use after the file was moved away.
func (o *Output) Reopen() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.path == "" {
		return nil
	}
	if o.file != nil {
		o.file.Close()
		o.file = nil
		o.w = os.Stderr
	}
	return o.open()
}

func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.file == nil {
		return nil
	}
	err := o.file.Close()
	o.file = nil
	o.w = os.Stderr
	return err
}

// Init installs a JSON slog handler as the default logger and returns its output so the
// caller can close it.
func Init(level, path string) (*Output, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	out := OpenOutput(path)
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		AddSource: false,
		Level:     lvl,
	})
	slog.SetDefault(slog.New(handler))

	if out.ToFile() {
		watchRotation(out)
	}
	return out, nil
}

/*
 * when logging to a file listen for SIGHUP on log file rotation
 * mv small.log small.bak && kill -HUP <pid>
 */
func watchRotation(out *Output) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for range sigs {
			if err := out.Reopen(); err != nil {
				fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
			}
		}
	}()
}
