package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	maxLogSize      = 10 * 1024 * 1024 // 10MB
	maxLogRotations = 5
	logFileName     = "videodupes.log"
)

// Options configures the process logger.
type Options struct {
	// Dir holds the log file. Empty means <tmp>/videodupes-logs.
	Dir string

	// Level is a logrus level name ("debug", "info", "warning", ...).
	// Empty means "info".
	Level string

	// Stderr mirrors log output to stderr.
	Stderr bool
}

var (
	mu     sync.Mutex
	std    = newDefault()
	output *os.File
)

func newDefault() *log.Logger {
	l := log.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(log.WarnLevel)
	l.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	return l
}

// DefaultDir is the directory Init uses when Options.Dir is empty.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "videodupes-logs")
}

// Init points the logger at a rotating log file. It may be called more than
// once; the previous file is closed.
func Init(opts Options) error {
	level := log.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = log.ParseLevel(opts.Level); err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}
	}

	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating log directory `%s`: %w", dir, err)
	}

	path := filepath.Join(dir, logFileName)
	rotateLogFile(path)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file `%s`: %w", path, err)
	}

	var w io.Writer = file
	if opts.Stderr {
		w = io.MultiWriter(file, os.Stderr)
	}

	mu.Lock()
	prev := output
	output = file
	std.SetOutput(w)
	std.SetLevel(level)
	mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	std.WithField("path", path).Debug("log started")
	return nil
}

// SetOutput redirects the logger, for tests and embedding callers.
func SetOutput(w io.Writer, level log.Level) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
	std.SetLevel(level)
}

// Close flushes and closes the log file opened by Init.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if output == nil {
		return nil
	}
	err := errors.Join(output.Sync(), output.Close())
	output = nil
	std.SetOutput(os.Stderr)
	if err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}

// rotateLogFile shifts path to path.1, path.1 to path.2 and so on once path
// exceeds maxLogSize.
func rotateLogFile(path string) {
	fi, err := os.Stat(path)
	if err != nil || fi.Size() <= maxLogSize {
		return
	}
	for i := maxLogRotations - 1; i > 0; i-- {
		os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}
	os.Rename(path, path+".1")
}

// L returns the shared logger.
func L() *log.Logger { return std }

// WithField starts a structured entry on the shared logger.
func WithField(key string, value interface{}) *log.Entry {
	return std.WithField(key, value)
}

func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }

func Infof(format string, args ...interface{}) { std.Infof(format, args...) }

func Warnf(format string, args ...interface{}) { std.Warnf(format, args...) }

func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }
