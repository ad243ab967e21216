package scan

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound means the scan root does not exist or is not a directory.
	ErrNotFound = errors.New("scan root not found")

	// ErrPermission means the scan root itself could not be read.
	ErrPermission = errors.New("scan root not readable")
)

// IoError is a per-file failure: the file vanished or became unreadable
// between stat and read.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s `%s`: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// closeFile closes f and records a failure in *err as an IoError, unless an
// earlier error is already set.
func closeFile(f *os.File, path string, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = &IoError{Op: "closing", Path: path, Err: cerr}
	}
}
