// Package trash moves files to a recoverable trash location instead of
// erasing them.
//
// System returns the platform's own trash: the freedesktop.org home trash on
// Linux and other Unix systems, the Finder trash on macOS and the Recycle Bin
// on Windows. Trash implements the freedesktop layout for any root directory.
package trash

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"videodupes/internal/logging"
)

// Outcome is the result of removing one path.
type Outcome struct {
	Path string
	Err  error
}

// Remover moves files out of the way and reports per-path success.
type Remover interface {
	Remove(ctx context.Context, paths []string) []Outcome
}

// removeEach applies trashFile to each path in order. A path counts as
// removed only if it no longer exists afterwards. Once ctx is done the
// remaining paths fail with ctx.Err().
func removeEach(ctx context.Context, paths []string, trashFile func(path string) error) []Outcome {
	outcomes := make([]Outcome, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{Path: path, Err: err})
			continue
		}

		err := trashFile(path)
		if err == nil {
			err = checkGone(path)
		}
		if err != nil {
			logging.WithField("path", path).Warnf("Failed to trash file: %v", err)
		} else {
			logging.WithField("path", path).Info("moved to trash")
		}
		outcomes = append(outcomes, Outcome{Path: path, Err: err})
	}
	return outcomes
}

// Summary is the wire shape of a removal request's outcome.
type Summary struct {
	Success     bool     `json:"success"`
	Error       string   `json:"error,omitempty"`
	FailedFiles []string `json:"failedFiles,omitempty"`
}

// Summarize folds per-path outcomes into a Summary.
func Summarize(outcomes []Outcome) Summary {
	var failed []string
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.Path)
		}
	}
	if len(failed) == 0 {
		return Summary{Success: true}
	}
	return Summary{
		Error:       fmt.Sprintf("failed to trash %d of %d files; check permissions", len(failed), len(outcomes)),
		FailedFiles: failed,
	}
}

// resolve returns the absolute path and info of a file that may be trashed.
// Directories are refused.
func resolve(path string) (string, os.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get source file info: %w", err)
	}
	if info.IsDir() {
		return "", nil, errors.New("refusing to trash a directory")
	}
	return abs, info, nil
}

func checkGone(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return errors.New("file still exists after trashing")
	}
	return nil
}

