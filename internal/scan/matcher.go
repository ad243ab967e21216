package scan

import (
	"os"
	"path/filepath"
	"strings"
)

// shouldSkipDirectory checks if the directory should be skipped. The scan
// root is never skipped.
func shouldSkipDirectory(dir string, opts Options) bool {
	if isTrashDir(dir) {
		return true
	}
	if opts.ExcludeHidden && isHidden(dir) {
		return true
	}
	for _, excluded := range opts.ExcludeDirs {
		if withinDir(dir, excluded) {
			return true
		}
	}
	return false
}

// shouldProcessFile performs the cheap name-based checks before any stat.
func shouldProcessFile(path string, opts Options) bool {
	if opts.ExcludeHidden && isHidden(path) {
		return false
	}
	return opts.Accept(path)
}

// matchesFileConstraints checks the size constraints.
func matchesFileConstraints(info os.FileInfo, opts Options) bool {
	size := uint64(info.Size())
	if opts.MinSize > 0 && size < opts.MinSize {
		return false
	}
	if opts.MaxSize > 0 && size > opts.MaxSize {
		return false
	}
	return true
}

// isTrashDir matches recycle bins, per-volume .Trash-$uid directories and
// the home trash.
func isTrashDir(dir string) bool {
	name := filepath.Base(dir)
	if skipDirs[name] || strings.HasPrefix(name, ".Trash-") {
		return true
	}
	return strings.HasSuffix(dir, string(filepath.Separator)+homeTrash)
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// withinDir reports whether path is dir or lies below it.
func withinDir(path, dir string) bool {
	dir = filepath.Clean(dir)
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(dir, string(filepath.Separator))+string(filepath.Separator))
}
