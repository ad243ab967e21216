package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/facette/natsort"

	"videodupes/internal/logging"
)

// walker enumerates one directory tree. Each directory is listed exactly
// once; sem bounds concurrent ReadDir calls across the tree.
type walker struct {
	opts  Options
	sem   chan struct{}
	stats *statsCollector
	root  string // absolute, set by enumerate

	mu    sync.Mutex
	diags []Diagnostic
}

func newWalker(opts Options, stats *statsCollector) *walker {
	return &walker{
		opts:  opts,
		sem:   make(chan struct{}, opts.WalkWorkers),
		stats: stats,
	}
}

// Enumerate walks root and returns every accepted file, a directory's files
// before its subdirectories, each level in natural name order. Unreadable
// subtrees are skipped and reported as diagnostics. Symlinks are never
// entered as directories; a symlink to a regular file is reported under its
// own path.
func Enumerate(ctx context.Context, root string, opts Options) ([]FileEntry, []Diagnostic, error) {
	w := newWalker(opts.withDefaults(), newStatsCollector())
	files, err := w.enumerate(ctx, root)
	if err != nil {
		return nil, nil, err
	}
	return files, w.diagnostics(), nil
}

func (w *walker) enumerate(ctx context.Context, root string) ([]FileEntry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving `%s`: %w: %w", root, ErrNotFound, err)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("scanning `%s`: %w: %w", abs, ErrPermission, err)
	case err != nil:
		return nil, fmt.Errorf("scanning `%s`: %w: %w", abs, ErrNotFound, err)
	case !info.IsDir():
		return nil, fmt.Errorf("scanning `%s`: %w: not a directory", abs, ErrNotFound)
	}

	w.root = abs
	w.opts.Observer.ScanningDirectory(abs)
	files, dirs, err := w.readDir(ctx, abs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("scanning `%s`: %w: %w", abs, ErrPermission, err)
		}
		return nil, fmt.Errorf("reading scan root `%s`: %w", abs, err)
	}

	files = append(files, w.walkChildren(ctx, dirs)...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

// walk processes a directory and its subdirectories.
func (w *walker) walk(ctx context.Context, dir string) []FileEntry {
	if ctx.Err() != nil {
		return nil
	}
	if shouldSkipDirectory(dir, w.opts) {
		logging.Debugf("Skipping directory: %s", dir)
		return nil
	}

	files, dirs, err := w.readDir(ctx, dir)
	if err != nil {
		if ctx.Err() == nil {
			w.report(dir, fmt.Errorf("reading dir: %w", err))
		}
		return nil
	}
	return append(files, w.walkChildren(ctx, dirs)...)
}

// walkChildren walks subdirectories concurrently, at most WalkWorkers at a
// time per directory, and concatenates their results in the order given.
func (w *walker) walkChildren(ctx context.Context, dirs []string) []FileEntry {
	if len(dirs) == 0 {
		return nil
	}

	children := make([][]FileEntry, len(dirs))
	semaphore := make(chan struct{}, w.opts.WalkWorkers)
	var wg sync.WaitGroup
spawn:
	for i, dir := range dirs {
		select {
		case <-ctx.Done():
			break spawn
		case semaphore <- struct{}{}:
			wg.Add(1)
			go func(i int, dir string) {
				defer func() {
					<-semaphore
					wg.Done()
				}()
				children[i] = w.walk(ctx, dir)
			}(i, dir)
		}
	}
	wg.Wait()

	var files []FileEntry
	for _, c := range children {
		files = append(files, c...)
	}
	return files
}

// readDir lists one directory, returning its accepted files and its
// subdirectories.
func (w *walker) readDir(ctx context.Context, dir string) (files []FileEntry, dirs []string, err error) {
	select {
	case w.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
	entries, err := os.ReadDir(dir)
	<-w.sem
	if err != nil {
		return nil, nil, err
	}

	w.stats.addDirectory(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return natsort.Compare(entries[i].Name(), entries[j].Name())
	})

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, path)
			continue
		}
		if !shouldProcessFile(path, w.opts) {
			continue
		}

		// Stat follows symlinks; the size is the target's.
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logging.Debugf("File no longer exists or dangling link: %s", path)
				continue
			}
			w.report(path, &IoError{Op: "stat", Path: path, Err: err})
			continue
		}
		if !info.Mode().IsRegular() || !matchesFileConstraints(info, w.opts) {
			continue
		}

		fe := FileEntry{Path: path, Size: uint64(info.Size())}
		w.stats.addAccepted(fe)
		files = append(files, fe)
	}
	return files, dirs, nil
}

func (w *walker) report(path string, err error) {
	logging.WithField("path", path).Warnf("skipping: %v", err)
	w.mu.Lock()
	w.diags = append(w.diags, Diagnostic{Path: path, Err: err})
	w.mu.Unlock()
}

// diagnostics returns the collected failures ordered by path.
func (w *walker) diagnostics() []Diagnostic {
	w.mu.Lock()
	defer w.mu.Unlock()
	diags := append([]Diagnostic(nil), w.diags...)
	sort.Slice(diags, func(i, j int) bool { return diags[i].Path < diags[j].Path })
	return diags
}
