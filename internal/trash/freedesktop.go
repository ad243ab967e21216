package trash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// Trash is a freedesktop.org trash directory: each trashed file lives in
// <root>/files and has a matching <root>/info/<name>.trashinfo recording
// where it came from, so desktop file managers can restore it.
type Trash struct {
	Root string
	now  func() time.Time
}

// New returns a Trash rooted at root.
func New(root string) *Trash {
	return &Trash{Root: root, now: time.Now}
}

// DefaultRoot is the user's home trash: $XDG_DATA_HOME/Trash, falling back to
// ~/.local/share/Trash.
func DefaultRoot() (string, error) {
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		return filepath.Join(data, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home trash: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

func (t *Trash) filesDir() string { return filepath.Join(t.Root, "files") }
func (t *Trash) infoDir() string  { return filepath.Join(t.Root, "info") }

// Remove trashes each path in order.
func (t *Trash) Remove(ctx context.Context, paths []string) []Outcome {
	return removeEach(ctx, paths, t.trashFile)
}

func (t *Trash) trashFile(path string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("trashing `%s`: %w", path, err)
		}
	}()

	abs, info, err := resolve(path)
	if err != nil {
		return err
	}

	for _, dir := range []string{t.filesDir(), t.infoDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating trash directory: %w", err)
		}
	}

	name, infoPath, err := t.reserve(abs)
	if err != nil {
		return err
	}
	target := filepath.Join(t.filesDir(), name)
	if err := moveFile(abs, target, info); err != nil {
		os.Remove(infoPath)
		return err
	}
	return nil
}

// reserve claims a free name in the trash by creating its info file
// exclusively, resolving conflicts as name_1.ext, name_2.ext, ...
func (t *Trash) reserve(abs string) (name, infoPath string, err error) {
	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	content := fmt.Sprintf(
		"[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapePath(abs),
		t.now().Format("2006-01-02T15:04:05"),
	)

	for counter := 0; ; counter++ {
		name = base
		if counter > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, counter, ext)
		}
		if _, err := os.Lstat(filepath.Join(t.filesDir(), name)); err == nil {
			continue
		}

		infoPath = filepath.Join(t.infoDir(), name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("creating trash info: %w", err)
		}
		if _, err := io.WriteString(f, content); err != nil {
			f.Close()
			os.Remove(infoPath)
			return "", "", fmt.Errorf("writing trash info: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(infoPath)
			return "", "", fmt.Errorf("writing trash info: %w", err)
		}
		return name, infoPath, nil
	}
}

// escapePath percent-encodes each path segment for the Path= key.
func escapePath(abs string) string {
	parts := strings.Split(filepath.ToSlash(abs), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// moveFile renames src to dst, copying and removing when they are on
// different filesystems.
func moveFile(src, dst string, info os.FileInfo) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("moving into trash: %w", err)
	}

	if err := copyFile(src, dst, info); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to copy file during move: %w", err)
	}
	return os.Remove(src)
}

func copyFile(src, dst string, info os.FileInfo) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create target file: %w", err)
	}
	defer func() { err = errors.Join(err, out.Close()) }()

	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}
	return nil
}
