package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"videodupes/internal/media"
)

// ErrNotMedia is returned for paths the accept predicate rejects.
var ErrNotMedia = errors.New("not a media file")

// Media is an opened file ready to stream.
type Media struct {
	*os.File
	Info        os.FileInfo
	ContentType string
}

// Open opens path for streaming. Only regular files admitted by accept are
// served; nil accept means media.IsVideo.
func Open(path string, accept func(string) bool) (*Media, error) {
	if accept == nil {
		accept = media.IsVideo
	}
	path = filepath.Clean(path)
	if !accept(path) {
		return nil, fmt.Errorf("opening `%s`: %w", path, ErrNotMedia)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening `%s`: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat `%s`: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("opening `%s`: %w: not a regular file", path, ErrNotMedia)
	}

	contentType := media.TypeByExtension(path)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Media{File: f, Info: info, ContentType: contentType}, nil
}

// Stream copies the raw bytes of path to w.
func Stream(ctx context.Context, w io.Writer, path string, accept func(string) bool) (int64, error) {
	m, err := Open(path, accept)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	n, err := io.Copy(w, &ctxReader{ctx: ctx, r: m})
	if err != nil {
		return n, fmt.Errorf("streaming `%s`: %w", path, err)
	}
	return n, nil
}

// ctxReader stops a copy once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// revealCommand builds the command that shows path in the platform file
// manager.
func revealCommand(goos, path string) *exec.Cmd {
	switch goos {
	case "windows":
		cmdPath := os.Getenv("COMSPEC")
		if cmdPath == "" {
			cmdPath = `C:\Windows\System32\cmd.exe`
		}
		return exec.Command(cmdPath, "/c", "explorer", "/select,", strings.ReplaceAll(path, "/", `\`))
	case "darwin":
		return exec.Command("open", "-R", path)
	default: // Linux and other Unix-like systems
		return exec.Command("xdg-open", filepath.Dir(path))
	}
}

// Reveal opens the location of path in the file manager.
func Reveal(path string) error {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to get file path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("file no longer exists or inaccessible: %w", err)
	}
	if err := revealCommand(runtime.GOOS, abs).Run(); err != nil {
		return fmt.Errorf("opening file location: %w", err)
	}
	return nil
}
