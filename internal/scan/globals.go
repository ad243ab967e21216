package scan

import (
	"path/filepath"
	"sync"

	"videodupes/internal/media"
)

var (
	defaultAccept = media.IsVideo

	// Trash and recycle directories, never scanned
	skipDirs = map[string]bool{
		"$RECYCLE.BIN": true, "System Volume Information": true,
		".Trashes": true, ".Trash": true,
	}

	// freedesktop home trash, relative to the user's home
	homeTrash = filepath.Join(".local", "share", "Trash")

	// Window read buffer pool
	bufferPool = sync.Pool{
		New: func() interface{} {
			b := make([]byte, DefaultWindow)
			return &b
		},
	}
)
