package scan

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/minio/highwayhash"
)

// DefaultWindow is the size of each sampled window.
const DefaultWindow = 16 * 1024

// hashKey keys HighwayHash. It is fixed so digests are stable across runs;
// the fingerprint is not a security boundary.
var hashKey = mustDecodeKey("000102030405060708090A0B0C0D0E0FF0E0D0C0B0A090807060504030201000")

func mustDecodeKey(s string) []byte {
	key, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return key
}

// window is a byte range to sample.
type window struct {
	offset uint64
	length uint64
}

// windows returns the head, middle and tail ranges for a file of the given
// size. Middle is sampled only when size > 2w and tail only when size > w;
// head and tail may overlap when w < size <= 2w.
func windows(size, w uint64) []window {
	if size == 0 {
		return nil
	}

	ws := make([]window, 0, 3)
	ws = append(ws, window{0, min(w, size)})
	if size > 2*w {
		mid := size / 2
		ws = append(ws, window{mid, min(w, size-mid)})
	}
	if size > w {
		ws = append(ws, window{size - w, w})
	}
	return ws
}

// PartialHasher fingerprints a file from its size and up to three sampled
// windows using HighwayHash-128. Two different files of one size whose
// windows match produce the same digest; that is the accepted cost of not
// reading whole files.
type PartialHasher struct {
	// Window overrides DefaultWindow.
	Window uint64
}

func (h PartialHasher) window() uint64 {
	if h.Window == 0 {
		return DefaultWindow
	}
	return h.Window
}

// Fingerprint hashes the file at path, which is expected to be size bytes
// long. Zero-length files are not opened.
func (h PartialHasher) Fingerprint(path string, size uint64) (digest Digest, err error) {
	hh, err := highwayhash.New128(hashKey)
	if err != nil {
		return digest, fmt.Errorf("initializing hash: %w", err)
	}

	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], size)
	hh.Write(sizeBuf[:])

	if size > 0 {
		if err = h.hashWindows(hh, path, size); err != nil {
			return digest, err
		}
	}

	copy(digest[:], hh.Sum(nil))
	return digest, nil
}

func (h PartialHasher) hashWindows(w io.Writer, path string, size uint64) (err error) {
	file, err := os.Open(path)
	if err != nil {
		return &IoError{Op: "opening", Path: path, Err: err}
	}
	defer closeFile(file, path, &err)

	buf, release := h.buffer()
	defer release()

	for _, win := range windows(size, h.window()) {
		chunk := buf[:win.length]
		n, err := file.ReadAt(chunk, int64(win.offset))
		if n < len(chunk) {
			if err == nil || errors.Is(err, io.EOF) {
				err = fmt.Errorf("short read at offset %d: %w", win.offset, io.ErrUnexpectedEOF)
			}
			return &IoError{Op: "reading", Path: path, Err: err}
		}
		w.Write(chunk)
	}
	return nil
}

// buffer returns a window-sized buffer and its release func.
func (h PartialHasher) buffer() ([]byte, func()) {
	if h.window() > DefaultWindow {
		return make([]byte, h.window()), func() {}
	}
	b := bufferPool.Get().(*[]byte)
	return (*b)[:h.window()], func() { bufferPool.Put(b) }
}
