package scan

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindows(t *testing.T) {
	const w = 16
	for _, tc := range []struct {
		size uint64
		want []window
	}{
		{0, nil},
		{10, []window{{0, 10}}},
		{16, []window{{0, 16}}},
		{17, []window{{0, 16}, {1, 16}}},
		{32, []window{{0, 16}, {16, 16}}},
		{33, []window{{0, 16}, {16, 16}, {17, 16}}},
		{100, []window{{0, 16}, {50, 16}, {84, 16}}},
	} {
		assert.Equal(t, tc.want, windows(tc.size, w), "size %d", tc.size)
	}
}

func TestWindowsStayInBounds(t *testing.T) {
	for size := uint64(1); size < 200; size++ {
		for _, win := range windows(size, 16) {
			assert.LessOrEqual(t, win.offset+win.length, size, "size %d", size)
			assert.Positive(t, win.length)
		}
	}
}

func TestFingerprintIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	data := randomBytes(1, 100_000)
	a := writeFile(t, dir, "a.mp4", data)
	b := writeFile(t, dir, "b.mp4", data)

	h := PartialHasher{}
	da, err := h.Fingerprint(a, uint64(len(data)))
	require.NoError(t, err)
	db, err := h.Fingerprint(b, uint64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.Len(t, da.String(), 32)
}

func TestFingerprintSampledBytes(t *testing.T) {
	const size = 100_000
	base := randomBytes(2, size)
	dir := t.TempDir()
	h := PartialHasher{}

	orig, err := h.Fingerprint(writeFile(t, dir, "orig.mp4", base), size)
	require.NoError(t, err)

	for _, tc := range []struct {
		name   string
		offset int
		same   bool
	}{
		{"head", 0, false},
		{"middle", size / 2, false},
		{"tail", size - 1, false},
		{"between head and middle", DefaultWindow + 10, true},
		{"between middle and tail", size/2 + DefaultWindow + 10, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := append([]byte(nil), base...)
			data[tc.offset] ^= 0xff
			got, err := h.Fingerprint(writeFile(t, dir, tc.name+".mp4", data), size)
			require.NoError(t, err)
			if tc.same {
				assert.Equal(t, orig, got)
			} else {
				assert.NotEqual(t, orig, got)
			}
		})
	}
}

func TestFingerprintCustomWindow(t *testing.T) {
	dir := t.TempDir()
	base := randomBytes(3, 100)
	changed := append([]byte(nil), base...)
	changed[10] ^= 0xff

	h := PartialHasher{Window: 4}
	d1, err := h.Fingerprint(writeFile(t, dir, "a.mp4", base), 100)
	require.NoError(t, err)
	d2, err := h.Fingerprint(writeFile(t, dir, "b.mp4", changed), 100)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestFingerprintLargeWindow(t *testing.T) {
	dir := t.TempDir()
	data := randomBytes(4, 5*DefaultWindow)
	h := PartialHasher{Window: 2 * DefaultWindow}
	d1, err := h.Fingerprint(writeFile(t, dir, "a.mp4", data), uint64(len(data)))
	require.NoError(t, err)
	d2, err := h.Fingerprint(writeFile(t, dir, "b.mp4", data), uint64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestFingerprintZeroLengthIsNotOpened(t *testing.T) {
	dir := t.TempDir()
	h := PartialHasher{}
	d1, err := h.Fingerprint(filepath.Join(dir, "missing-1.mp4"), 0)
	require.NoError(t, err)
	d2, err := h.Fingerprint(filepath.Join(dir, "missing-2.mp4"), 0)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestFingerprintFoldsSize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.mp4", randomBytes(5, 64))

	h := PartialHasher{Window: 16}
	d1, err := h.Fingerprint(path, 64)
	require.NoError(t, err)
	d0, err := h.Fingerprint(path, 0)
	require.NoError(t, err)
	assert.NotEqual(t, d0, d1)
}

func TestFingerprintVanishedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.mp4")
	_, err := PartialHasher{}.Fingerprint(path, 10)

	var ioErr *IoError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, path, ioErr.Path)
}

func TestFingerprintShrunkFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "short.mp4", []byte("0123456789"))
	_, err := PartialHasher{}.Fingerprint(path, 100)

	var ioErr *IoError
	require.ErrorAs(t, err, &ioErr)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}
