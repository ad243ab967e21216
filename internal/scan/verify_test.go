package scan

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullHash(t *testing.T) {
	dir := t.TempDir()
	data := randomBytes(30, 50_000)
	a := writeFile(t, dir, "a.mp4", data)
	b := writeFile(t, dir, "b.mp4", data)
	c := writeFile(t, dir, "c.mp4", adversarial(data))
	empty := writeFile(t, dir, "empty.mp4", nil)

	sa, err := fullHash(a)
	require.NoError(t, err)
	sb, err := fullHash(b)
	require.NoError(t, err)
	sc, err := fullHash(c)
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
	assert.NotEqual(t, sa, sc)

	_, err = fullHash(empty)
	assert.NoError(t, err)

	_, err = fullHash(filepath.Join(dir, "missing.mp4"))
	var ioErr *IoError
	assert.ErrorAs(t, err, &ioErr)
}

func TestVerifyGroupsDropsUnreadable(t *testing.T) {
	dir := t.TempDir()
	data := randomBytes(31, 1000)
	a := writeFile(t, dir, "a.mp4", data)
	b := writeFile(t, dir, "b.mp4", data)
	c := writeFile(t, dir, "c.mp4", data)
	require.NoError(t, os.Remove(c))

	untouched := DuplicateGroup{Size: 10, Hash: "small", Files: []FileRef{{"/x", 10}, {"/y", 10}}}
	groups := []DuplicateGroup{
		{Size: 1000, Hash: "h", Files: []FileRef{{a, 1000}, {b, 1000}, {c, 1000}}},
		untouched,
	}

	out, diags, err := verifyGroups(context.Background(), groups, 100, Options{}.withDefaults())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "h", out[0].Hash)
	assert.Equal(t, []FileRef{{a, 1000}, {b, 1000}}, out[0].Files)
	assert.Equal(t, untouched, out[1])
	require.Len(t, diags, 1)
	assert.Equal(t, c, diags[0].Path)
}

func TestCloseFileReportsIoError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.mp4", []byte("x"))
	f, err := os.Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var got error
	closeFile(f, path, &got)
	var ioErr *IoError
	require.ErrorAs(t, got, &ioErr)
	assert.Equal(t, "closing", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
	assert.ErrorIs(t, got, os.ErrClosed)

	earlier := &IoError{Op: "reading", Path: path, Err: io.ErrUnexpectedEOF}
	got = earlier
	closeFile(f, path, &got)
	assert.Same(t, earlier, got)
}
