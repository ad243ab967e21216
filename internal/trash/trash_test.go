package trash

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrash(t *testing.T) *Trash {
	tr := New(filepath.Join(t.TempDir(), "Trash"))
	tr.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }
	return tr
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRemoveMovesFileAndWritesInfo(t *testing.T) {
	tr := newTestTrash(t)
	src := filepath.Join(t.TempDir(), "my movie.mp4")
	write(t, src, "frames")

	outcomes := tr.Remove(context.Background(), []string{src})
	require.Len(t, outcomes, 1)
	require.NoError(t, outcomes[0].Err)

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(tr.Root, "files", "my movie.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "frames", string(data))

	info, err := os.ReadFile(filepath.Join(tr.Root, "info", "my movie.mp4.trashinfo"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "[Trash Info]\n")
	assert.Contains(t, string(info), "Path="+escapePath(src)+"\n")
	assert.Contains(t, string(info), "my%20movie.mp4")
	assert.Contains(t, string(info), "DeletionDate=2024-03-01T12:30:00\n")
}

func TestRemoveResolvesNameConflicts(t *testing.T) {
	tr := newTestTrash(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "clip.mkv")
	second := filepath.Join(dir, "b", "clip.mkv")
	third := filepath.Join(dir, "c", "clip.mkv")
	write(t, first, "1")
	write(t, second, "2")
	write(t, third, "3")

	for _, o := range tr.Remove(context.Background(), []string{first, second, third}) {
		require.NoError(t, o.Err)
	}

	for name, want := range map[string]string{"clip.mkv": "1", "clip_1.mkv": "2", "clip_2.mkv": "3"} {
		data, err := os.ReadFile(filepath.Join(tr.Root, "files", name))
		require.NoError(t, err, name)
		assert.Equal(t, want, string(data))
		_, err = os.Stat(filepath.Join(tr.Root, "info", name+".trashinfo"))
		assert.NoError(t, err, name)
	}
}

func TestRemoveReportsPerPathFailures(t *testing.T) {
	tr := newTestTrash(t)
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.mp4")
	write(t, ok, "x")
	missing := filepath.Join(dir, "missing.mp4")
	subdir := filepath.Join(dir, "folder")
	require.NoError(t, os.Mkdir(subdir, 0755))

	outcomes := tr.Remove(context.Background(), []string{missing, ok, subdir})
	require.Len(t, outcomes, 3)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
	assert.Error(t, outcomes[2].Err)

	_, err := os.Stat(subdir)
	assert.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(tr.Root, "info"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRemoveCancelled(t *testing.T) {
	tr := newTestTrash(t)
	src := filepath.Join(t.TempDir(), "a.mp4")
	write(t, src, "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := tr.Remove(ctx, []string{src})
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
	_, err := os.Stat(src)
	assert.NoError(t, err)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp4")
	dst := filepath.Join(dir, "dst.mp4")
	write(t, src, strings.Repeat("v", 100_000))
	info, err := os.Stat(src)
	require.NoError(t, err)

	require.NoError(t, copyFile(src, dst, info))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Len(t, data, 100_000)

	assert.Error(t, copyFile(src, dst, info), "existing target must not be overwritten")
}

func TestDefaultRoot(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data/home")
	root, err := DefaultRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/home", "Trash"), root)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{Success: true}, Summarize([]Outcome{{Path: "/a"}}))

	s := Summarize([]Outcome{{Path: "/a"}, {Path: "/b", Err: os.ErrPermission}})
	assert.False(t, s.Success)
	assert.Equal(t, []string{"/b"}, s.FailedFiles)
	assert.NotEmpty(t, s.Error)
}
