package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videodupes/internal/scan"
	"videodupes/internal/trash"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("VIDEODUPES_CONFIG_FILE", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("VIDEODUPES_LOG_DIR", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd(context.Background())
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mkfile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScanJSON(t *testing.T) {
	dir := t.TempDir()
	content := strings.Repeat("frame", 10_000)
	a := mkfile(t, filepath.Join(dir, "a.mp4"), content)
	b := mkfile(t, filepath.Join(dir, "sub", "b.mkv"), content)
	mkfile(t, filepath.Join(dir, "c.txt"), content)

	out, err := run(t, "scan", dir, "--json")
	require.NoError(t, err)

	var report scan.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Duplicates, 1)
	g := report.Duplicates[0]
	assert.EqualValues(t, len(content), g.Size)
	assert.Len(t, g.Hash, 32)
	assert.Equal(t, []scan.FileRef{{Path: a, Size: g.Size}, {Path: b, Size: g.Size}}, g.Files)
}

func TestScanFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "a.mp4"), "same")
	mkfile(t, filepath.Join(dir, "b.mp4"), "same")

	out, err := run(t, "scan", dir, "--json", "--min-size", "1KiB")
	require.NoError(t, err)
	assert.JSONEq(t, `{"duplicates":[]}`, out)

	_, err = run(t, "scan", dir, "--min-size", "2KB", "--max-size", "1KB", "--no-progress")
	assert.Error(t, err)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := run(t, "scan", filepath.Join(t.TempDir(), "nope"), "--json")
	assert.ErrorIs(t, err, scan.ErrNotFound)
}

func TestTrashCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VIDEODUPES_TRASH_DIR", filepath.Join(dir, "Trash"))
	keep := mkfile(t, filepath.Join(dir, "a.mp4"), "x")

	out, err := run(t, "trash", "--json", keep)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, out)
	_, err = os.Stat(keep)
	assert.True(t, os.IsNotExist(err))

	out, err = run(t, "trash", "--json", keep)
	assert.Error(t, err)
	var summary trash.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, []string{keep}, summary.FailedFiles)
}

func TestPreviewCommand(t *testing.T) {
	path := mkfile(t, filepath.Join(t.TempDir(), "a.webm"), "bytes")
	out, err := run(t, "preview", path)
	require.NoError(t, err)
	assert.Equal(t, "bytes", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "videodupes v"+Version)
}

func TestPrintResult(t *testing.T) {
	color.NoColor = true
	r := &scan.Result{
		Duplicates: []scan.DuplicateGroup{
			{Size: 2048, Hash: "h1", Files: []scan.FileRef{{Path: "/m/a.mp4", Size: 2048}, {Path: "/m/b.mp4", Size: 2048}, {Path: "/m/c.mp4", Size: 2048}}},
		},
		Diagnostics: []scan.Diagnostic{{Path: "/m/locked", Err: os.ErrPermission}},
		Stats:       scan.Stats{Accepted: 3, Bytes: 6144, Directories: 1, Hashed: 3, Elapsed: time.Second},
	}

	var buf bytes.Buffer
	printResult(&buf, r)
	out := buf.String()
	assert.Contains(t, out, "Group 1: 3 files, 2.0 KiB each\n  /m/a.mp4\n  /m/b.mp4\n  /m/c.mp4\n")
	assert.Contains(t, out, "Skipped /m/locked: permission denied")
	assert.Contains(t, out, "Found 1 duplicate groups, 4.0 KiB reclaimable")
}

func TestPrintResultEmpty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printResult(&buf, &scan.Result{})
	assert.Contains(t, buf.String(), "No duplicates found")
}
