package reingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediacurator/metadata"
	"mediacurator/report"
	"mediacurator/types"
)

func writeFileAt(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("not a real jpeg"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func rowFor(t *testing.T, rows []report.ImageRow, base string) report.ImageRow {
	t.Helper()
	for _, row := range rows {
		if filepath.Base(row.File) == base {
			return row
		}
	}
	t.Fatalf("no row for %s", base)
	return report.ImageRow{}
}

func TestEvaluate(t *testing.T) {
	root := t.TempDir()
	writeFileAt(t, filepath.Join(root, "2019", "good.jpg"),
		time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC))
	writeFileAt(t, filepath.Join(root, "2019", "copied-later.jpg"),
		time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC))
	writeFileAt(t, filepath.Join(root, "misc", "noyear.jpg"),
		time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC))
	writeFileAt(t, filepath.Join(root, "2019", "notes.txt"),
		time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC))
	writeFileAt(t, filepath.Join(root, "Trash", "2019", "junk.jpg"),
		time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC))

	rows, err := Evaluate(EvaluateOptions{
		Root:       root,
		Skiplist:   []string{"Trash"},
		Extensions: []string{"jpg", "jpeg"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 5, "every file gets a row")

	good := rowFor(t, rows, "good.jpg")
	assert.Equal(t, types.ActionMove, good.Action)
	assert.Equal(t, metadata.ReasonModYearCorrect, good.Reason)
	capture, err := metadata.ParseTimestamp(good.CaptureTime)
	require.NoError(t, err)
	assert.True(t, capture.Equal(time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC)))

	copied := rowFor(t, rows, "copied-later.jpg")
	assert.Equal(t, types.ActionSkip, copied.Action)
	assert.Equal(t, metadata.ReasonModYearMismatch, copied.Reason)
	assert.Empty(t, copied.CaptureTime)

	noyear := rowFor(t, rows, "noyear.jpg")
	assert.Equal(t, types.ActionSkip, noyear.Action)
	assert.Equal(t, metadata.ReasonNoYearInPath, noyear.Reason)

	txt := rowFor(t, rows, "notes.txt")
	assert.Equal(t, types.ActionSkip, txt.Action)
	assert.Equal(t, "wrong extension", txt.Reason)

	junk := rowFor(t, rows, "junk.jpg")
	assert.Equal(t, types.ActionSkip, junk.Action)
	assert.Equal(t, "skiplist match", junk.Reason)
}

func TestEvaluateTransitionGate(t *testing.T) {
	root := t.TempDir()
	writeFileAt(t, filepath.Join(root, "2021", "late.jpg"),
		time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC))

	rows, err := Evaluate(EvaluateOptions{
		Root:       root,
		Extensions: []string{"jpg"},
		Transition: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.ActionSkip, rows[0].Action)
	assert.Equal(t, metadata.ReasonAfterTransition, rows[0].Reason)
}

func TestProcessCopiesWithCaptureName(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img.jpg")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0644))
	stagingDir := filepath.Join(dir, "staging")

	rows := []report.ImageRow{
		{File: src, Action: types.ActionMove, CaptureTime: "2019-06-01T10:00:00Z"},
	}

	processed, stats := Process(rows, stagingDir, true)
	assert.Equal(t, 1, stats.Copied)
	assert.Equal(t, 0, stats.Failed)

	dst := filepath.Join(stagingDir, "20190601_100000-img.jpg")
	assert.Equal(t, dst, processed[0].DerivedFile)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC)),
		"staged mtime carries the capture time")

	_, err = os.Stat(src)
	assert.NoError(t, err, "original stays in the archive")
}

func TestProcessSkipsNonMoveRows(t *testing.T) {
	stagingDir := t.TempDir()

	rows := []report.ImageRow{
		{File: "/archive/a.jpg", Action: types.ActionSkip, Reason: "no year in path"},
	}

	processed, stats := Process(rows, stagingDir, true)
	assert.Equal(t, 0, stats.Copied)
	assert.Equal(t, 1, stats.Skipped)
	assert.Empty(t, processed[0].DerivedFile)
}

func TestProcessRefusesMoveWithoutCaptureTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img.jpg")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0644))
	stagingDir := filepath.Join(dir, "staging")

	rows := []report.ImageRow{
		{File: src, Action: types.ActionMove}, // hand-edited, no capture time
	}

	_, stats := Process(rows, stagingDir, true)
	assert.Equal(t, 0, stats.Copied)
	assert.Equal(t, 1, stats.Skipped)

	entries, err := os.ReadDir(stagingDir)
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestProcessDryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img.jpg")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0644))
	stagingDir := filepath.Join(dir, "staging")

	rows := []report.ImageRow{
		{File: src, Action: types.ActionMove, CaptureTime: "2019-06-01T10:00:00Z"},
	}

	processed, stats := Process(rows, stagingDir, false)
	assert.Equal(t, 0, stats.Copied)
	assert.NotEmpty(t, processed[0].DerivedFile, "dry run still shows the destination")

	_, err := os.Stat(stagingDir)
	assert.True(t, os.IsNotExist(err), "dry run writes nothing")
}

func TestProcessNameCollision(t *testing.T) {
	dir := t.TempDir()
	srcA := filepath.Join(dir, "a", "img.jpg")
	srcB := filepath.Join(dir, "b", "img.jpg")
	for _, src := range []string{srcA, srcB} {
		require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
		require.NoError(t, os.WriteFile(src, []byte("pixels"), 0644))
	}
	stagingDir := filepath.Join(dir, "staging")

	rows := []report.ImageRow{
		{File: srcA, Action: types.ActionMove, CaptureTime: "2019-06-01T10:00:00Z"},
		{File: srcB, Action: types.ActionMove, CaptureTime: "2019-06-01T10:00:00Z"},
	}

	processed, stats := Process(rows, stagingDir, true)
	assert.Equal(t, 2, stats.Copied)
	assert.NotEqual(t, processed[0].DerivedFile, processed[1].DerivedFile)
}
