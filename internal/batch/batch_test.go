package batch

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/datatad/dispatch"
	"github.com/vegasq/datatad/engine"
	"github.com/vegasq/datatad/format"
	"github.com/vegasq/datatad/internal/logger"
)

const (
	sampleCSV  = "id,name\n1,alpha\n2,beta\n"
	sampleTSV  = "id\tname\n1\talpha\n2\tbeta\n"
	sampleJSON = `[{"id": 1, "name": "alpha"}, {"id": 2, "name": "beta"}]`
)

func newRunner(t *testing.T, reg *dispatch.Registry, buf *bytes.Buffer) *Runner {
	t.Helper()
	sess, err := engine.Open(engine.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	return &Runner{
		Session:  sess,
		Registry: reg,
		Log:      logger.New(buf),
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		content := sampleCSV
		switch filepath.Ext(name) {
		case ".json":
			content = sampleJSON
		case ".tsv":
			content = sampleTSV
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestRunDirectoryIsolatesFailures(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "sales csv")
	writeFiles(t, in, "a.csv", "b.csv", "c.csv", "d.csv")

	reg := dispatch.Default()
	base, err := reg.Lookup(format.CSV, format.JSON)
	require.NoError(t, err)
	reg.Register(dispatch.Pair{From: format.CSV, To: format.JSON}, dispatch.StrategyFunc(
		func(s *engine.Session, src, dst string, opts dispatch.Options) error {
			if filepath.Base(src) == "c.csv" {
				return errors.New("disk full")
			}
			return base.Convert(s, src, dst, opts)
		}))

	var buf bytes.Buffer
	stats, err := newRunner(t, reg, &buf).Run(in, format.JSON)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Converted)
	assert.Equal(t, 1, stats.Failed)

	out := filepath.Join(root, "sales json")
	for _, name := range []string{"a.json", "b.json", "d.json"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.NoFileExists(t, filepath.Join(out, "c.json"))

	logged := buf.String()
	assert.Equal(t, 1, strings.Count(logged, "conversion failed"))
	assert.Contains(t, logged, "c.csv")
}

func TestRunDirectorySkips(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "Exports")
	writeFiles(t, in, "a.csv", "b.csv", "notes.md", "c.json")
	require.NoError(t, os.Mkdir(filepath.Join(in, "nested"), 0o755))

	var buf bytes.Buffer
	stats, err := newRunner(t, dispatch.Default(), &buf).Run(in, format.JSON)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Converted)
	assert.Equal(t, 2, stats.Skipped)
	assert.Zero(t, stats.Failed)
	assert.Contains(t, buf.String(), "unsupported extension")

	// No csv alias in the name, so the destination alias is appended.
	assert.DirExists(t, filepath.Join(root, "Exports json"))
}

func TestRunDirectoryInputFilter(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "mixed")
	writeFiles(t, in, "a.csv", "b.tsv", "c.json")

	var buf bytes.Buffer
	r := newRunner(t, dispatch.Default(), &buf)
	r.InputFormat = format.JSON
	stats, err := r.Run(in, format.Parquet)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Converted)
	assert.Equal(t, 2, stats.Skipped)
}

func TestRunDirectoryTSVToCSV(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "sales tsv")
	writeFiles(t, in, "a.tsv", "b.tsv")

	var buf bytes.Buffer
	stats, err := newRunner(t, dispatch.Default(), &buf).Run(in, format.CSV)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Converted)
	assert.Zero(t, stats.Failed)
	for _, name := range []string{"a.csv", "b.csv"} {
		data, err := os.ReadFile(filepath.Join(root, "sales csv", name))
		require.NoError(t, err)
		assert.Equal(t, sampleCSV, string(data))
	}
}

func TestRunDirectoryWarnsWhenOutputIsInput(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "json_data")
	writeFiles(t, in, "a.json", "b.json", "c.csv")

	var buf bytes.Buffer
	stats, err := newRunner(t, dispatch.Default(), &buf).Run(in, format.JSON)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Converted)
	assert.Equal(t, 2, stats.Skipped)
	assert.FileExists(t, filepath.Join(in, "c.json"))
	assert.Contains(t, buf.String(), "output directory is the input directory")
}

func TestRunFileTSVToCSV(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "data.tsv")

	var buf bytes.Buffer
	stats, err := newRunner(t, dispatch.Default(), &buf).Run(filepath.Join(dir, "data.tsv"), format.CSV)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Converted)

	data, err := os.ReadFile(filepath.Join(dir, "data.csv"))
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "data.csv")
	src := filepath.Join(dir, "data.csv")

	var buf bytes.Buffer
	r := newRunner(t, dispatch.Default(), &buf)

	stats, err := r.Run(src, format.JSON)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Converted)
	assert.FileExists(t, filepath.Join(dir, "data.json"))

	_, err = r.Run(src, format.JSON)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "data_1.json"))
}

func TestRunFileSelfConversion(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "data.csv")

	var buf bytes.Buffer
	stats, err := newRunner(t, dispatch.Default(), &buf).Run(filepath.Join(dir, "data.csv"), format.CSV)
	require.ErrorIs(t, err, ErrSelfConversion)
	assert.Equal(t, 1, stats.Skipped)
}

func TestRunFileMissingDelimiter(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "data.csv")

	var buf bytes.Buffer
	_, err := newRunner(t, dispatch.Default(), &buf).Run(filepath.Join(dir, "data.csv"), format.TXT)
	require.ErrorIs(t, err, dispatch.ErrMissingOption)
	assert.NoFileExists(t, filepath.Join(dir, "data.txt"))
}

func TestScanOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.csv", "a.csv", "c.parquet")

	items, isDir, err := Scan(dir, format.Unknown, format.Parquet)
	require.NoError(t, err)
	require.True(t, isDir)
	require.Len(t, items, 3)
	assert.Equal(t, "a.csv", filepath.Base(items[0].Path))
	assert.Equal(t, "b.csv", filepath.Base(items[1].Path))
	assert.Equal(t, "already parquet", items[2].Skip)
}
