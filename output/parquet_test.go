package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/datatad/reader"
	"github.com/vegasq/datatad/table"
)

func writeParquetFile(t *testing.T, tbl *table.Table) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, NewParquetFormatter(f).Format(tbl))
	require.NoError(t, f.Close())
	return path
}

func TestParquetFormatter_RoundTrip(t *testing.T) {
	in := sampleTable()
	in.Columns = append(in.Columns, table.Column{Name: "at", Type: table.Timestamp})
	at := time.Date(2024, 5, 6, 7, 8, 9, 123000000, time.UTC)
	in.Rows[0] = append(in.Rows[0], at)
	in.Rows[1] = append(in.Rows[1], nil)

	out, err := reader.ReadParquet(writeParquetFile(t, in))
	require.NoError(t, err)

	assert.Equal(t, in.Columns, out.Columns)
	assert.Equal(t, in.Rows, out.Rows)
}

func TestParquetFormatter_PreservesColumnOrder(t *testing.T) {
	tbl := table.New("zeta", "alpha", "mid")
	require.NoError(t, tbl.Append([]any{"z", "a", "m"}))

	path := writeParquetFile(t, tbl)
	infos, err := reader.ExtractParquetSchema(path)
	require.NoError(t, err)

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
		assert.True(t, info.Nullable)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)

	out, err := reader.ReadParquet(path)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"z", "a", "m"}}, out.Rows)
}

func TestParquetFormatter_LogicalTypes(t *testing.T) {
	infos, err := reader.ExtractParquetSchema(writeParquetFile(t, sampleTable()))
	require.NoError(t, err)

	got := map[string]string{}
	for _, info := range infos {
		got[info.Name] = info.Type
	}
	assert.Equal(t, map[string]string{
		"id":    "BIGINT",
		"name":  "VARCHAR",
		"score": "DOUBLE",
		"ok":    "BOOLEAN",
		"day":   "DATE",
	}, got)
}

func TestParquetSchema_DuplicateNames(t *testing.T) {
	tbl := &table.Table{Columns: []table.Column{{Name: "a"}, {Name: "a"}}}
	_, err := ParquetSchema(tbl)
	assert.ErrorContains(t, err, "duplicate column name")
}

func TestParquetFormatter_RejectsMismatchedValue(t *testing.T) {
	tbl := &table.Table{
		Columns: []table.Column{{Name: "n", Type: table.Integer}},
		Rows:    [][]any{{"not a number"}},
	}
	path := filepath.Join(t.TempDir(), "bad.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	err = NewParquetFormatter(f).Format(tbl)
	assert.ErrorContains(t, err, `column "n"`)
}

func TestParquetValue_DatesBeforeEpoch(t *testing.T) {
	v, err := parquetValue(time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC), table.Date)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v.Int32())
}
