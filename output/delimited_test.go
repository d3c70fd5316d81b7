package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/datatad/table"
)

func sampleTable() *table.Table {
	return &table.Table{
		Columns: []table.Column{
			{Name: "id", Type: table.Integer},
			{Name: "name", Type: table.Text},
			{Name: "score", Type: table.Float},
			{Name: "ok", Type: table.Boolean},
			{Name: "day", Type: table.Date},
		},
		Rows: [][]any{
			{int64(1), "alice", 9.5, true, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			{int64(2), nil, 7.0, false, nil},
		},
	}
}

func TestDelimitedFormatter_Format(t *testing.T) {
	tests := []struct {
		name      string
		table     *table.Table
		wantLines int
	}{
		{
			name:      "no columns",
			table:     &table.Table{},
			wantLines: 0,
		},
		{
			name:      "header only",
			table:     table.New("a", "b"),
			wantLines: 1,
		},
		{
			name:      "rows",
			table:     sampleTable(),
			wantLines: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVFormatter(&buf).Format(tt.table))

			records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
			require.NoError(t, err)
			assert.Len(t, records, tt.wantLines)
		})
	}
}

func TestDelimitedFormatter_ColumnOrderAndValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).Format(sampleTable()))

	assert.Equal(t,
		"id,name,score,ok,day\n"+
			"1,alice,9.5,true,2024-01-02\n"+
			"2,,7,false,\n",
		buf.String())
}

func TestDelimitedFormatter_Delimiters(t *testing.T) {
	tbl := table.New("a", "b")
	require.NoError(t, tbl.Append([]any{"x;y", "z"}))

	var tsv bytes.Buffer
	require.NoError(t, NewTSVFormatter(&tsv).Format(tbl))
	assert.Equal(t, "a\tb\nx;y\tz\n", tsv.String())

	var semi bytes.Buffer
	require.NoError(t, NewDelimitedFormatter(&semi, ';').Format(tbl))
	assert.Equal(t, "a;b\n\"x;y\";z\n", semi.String())
}

func TestDelimitedFormatter_SetOutput(t *testing.T) {
	f := NewCSVFormatter(nil)
	var buf bytes.Buffer
	f.SetOutput(&buf)
	require.NoError(t, f.Format(table.New("only")))
	assert.Equal(t, "only\n", buf.String())
}

func TestDelimitedFormatter_KeepsFormulaText(t *testing.T) {
	tbl := table.New("cell")
	require.NoError(t, tbl.Append([]any{"=SUM(A1:A2)"}))

	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).Format(tbl))
	assert.Equal(t, "cell\n=SUM(A1:A2)\n", buf.String())
}
