package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/datatad/table"
)

func TestReadDelimitedSniffs(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"comma", "a,b\n1,x\n"},
		{"tab", "a\tb\n1\tx\n"},
		{"semicolon", "a;b\n1;x\n"},
		{"pipe", "a|b\n1|x\n"},
		{"quoted comma", "\"a,1\"|b\n1|x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := readDelimited(strings.NewReader(tt.input), DelimitedOptions{})
			require.NoError(t, err)
			require.Equal(t, 2, tbl.Width())
			assert.Equal(t, []any{int64(1), "x"}, tbl.Rows[0])
		})
	}
}

func TestReadDelimitedExplicitDelimiter(t *testing.T) {
	tbl, err := readDelimited(strings.NewReader("a;b,c\n1;2,3\n"), DelimitedOptions{Delimiter: ';', Sample: -1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b,c"}, tbl.Names())
	assert.Equal(t, []any{"1", "2,3"}, tbl.Rows[0])
}

func TestReadDelimitedBOMAndNulls(t *testing.T) {
	tbl, err := readDelimited(strings.NewReader("\xEF\xBB\xBFid,note\n1,\n2,hi\n"), DelimitedOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "note"}, tbl.Names())
	assert.Equal(t, [][]any{{int64(1), nil}, {int64(2), "hi"}}, tbl.Rows)
	assert.Equal(t, table.Integer, tbl.Columns[0].Type)
	assert.Equal(t, table.Text, tbl.Columns[1].Type)
}

func TestReadDelimitedHeaderNames(t *testing.T) {
	tbl, err := readDelimited(strings.NewReader("a,,a,a\n1,2,3,4\n"), DelimitedOptions{Sample: -1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "column1", "a_1", "a_2"}, tbl.Names())
}

func TestReadDelimitedShortRowsPadded(t *testing.T) {
	tbl, err := readDelimited(strings.NewReader("a,b,c\n1\n"), DelimitedOptions{Sample: -1})
	require.NoError(t, err)
	assert.Equal(t, []any{"1", nil, nil}, tbl.Rows[0])
}

func TestReadDelimitedWideRowFails(t *testing.T) {
	_, err := readDelimited(strings.NewReader("a\n1,2\n"), DelimitedOptions{})
	assert.Error(t, err)
}

func TestReadDelimitedEmpty(t *testing.T) {
	tbl, err := readDelimited(strings.NewReader(""), DelimitedOptions{})
	require.NoError(t, err)
	assert.Zero(t, tbl.Width())
}

func TestReadDelimitedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.tsv")
	require.NoError(t, os.WriteFile(path, []byte("x\ty\n1.5\ttrue\n"), 0o644))

	tbl, err := ReadDelimited(path, DelimitedOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, true}, tbl.Rows[0])

	_, err = ReadDelimited(filepath.Join(t.TempDir(), "missing.csv"), DelimitedOptions{})
	assert.Error(t, err)
}
