package reader

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vegasq/datatad/table"
)

func createWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.xlsx")

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	rows := map[string][][]any{
		"Sheet1": {
			{"id", "name", nil},
			{1, "Alice", "x"},
			{2, nil, "y"},
		},
		"Totals": {
			{"skip", "skip", "skip"},
			{"region", "amount", "skip"},
			{"north", 10, "skip"},
			{"south", 20, "skip"},
		},
	}
	_, err := f.NewSheet("Totals")
	require.NoError(t, err)
	for sheet, data := range rows {
		for i, row := range data {
			ref, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, ref, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbookFirstSheet(t *testing.T) {
	tbl, err := ReadWorkbook(createWorkbook(t), WorkbookOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "C"}, tbl.Names())
	for _, c := range tbl.Columns {
		assert.Equal(t, table.Text, c.Type)
	}
	assert.Equal(t, [][]any{{"1", "Alice", "x"}, {"2", nil, "y"}}, tbl.Rows)
}

func TestReadWorkbookSheetAndRange(t *testing.T) {
	path := createWorkbook(t)

	for _, sheet := range []string{"Totals", "2"} {
		t.Run(sheet, func(t *testing.T) {
			tbl, err := ReadWorkbook(path, WorkbookOptions{Sheet: sheet, Range: "a2:B4"})
			require.NoError(t, err)
			assert.Equal(t, []string{"region", "amount"}, tbl.Names())
			assert.Equal(t, [][]any{{"north", "10"}, {"south", "20"}}, tbl.Rows)
		})
	}
}

func TestReadWorkbookErrors(t *testing.T) {
	path := createWorkbook(t)

	_, err := ReadWorkbook(path, WorkbookOptions{Sheet: "Nope"})
	assert.ErrorContains(t, err, "not found")

	_, err = ReadWorkbook(path, WorkbookOptions{Range: "A1"})
	assert.ErrorContains(t, err, "invalid range")

	_, err = ReadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), WorkbookOptions{})
	assert.Error(t, err)
}

func TestSheetNames(t *testing.T) {
	names, err := SheetNames(createWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Totals"}, names)
}

func TestReadWorkbookDatesAsISO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"born", "seen", "local", "clock"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", time.Date(1955, 3, 4, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", time.Date(1962, 7, 1, 12, 0, 0, 0, time.UTC)))

	code := "dd.mm.yyyy"
	custom, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "C2", 20152))
	require.NoError(t, f.SetCellStyle("Sheet1", "C2", "C2", custom))

	clock, err := f.NewStyle(&excelize.Style{NumFmt: 20})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "D2", 0.5))
	require.NoError(t, f.SetCellStyle("Sheet1", "D2", "D2", clock))

	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := ReadWorkbook(path, WorkbookOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "1955-03-04", tbl.Rows[0][0])
	assert.Equal(t, "1962-07-01 12:00:00", tbl.Rows[0][1])
	assert.Equal(t, "1955-03-04", tbl.Rows[0][2])
	assert.NotContains(t, tbl.Rows[0][3], "1899")
}

func TestIsDateFormat(t *testing.T) {
	for code, want := range map[string]bool{
		"yyyy-mm-dd":      true,
		"d/m/yy h:mm":     true,
		"h:mm:ss":         false,
		"0.00":            false,
		`"day "0`:         false,
		`[$-409]mmmm`:     false,
		`\d0`:             false,
		"[Red]dd.mm.yyyy": true,
		"General":         false,
	} {
		assert.Equal(t, want, isDateFormat(code), code)
	}
}
