package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vegasq/datatad/paths"
	"github.com/vegasq/datatad/table"
)

// WorkbookRowMargin keeps room below the sheet limit for the header row.
const WorkbookRowMargin = 100

// DefaultWorkbookRows is the largest number of data rows written to one
// workbook before the output is split into parts.
const DefaultWorkbookRows = excelize.TotalRows - WorkbookRowMargin

const sheetName = "Sheet1"

// WriteWorkbook writes t to an xlsx file at path and returns the files it
// created.
//
// When t has more than maxRows rows the output is split into
// stem_1.xlsx, stem_2.xlsx, ... next to path, each holding at most maxRows
// rows under its own header. A part name that is already taken gets a
// further numeric suffix. maxRows <= 0 selects DefaultWorkbookRows.
func WriteWorkbook(path string, t *table.Table, maxRows int) ([]string, error) {
	if maxRows <= 0 || maxRows > DefaultWorkbookRows {
		maxRows = DefaultWorkbookRows
	}

	if t.Len() <= maxRows {
		if err := writeSheet(path, t, t.Rows); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	var written []string
	for part, start := 1, 0; start < t.Len(); part, start = part+1, start+maxRows {
		end := min(start+maxRows, t.Len())
		partPath := paths.NextFree(fmt.Sprintf("%s_%d%s", stem, part, ext))
		if err := writeSheet(partPath, t, t.Rows[start:end]); err != nil {
			return written, fmt.Errorf("part %d: %w", part, err)
		}
		written = append(written, partPath)
	}
	return written, nil
}

func writeSheet(path string, t *table.Table, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet writer: %w", err)
	}

	header := make([]any, t.Width())
	for i, name := range t.Names() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	values := make([]any, t.Width())
	for r, row := range rows {
		for i, col := range t.Columns {
			values[i] = cellValue(row[i], col.Type)
		}
		ref, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(ref, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// cellValue keeps numbers and booleans native and renders dates as ISO
// text so they read back unambiguously.
func cellValue(v any, typ table.Type) any {
	if ts, ok := v.(time.Time); ok {
		return table.FormatValue(ts, typ)
	}
	return v
}
