package reader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vegasq/datatad/table"
)

// WorkbookOptions selects what part of a workbook is read. Empty fields
// mean the first sheet and the whole used range.
type WorkbookOptions struct {
	// Sheet is a sheet name, or a 1-based sheet number when no sheet has
	// that name.
	Sheet string

	// Range is a cell range such as "A2:E7". Its first row is the header.
	Range string
}

// cellRange is a zero-based, inclusive rectangle.
type cellRange struct {
	col1, row1, col2, row2 int
}

// ReadWorkbook reads one sheet of an xlsx workbook with every cell as
// text. The first row of the selection names the columns and blank cells
// become nulls; typing the data is left to the caller.
func ReadWorkbook(path string, opts WorkbookOptions) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet, err := resolveSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	rng, err := selection(rows, opts.Range)
	if err != nil {
		return nil, err
	}
	if rng.row1 >= len(rows) || rng.col2 < rng.col1 {
		return &table.Table{}, nil
	}

	header := make([]string, rng.col2-rng.col1+1)
	for i := range header {
		name := strings.TrimSpace(cell(rows, rng.row1, rng.col1+i))
		if name == "" {
			name, _ = excelize.ColumnNumberToName(rng.col1 + i + 1)
		}
		header[i] = name
	}

	dates := newDateCells(f, sheet)
	t := table.New(headerNames(header)...)
	last := min(rng.row2, len(rows)-1)
	for r := rng.row1 + 1; r <= last; r++ {
		row := make([]any, len(header))
		for i := range header {
			if v := cell(rows, r, rng.col1+i); v != "" {
				row[i] = dates.text(r, rng.col1+i, v)
			}
		}
		if err := t.Append(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// SheetNames lists the sheets of a workbook in order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return f.GetSheetList(), nil
}

func resolveSheet(f *excelize.File, want string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if want == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == want {
			return s, nil
		}
	}
	if n, err := strconv.Atoi(want); err == nil && n >= 1 && n <= len(sheets) {
		return sheets[n-1], nil
	}
	return "", fmt.Errorf("sheet %q not found (available: %s)", want, strings.Join(sheets, ", "))
}

func selection(rows [][]string, ref string) (cellRange, error) {
	if ref == "" {
		width := 0
		for _, r := range rows {
			width = max(width, len(r))
		}
		return cellRange{0, 0, width - 1, len(rows) - 1}, nil
	}

	parts := strings.Split(strings.TrimSpace(ref), ":")
	if len(parts) != 2 {
		return cellRange{}, fmt.Errorf("invalid range %q: want TOPLEFT:BOTTOMRIGHT such as A1:D10", ref)
	}
	c1, r1, err := excelize.CellNameToCoordinates(strings.ToUpper(parts[0]))
	if err != nil {
		return cellRange{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	c2, r2, err := excelize.CellNameToCoordinates(strings.ToUpper(parts[1]))
	if err != nil {
		return cellRange{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	return cellRange{c1 - 1, r1 - 1, c2 - 1, r2 - 1}, nil
}

func cell(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) || c < 0 || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

// dateCells renders date-formatted cells as ISO text. The display text of
// the built-in date formats has two-digit years, which cannot be read back
// without guessing the century.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// text returns shown unchanged unless the cell at zero-based (r, c) holds a
// serial date under a date number format.
func (d *dateCells) text(r, c int, shown string) string {
	ref, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return shown
	}
	style, err := d.f.GetCellStyle(d.sheet, ref)
	if err != nil || !d.isDate(style) {
		return shown
	}
	raw, err := d.f.GetCellValue(d.sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return shown
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return shown
	}
	tm, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return shown
	}
	if tm.Hour() == 0 && tm.Minute() == 0 && tm.Second() == 0 && tm.Nanosecond() == 0 {
		return tm.Format(time.DateOnly)
	}
	return tm.Format(time.DateTime)
}

func (d *dateCells) isDate(style int) bool {
	if known, ok := d.styles[style]; ok {
		return known
	}
	date := false
	if s, err := d.f.GetStyle(style); err == nil {
		if s.CustomNumFmt != nil {
			date = isDateFormat(*s.CustomNumFmt)
		} else {
			date = builtinDateFormats[s.NumFmt]
		}
	}
	d.styles[style] = date
	return date
}

// builtinDateFormats are the built-in number formats with a day part.
// Time-only formats such as h:mm keep their display text.
var builtinDateFormats = map[int]bool{14: true, 15: true, 16: true, 17: true, 22: true}

// isDateFormat reports whether a custom number format code has a year or
// day part outside quoted literals, escapes and bracketed sections.
func isDateFormat(code string) bool {
	quoted, bracket, escaped := false, false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case quoted:
			quoted = r != '"'
		case bracket:
			bracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			quoted = true
		case r == '[':
			bracket = true
		case r == 'y' || r == 'd':
			return true
		}
	}
	return false
}
