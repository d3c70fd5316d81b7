package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vegasq/datatad/table"
)

// DelimitedFormatter outputs tables as delimited text with a header row
type DelimitedFormatter struct {
	writer    io.Writer
	delimiter rune
}

// NewCSVFormatter creates a comma-separated formatter
func NewCSVFormatter(w io.Writer) *DelimitedFormatter {
	return NewDelimitedFormatter(w, ',')
}

// NewTSVFormatter creates a tab-separated formatter
func NewTSVFormatter(w io.Writer) *DelimitedFormatter {
	return NewDelimitedFormatter(w, '\t')
}

// NewDelimitedFormatter creates a formatter using delimiter between fields
func NewDelimitedFormatter(w io.Writer, delimiter rune) *DelimitedFormatter {
	return &DelimitedFormatter{writer: w, delimiter: delimiter}
}

// SetOutput sets the output writer
func (d *DelimitedFormatter) SetOutput(w io.Writer) {
	d.writer = w
}

// Format writes the header and every row in column order. Nulls are
// written as empty fields.
func (d *DelimitedFormatter) Format(t *table.Table) error {
	csvWriter := csv.NewWriter(d.writer)
	csvWriter.Comma = d.delimiter

	if t.Width() == 0 {
		csvWriter.Flush()
		return csvWriter.Error()
	}

	if err := csvWriter.Write(t.Names()); err != nil {
		return err
	}

	record := make([]string, t.Width())
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = table.FormatValue(row[i], col.Type)
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	// Flush and check for errors
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush delimited writer: %w", err)
	}

	return nil
}
