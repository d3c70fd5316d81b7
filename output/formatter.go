// Package output provides writers for the formats datatad produces.
//
// Currently supported formats:
//   - Delimited text: header row plus one record per row, any delimiter
//   - JSON Lines: One JSON object per line
//   - Parquet: one optional leaf column per table column
//   - xlsx workbooks (see WriteWorkbook)
//
// Example usage:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//	if err := formatter.Format(t); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"io"

	"github.com/vegasq/datatad/table"
)

// Formatter defines the interface for streaming output formatters.
//
// Implementers must provide Format to convert a table to the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *table.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
