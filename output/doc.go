// Package output provides writers for converting tables to the formats
// datatad produces.
//
// This package defines the Formatter interface and provides implementations
// for the streaming formats. All formatters work with *table.Table values,
// so column order and column types survive the write.
//
// # Supported Formats
//
//   - Delimited text: header row, then one record per row
//   - JSON Lines: One JSON object per line, keys in column order
//   - Parquet: optional, snappy-compressed leaf per column
//   - xlsx: see WriteWorkbook, which splits oversized tables into parts
//
// # Basic Usage
//
// Using the tab-separated formatter:
//
//	formatter := output.NewTSVFormatter(os.Stdout)
//	if err := formatter.Format(t); err != nil {
//	    log.Fatal(err)
//	}
//
// Writing parquet to a file:
//
//	file, err := os.Create("output.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Close()
//
//	if err := output.NewParquetFormatter(file).Format(t); err != nil {
//	    log.Fatal(err)
//	}
//
// Writing a workbook:
//
//	files, err := output.WriteWorkbook("report.xlsx", t, 0)
//
// # Formatter Interface
//
// Implement custom formatters by satisfying the Formatter interface:
//
//	type Formatter interface {
//	    Format(t *table.Table) error
//	    SetOutput(w io.Writer)
//	}
//
// # Type Handling
//
//   - Delimited text renders every value as text; nulls become empty fields
//   - JSON keeps numbers and booleans native; dates become ISO strings
//   - Parquet maps BIGINT, DOUBLE, BOOLEAN, DATE, TIMESTAMP and VARCHAR to
//     INT64, DOUBLE, BOOLEAN, DATE, TIMESTAMP(MICROS) and STRING
//
// # Schema Reports
//
// SchemaFormatter prints reader.SchemaInfo lists as a table, JSON or YAML.
package output
