// Package reader loads tabular files into memory as *table.Table values.
//
// One function exists per supported source format. Every reader keeps the
// column order of the file and returns cells as nil, string, int64,
// float64, bool or time.Time.
//
// # Delimited text
//
// ReadDelimited handles .csv, .tsv and .txt files. The header line names
// the columns. The delimiter is sniffed from the header unless given, and
// column types are guessed from the leading rows:
//
//	t, err := reader.ReadDelimited("sales.csv", reader.DelimitedOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # JSON
//
// ReadJSON accepts a top-level array of objects or newline-delimited
// objects:
//
//	t, err := reader.ReadJSON("events.json")
//
// # Parquet
//
// ReadParquet loads all row groups. DATE and TIMESTAMP logical types are
// returned as time.Time:
//
//	r, err := reader.NewParquetReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	t, err := r.ReadAll()
//
// # Workbooks
//
// ReadWorkbook reads one sheet of an xlsx file with every cell as text.
// A sheet name or number and a cell range may be given:
//
//	t, err := reader.ReadWorkbook("book.xlsx", reader.WorkbookOptions{
//	    Sheet: "Q1",
//	    Range: "A2:E40",
//	})
//
// # Schema Introspection
//
// Describe lists the columns of a table, and ExtractParquetSchema reads
// column metadata straight from a parquet footer:
//
//	infos, err := reader.ExtractParquetSchema("data.parquet")
//	for _, info := range infos {
//	    fmt.Printf("%s: %s\n", info.Name, info.Type)
//	}
//
// The package uses github.com/segmentio/parquet-go for parquet files and
// github.com/xuri/excelize/v2 for workbooks.
package reader
