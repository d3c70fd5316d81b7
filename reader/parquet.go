package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/segmentio/parquet-go"

	"github.com/vegasq/datatad/table"
)

// ParquetReader reads parquet files into tables.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type ParquetReader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewParquetReader opens path and validates it as a parquet file.
//
// Example:
//
//	r, err := NewParquetReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewParquetReader(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &ParquetReader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// leaf describes how values of one leaf column become table values.
type leaf struct {
	typ      table.Type
	logical  string
	repeated bool
}

// ReadAll reads every row group into a table whose columns follow the
// file's leaf column order. Nested leaves are named with dot notation.
func (r *ParquetReader) ReadAll() (*table.Table, error) {
	schema := r.pqFile.Schema()
	paths := schema.Columns()

	t := &table.Table{Columns: make([]table.Column, len(paths))}
	leaves := make([]leaf, len(paths))
	for i, path := range paths {
		col, ok := schema.Lookup(path...)
		if !ok {
			return nil, fmt.Errorf("column %s missing from schema", strings.Join(path, "."))
		}
		leaves[i] = describeLeaf(col.Node, col.MaxRepetitionLevel > 0)
		t.Columns[i] = table.Column{Name: strings.Join(path, "."), Type: leaves[i].typ}
	}

	pr := parquet.NewReader(r.pqFile)
	defer func() { _ = pr.Close() }()

	buf := make([]parquet.Row, 256)
	for {
		n, err := pr.ReadRows(buf)
		for _, row := range buf[:n] {
			t.Rows = append(t.Rows, convertRow(row, leaves))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return t, nil
}

// Schema returns the parquet file schema.
func (r *ParquetReader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close closes the underlying file. It is safe to call Close multiple
// times.
func (r *ParquetReader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// ReadParquet reads a whole parquet file.
func ReadParquet(path string) (*table.Table, error) {
	r, err := NewParquetReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.ReadAll()
}

func describeLeaf(node parquet.Node, repeated bool) leaf {
	l := leaf{typ: table.Text, repeated: repeated}
	if node.Type() == nil {
		return l
	}
	if lt := node.Type().LogicalType(); lt != nil {
		l.logical = lt.String()
	}
	if repeated {
		return l
	}

	switch node.Type().Kind() {
	case parquet.Boolean:
		l.typ = table.Boolean
	case parquet.Int32:
		l.typ = table.Integer
		if l.logical == "DATE" {
			l.typ = table.Date
		}
	case parquet.Int64:
		l.typ = table.Integer
		if strings.HasPrefix(l.logical, "TIMESTAMP") {
			l.typ = table.Timestamp
		}
	case parquet.Float, parquet.Double:
		l.typ = table.Float
	}
	return l
}

func convertRow(row parquet.Row, leaves []leaf) []any {
	out := make([]any, len(leaves))
	var lists map[int][]string
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(leaves) {
			continue
		}
		l := leaves[col]
		if l.repeated {
			if v.IsNull() {
				continue
			}
			if lists == nil {
				lists = make(map[int][]string)
			}
			lists[col] = append(lists[col], table.FormatValue(convertValue(v, leaf{}), table.Text))
			continue
		}
		if v.IsNull() {
			continue
		}
		out[col] = convertValue(v, l)
	}
	for col, items := range lists {
		out[col] = "[" + strings.Join(items, ", ") + "]"
	}
	return out
}

func convertValue(v parquet.Value, l leaf) any {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		if l.typ == table.Date {
			return time.Unix(int64(v.Int32())*86400, 0).UTC()
		}
		return int64(v.Int32())
	case parquet.Int64:
		if l.typ == table.Timestamp {
			return timestampOf(v.Int64(), l.logical)
		}
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

func timestampOf(n int64, logical string) time.Time {
	switch {
	case strings.Contains(logical, "NANOS"):
		return time.Unix(0, n).UTC()
	case strings.Contains(logical, "MICROS"):
		return time.UnixMicro(n).UTC()
	default:
		return time.UnixMilli(n).UTC()
	}
}
