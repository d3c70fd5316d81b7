// Package table holds the in-memory representation that every reader
// produces and every writer consumes.
//
// A Table keeps its columns in source order. Cell values are one of nil,
// string, int64, float64, bool or time.Time; the column Type says which
// one a non-nil cell holds.
package table

import (
	"fmt"
	"strconv"
	"time"
)

// Type is the engine type of a column.
type Type int

const (
	Text Type = iota
	Integer
	Float
	Boolean
	Date
	Timestamp
)

var typeNames = map[Type]string{
	Text:      "VARCHAR",
	Integer:   "BIGINT",
	Float:     "DOUBLE",
	Boolean:   "BOOLEAN",
	Date:      "DATE",
	Timestamp: "TIMESTAMP",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05.999999999"
)

// Column describes one column.
type Column struct {
	Name string
	Type Type
}

// Table is an ordered set of columns and the rows under them.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// New creates an empty table whose columns are all Text.
func New(names ...string) *Table {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Type: Text}
	}
	return &Table{Columns: cols}
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Append adds a row, padding it with nulls or rejecting it when it is
// wider than the table.
func (t *Table) Append(row []any) error {
	if len(row) > len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.Columns))
	}
	for len(row) < len(t.Columns) {
		row = append(row, nil)
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Column returns the values of column i.
func (t *Table) Column(i int) []any {
	out := make([]any, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// FormatValue renders v as text for formats without native types.
func FormatValue(v any, typ Type) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if typ == Date {
			return val.Format(DateLayout)
		}
		return val.Format(TimestampLayout)
	default:
		return fmt.Sprintf("%v", val)
	}
}
