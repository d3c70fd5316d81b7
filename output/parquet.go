package output

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/segmentio/parquet-go"

	"github.com/vegasq/datatad/table"
)

// ParquetFormatter outputs tables as a single parquet file.
type ParquetFormatter struct {
	writer io.Writer
}

// NewParquetFormatter creates a new parquet formatter
func NewParquetFormatter(w io.Writer) *ParquetFormatter {
	return &ParquetFormatter{writer: w}
}

// SetOutput sets the output writer
func (p *ParquetFormatter) SetOutput(w io.Writer) {
	p.writer = w
}

// Format writes every row of t. Each column becomes an optional,
// snappy-compressed leaf typed after the column type, in table order.
func (p *ParquetFormatter) Format(t *table.Table) error {
	schema, err := ParquetSchema(t)
	if err != nil {
		return err
	}

	w := parquet.NewWriter(p.writer, schema)

	const batchSize = 1024
	batch := make([]parquet.Row, 0, batchSize)
	for r, row := range t.Rows {
		pqRow := make(parquet.Row, len(t.Columns))
		for i, col := range t.Columns {
			v, err := parquetValue(row[i], col.Type)
			if err != nil {
				_ = w.Close()
				return fmt.Errorf("row %d, column %q: %w", r+1, col.Name, err)
			}
			if row[i] == nil {
				pqRow[i] = v.Level(0, 0, i)
			} else {
				pqRow[i] = v.Level(0, 1, i)
			}
		}
		batch = append(batch, pqRow)
		if len(batch) == batchSize {
			if _, err := w.WriteRows(batch); err != nil {
				_ = w.Close()
				return fmt.Errorf("failed to write rows: %w", err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := w.WriteRows(batch); err != nil {
			_ = w.Close()
			return fmt.Errorf("failed to write rows: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ParquetSchema builds the parquet schema for t.
//
// parquet.Group sorts its fields by name, so the root is wrapped to report
// fields in table order instead.
func ParquetSchema(t *table.Table) (*parquet.Schema, error) {
	group := make(parquet.Group, t.Width())
	names := make([]string, 0, t.Width())
	for _, col := range t.Columns {
		if _, dup := group[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		group[col.Name] = parquet.Compressed(parquet.Optional(leafNode(col.Type)), &parquet.Snappy)
		names = append(names, col.Name)
	}
	return parquet.NewSchema("datatad", orderedGroup{Group: group, names: names}), nil
}

func leafNode(typ table.Type) parquet.Node {
	switch typ {
	case table.Integer:
		return parquet.Int(64)
	case table.Float:
		return parquet.Leaf(parquet.DoubleType)
	case table.Boolean:
		return parquet.Leaf(parquet.BooleanType)
	case table.Date:
		return parquet.Date()
	case table.Timestamp:
		return parquet.Timestamp(parquet.Microsecond)
	default:
		return parquet.String()
	}
}

func parquetValue(v any, typ table.Type) (parquet.Value, error) {
	if v == nil {
		return parquet.Value{}, nil
	}

	switch typ {
	case table.Integer:
		if i, ok := v.(int64); ok {
			return parquet.Int64Value(i), nil
		}
	case table.Float:
		switch f := v.(type) {
		case float64:
			return parquet.DoubleValue(f), nil
		case int64:
			return parquet.DoubleValue(float64(f)), nil
		}
	case table.Boolean:
		if b, ok := v.(bool); ok {
			return parquet.BooleanValue(b), nil
		}
	case table.Date:
		if ts, ok := v.(time.Time); ok {
			days := ts.Unix() / 86400
			if ts.Unix() < 0 && ts.Unix()%86400 != 0 {
				days--
			}
			return parquet.Int32Value(int32(days)), nil
		}
	case table.Timestamp:
		if ts, ok := v.(time.Time); ok {
			return parquet.Int64Value(ts.UnixMicro()), nil
		}
	default:
		return parquet.ByteArrayValue([]byte(table.FormatValue(v, typ))), nil
	}
	return parquet.Value{}, fmt.Errorf("cannot store %T as %s", v, typ)
}

type orderedGroup struct {
	parquet.Group
	names []string
}

func (g orderedGroup) Fields() []parquet.Field {
	fields := make([]parquet.Field, len(g.names))
	for i, name := range g.names {
		fields[i] = namedField{Node: g.Group[name], name: name}
	}
	return fields
}

type namedField struct {
	parquet.Node
	name string
}

func (f namedField) Name() string { return f.name }

func (f namedField) Value(base reflect.Value) reflect.Value {
	return base.MapIndex(reflect.ValueOf(f.name))
}
