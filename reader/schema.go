package reader

import (
	"fmt"

	"github.com/segmentio/parquet-go"

	"github.com/vegasq/datatad/table"
)

// SchemaInfo represents metadata about a single column.
//
// Type is the engine type every format shares. PhysicalType and
// LogicalType are only filled in for parquet files.
type SchemaInfo struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	PhysicalType string `json:"physical_type,omitempty" yaml:"physical_type,omitempty"`
	LogicalType  string `json:"logical_type,omitempty" yaml:"logical_type,omitempty"`
	Nullable     bool   `json:"nullable" yaml:"nullable"`
	Repeated     bool   `json:"repeated,omitempty" yaml:"repeated,omitempty"`
}

// Describe lists the columns of a table that has already been read.
// A column is nullable when any of its cells is null.
func Describe(t *table.Table) []SchemaInfo {
	infos := make([]SchemaInfo, len(t.Columns))
	for i, c := range t.Columns {
		nullable := false
		for _, row := range t.Rows {
			if row[i] == nil {
				nullable = true
				break
			}
		}
		infos[i] = SchemaInfo{Name: c.Name, Type: c.Type.String(), Nullable: nullable}
	}
	return infos
}

// ExtractParquetSchema reads column metadata from a parquet file footer
// without loading any rows.
//
// For nested types, field names use dot notation (e.g., "address.street").
func ExtractParquetSchema(path string) ([]SchemaInfo, error) {
	r, err := NewParquetReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var infos []SchemaInfo
	for _, field := range r.Schema().Fields() {
		infos = append(infos, fieldInfo(field, "", false)...)
	}
	return infos, nil
}

// fieldInfo recursively extracts leaf column information, tracking whether
// any parent field is repeated.
func fieldInfo(field parquet.Field, prefix string, parentRepeated bool) []SchemaInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		var infos []SchemaInfo
		for _, child := range children {
			infos = append(infos, fieldInfo(child, name, repeated)...)
		}
		return infos
	}

	l := describeLeaf(field, repeated)
	return []SchemaInfo{{
		Name:         name,
		Type:         l.typ.String(),
		PhysicalType: physicalType(field),
		LogicalType:  l.logical,
		Nullable:     field.Optional(),
		Repeated:     repeated,
	}}
}

func physicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", field.Type().Kind())
	}
}
