package output

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/datatad/table"
)

// JSONFormatter outputs tables as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row. Keys follow column order, which
// an encoded map would not preserve.
func (j *JSONFormatter) Format(t *table.Table) error {
	bw := bufio.NewWriter(j.writer)

	keys := make([][]byte, t.Width())
	for i, name := range t.Names() {
		k, err := json.Marshal(name)
		if err != nil {
			return fmt.Errorf("failed to encode column name %q: %w", name, err)
		}
		keys[i] = k
	}

	for _, row := range t.Rows {
		_ = bw.WriteByte('{')
		for i, col := range t.Columns {
			if i > 0 {
				_ = bw.WriteByte(',')
			}
			_, _ = bw.Write(keys[i])
			_ = bw.WriteByte(':')

			v, err := json.Marshal(jsonValue(row[i], col.Type))
			if err != nil {
				return fmt.Errorf("failed to encode column %q: %w", col.Name, err)
			}
			_, _ = bw.Write(v)
		}
		_, _ = bw.WriteString("}\n")
	}

	return bw.Flush()
}

func jsonValue(v any, typ table.Type) any {
	if ts, ok := v.(time.Time); ok {
		return table.FormatValue(ts, typ)
	}
	return v
}
