package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/segmentio/encoding/json"
	"go.yaml.in/yaml/v3"

	"github.com/vegasq/datatad/reader"
)

// SchemaFormats lists the formats accepted by NewSchemaFormatter.
var SchemaFormats = []string{"table", "json", "yaml"}

// SchemaFormatter prints column metadata.
type SchemaFormatter struct {
	writer io.Writer
	format string
}

// NewSchemaFormatter creates a schema formatter for one of SchemaFormats.
func NewSchemaFormatter(w io.Writer, format string) (*SchemaFormatter, error) {
	switch format {
	case "table", "json", "yaml":
		return &SchemaFormatter{writer: w, format: format}, nil
	default:
		return nil, fmt.Errorf("unsupported schema format %q (supported: table, json, yaml)", format)
	}
}

// SetOutput sets the output writer
func (s *SchemaFormatter) SetOutput(w io.Writer) {
	s.writer = w
}

// Format writes infos in the configured format.
func (s *SchemaFormatter) Format(infos []reader.SchemaInfo) error {
	switch s.format {
	case "json":
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(s.writer, "%s\n", data)
		return err
	case "yaml":
		enc := yaml.NewEncoder(s.writer)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tablewriter.NewWriter(s.writer)
		tw.SetHeader([]string{"Column", "Type", "Physical", "Logical", "Nullable"})
		tw.SetAutoFormatHeaders(false)
		for _, info := range infos {
			tw.Append([]string{
				info.Name,
				info.Type,
				info.PhysicalType,
				info.LogicalType,
				strconv.FormatBool(info.Nullable),
			})
		}
		tw.Render()
		return nil
	}
}
