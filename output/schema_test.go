package output

import (
	"bytes"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/vegasq/datatad/reader"
)

var sampleInfos = []reader.SchemaInfo{
	{Name: "id", Type: "BIGINT", PhysicalType: "INT64"},
	{Name: "name", Type: "VARCHAR", PhysicalType: "BYTE_ARRAY", LogicalType: "STRING", Nullable: true},
}

func TestSchemaFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewSchemaFormatter(&buf, "table")
	require.NoError(t, err)
	require.NoError(t, f.Format(sampleInfos))

	out := buf.String()
	for _, want := range []string{"Column", "Nullable", "id", "BIGINT", "VARCHAR", "STRING"} {
		assert.Contains(t, out, want)
	}
}

func TestSchemaFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewSchemaFormatter(&buf, "json")
	require.NoError(t, err)
	require.NoError(t, f.Format(sampleInfos))

	var back []reader.SchemaInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, sampleInfos, back)
}

func TestSchemaFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewSchemaFormatter(&buf, "yaml")
	require.NoError(t, err)
	require.NoError(t, f.Format(sampleInfos))

	var back []reader.SchemaInfo
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, sampleInfos, back)
	assert.Contains(t, buf.String(), "- name: id\n")
}

func TestSchemaFormatter_Unsupported(t *testing.T) {
	_, err := NewSchemaFormatter(&bytes.Buffer{}, "xml")
	assert.ErrorContains(t, err, "unsupported schema format")
}
