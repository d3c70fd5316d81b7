package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/datatad/table"
)

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(sampleTable()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"id":1,"name":"alice","score":9.5,"ok":true,"day":"2024-01-02"}`, lines[0])
	assert.Equal(t, `{"id":2,"name":null,"score":7,"ok":false,"day":null}`, lines[1])

	for _, line := range lines {
		var v map[string]any
		assert.NoError(t, json.Unmarshal([]byte(line), &v))
	}
}

func TestJSONFormatter_KeyOrderIsColumnOrder(t *testing.T) {
	tbl := table.New("zeta", "alpha", "mid")
	require.NoError(t, tbl.Append([]any{"1", "2", "3"}))

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(tbl))
	assert.Equal(t, `{"zeta":"1","alpha":"2","mid":"3"}`+"\n", buf.String())
}

func TestJSONFormatter_EscapesNames(t *testing.T) {
	tbl := table.New(`say "hi"`)
	require.NoError(t, tbl.Append([]any{"a\nb"}))

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(tbl))
	assert.Equal(t, `{"say \"hi\"":"a\nb"}`+"\n", buf.String())
}

func TestJSONFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(table.New("a")))
	assert.Empty(t, buf.String())
}
