package reader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vegasq/datatad/table"
)

// ReadJSON reads either a top-level array of objects or newline-delimited
// objects. Columns appear in the order their keys are first seen; rows
// missing a key get a null. Nested objects and arrays are kept as their
// JSON text.
func ReadJSON(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return readJSON(file)
}

type jsonRecords struct {
	index map[string]int
	names []string
	rows  []map[int]any
}

func readJSON(r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()

	recs := &jsonRecords{index: make(map[string]int)}

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &table.Table{}, nil
		}
		return nil, fmt.Errorf("failed to read json: %w", err)
	}

	switch tok {
	case json.Delim('['):
		for dec.More() {
			if err := expectDelim(dec, '{'); err != nil {
				return nil, err
			}
			if err := recs.readObject(dec); err != nil {
				return nil, err
			}
		}
		if err := expectDelim(dec, ']'); err != nil {
			return nil, err
		}
	case json.Delim('{'):
		if err := recs.readObject(dec); err != nil {
			return nil, err
		}
		for {
			err := expectDelim(dec, '{')
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, err
			}
			if err := recs.readObject(dec); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("expected a json array or object, got %v", tok)
	}

	return recs.table(), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("failed to read json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q in json input, got %v", want, tok)
	}
	return nil
}

// readObject consumes the members of an object whose opening brace has
// already been read, including the closing brace.
func (j *jsonRecords) readObject(dec *json.Decoder) error {
	row := make(map[int]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read json key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected json key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to read value of %q: %w", key, err)
		}
		value, err := jsonValue(raw)
		if err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}

		idx, seen := j.index[key]
		if !seen {
			idx = len(j.names)
			j.index[key] = idx
			j.names = append(j.names, key)
		}
		row[idx] = value
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	j.rows = append(j.rows, row)
	return nil
}

func jsonValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case 'n':
		return nil, nil
	case 't':
		return true, nil
	case 'f':
		return false, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return s, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return nil, err
		}
		return buf.String(), nil
	default:
		n := json.Number(trimmed)
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		return n.Float64()
	}
}

// table settles one type per column: integers widen to floats when mixed
// with them, and any other mix is rendered as text.
func (j *jsonRecords) table() *table.Table {
	t := table.New(j.names...)
	t.Rows = make([][]any, len(j.rows))
	for r, rec := range j.rows {
		row := make([]any, len(j.names))
		for idx, v := range rec {
			row[idx] = v
		}
		t.Rows[r] = row
	}

	for i := range t.Columns {
		t.Columns[i].Type = settleType(t, i)
	}
	return t
}

func settleType(t *table.Table, col int) table.Type {
	var ints, floats, bools, texts int
	for _, row := range t.Rows {
		switch row[col].(type) {
		case int64:
			ints++
		case float64:
			floats++
		case bool:
			bools++
		case string:
			texts++
		}
	}

	switch {
	case texts == 0 && bools == 0 && floats == 0 && ints > 0:
		return table.Integer
	case texts == 0 && bools == 0 && floats > 0:
		for _, row := range t.Rows {
			if i, ok := row[col].(int64); ok {
				row[col] = float64(i)
			}
		}
		return table.Float
	case texts == 0 && ints == 0 && floats == 0 && bools > 0:
		return table.Boolean
	default:
		for _, row := range t.Rows {
			if row[col] != nil {
				if _, ok := row[col].(string); !ok {
					row[col] = table.FormatValue(row[col], table.Text)
				}
			}
		}
		return table.Text
	}
}
