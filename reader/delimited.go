package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vegasq/datatad/table"
)

// sniffCandidates are the delimiters considered when none is given.
var sniffCandidates = []rune{',', '\t', ';', '|'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DelimitedOptions controls how delimited text is read.
type DelimitedOptions struct {
	// Delimiter separates fields. Zero means sniff it from the header line.
	Delimiter rune

	// Sample is the number of rows used to guess column types. Zero uses
	// table.DefaultSample; a negative value leaves every column as text.
	Sample int
}

// ReadDelimited reads a delimited text file whose first line is a header.
//
// Empty fields become nulls and column types are guessed from the leading
// rows, the way an auto-detecting CSV reader does.
func ReadDelimited(path string, opts DelimitedOptions) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return readDelimited(file, opts)
}

func readDelimited(r io.Reader, opts DelimitedOptions) (*table.Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(br)
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &table.Table{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := table.New(headerNames(header)...)
	for {
		record, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		row := make([]any, len(record))
		for i, field := range record {
			if field != "" {
				row[i] = field
			}
		}
		if err := t.Append(row); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	if opts.Sample >= 0 {
		sample := opts.Sample
		if sample == 0 {
			sample = table.DefaultSample
		}
		table.Infer(t, sample)
	}
	return t, nil
}

// sniffDelimiter picks the candidate that occurs most often, outside
// quotes, on the first line. Comma wins when nothing is found.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(64 * 1024)
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	counts := make(map[rune]int)
	quoted := false
	for _, r := range line {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[r]++
		}
	}

	best := ','
	for _, c := range sniffCandidates {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

// headerNames fills blank header cells and makes duplicate names unique.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column%d", i)
		}
		if n := seen[name]; n > 0 {
			seen[name]++
			name = fmt.Sprintf("%s_%d", name, n)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}
	return names
}
