package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultSample is the number of leading rows inspected when guessing a
// column type.
const DefaultSample = 1000

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
}

// candidates are tried in order; the first one every value satisfies wins.
var candidates = []Type{Boolean, Integer, Float, Date, Timestamp}

// InferType guesses the narrowest type all non-null text values fit.
// Columns with only nulls, or with any non-string value, stay Text.
func InferType(values []any) Type {
	var texts []string
	for _, v := range values {
		switch val := v.(type) {
		case nil:
		case string:
			texts = append(texts, val)
		default:
			return Text
		}
	}
	if len(texts) == 0 {
		return Text
	}

next:
	for _, typ := range candidates {
		for _, s := range texts {
			if _, err := Parse(s, typ); err != nil {
				continue next
			}
		}
		return typ
	}
	return Text
}

// Parse converts one text cell into the Go value for typ.
func Parse(s string, typ Type) (any, error) {
	trimmed := strings.TrimSpace(s)
	switch typ {
	case Text:
		return s, nil
	case Boolean:
		switch strings.ToLower(trimmed) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("not a boolean: %q", s)
	case Integer:
		if leadingZero(trimmed) {
			return nil, fmt.Errorf("integer with leading zero: %q", s)
		}
		return strconv.ParseInt(trimmed, 10, 64)
	case Float:
		if leadingZero(trimmed) || !strings.ContainsFunc(trimmed, unicode.IsDigit) {
			return nil, fmt.Errorf("not a number: %q", s)
		}
		return strconv.ParseFloat(trimmed, 64)
	case Date:
		return parseLayouts(trimmed, dateLayouts)
	case Timestamp:
		return parseLayouts(trimmed, timestampLayouts)
	default:
		return nil, fmt.Errorf("unknown type %v", typ)
	}
}

// Infer retypes every Text column of t whose values are all strings,
// guessing from the first sample rows. A column whose remaining rows do
// not fit the guess stays Text.
func Infer(t *Table, sample int) {
	if sample <= 0 || sample > len(t.Rows) {
		sample = len(t.Rows)
	}
	for i := range t.Columns {
		if t.Columns[i].Type != Text {
			continue
		}
		typ := InferType(t.Column(i)[:sample])
		if typ == Text {
			continue
		}
		if converted, ok := convertColumn(t, i, typ); ok {
			for r, v := range converted {
				t.Rows[r][i] = v
			}
			t.Columns[i].Type = typ
		}
	}
}

func convertColumn(t *Table, col int, typ Type) ([]any, bool) {
	out := make([]any, len(t.Rows))
	for r, row := range t.Rows {
		s, ok := row[col].(string)
		if !ok {
			if row[col] != nil {
				return nil, false
			}
			continue
		}
		v, err := Parse(s, typ)
		if err != nil {
			return nil, false
		}
		out[r] = v
	}
	return out, true
}

// leadingZero flags values like "007" that are identifiers rather than
// numbers.
func leadingZero(s string) bool {
	digits := strings.TrimLeft(s, "+-")
	return len(digits) > 1 && digits[0] == '0' && digits[1] != '.'
}

func parseLayouts(s string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %q", s)
}
