package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vegasq/datatad/table"
)

// affinity is the staging column declaration for each engine type. Types
// without a native sqlite representation are staged as text and parsed on
// the way out.
var affinity = map[table.Type]string{
	table.Text:      "TEXT",
	table.Integer:   "INTEGER",
	table.Float:     "REAL",
	table.Boolean:   "TEXT",
	table.Date:      "TEXT",
	table.Timestamp: "TEXT",
}

// Retype turns an all-text table into a typed one.
//
// A type is guessed per column from the leading rows and checked against
// the whole column; columns that do not fit stay text. The rows are then
// staged through a temporary table whose column affinities perform the
// numeric conversion, and read back. The staging table is dropped on every
// path. Columns that are already typed are passed through unchanged.
func (s *Session) Retype(t *table.Table) (*table.Table, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	types := make([]table.Type, t.Width())
	for i, col := range t.Columns {
		types[i] = col.Type
		if col.Type != table.Text {
			continue
		}
		values := t.Column(i)
		guess := table.InferType(values[:min(s.cfg.Sample, len(values))])
		if guess != table.Text && fits(values, guess) {
			types[i] = guess
		}
	}

	staged, err := s.stage(t, types)
	if err != nil {
		return nil, fmt.Errorf("failed to stage rows: %w", err)
	}

	out := &table.Table{Columns: make([]table.Column, t.Width()), Rows: staged}
	for i, col := range t.Columns {
		out.Columns[i] = table.Column{Name: col.Name, Type: types[i]}
		if col.Type != table.Text {
			for r, row := range out.Rows {
				row[i] = t.Rows[r][i]
			}
			continue
		}
		if types[i] == table.Text {
			continue
		}
		if !settle(out, i, t) {
			out.Columns[i].Type = table.Text
		}
	}
	return out, nil
}

// fits reports whether every non-null value parses as typ.
func fits(values []any, typ table.Type) bool {
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			if v != nil {
				return false
			}
			continue
		}
		if _, err := table.Parse(s, typ); err != nil {
			return false
		}
	}
	return true
}

func (s *Session) stage(t *table.Table, types []table.Type) ([][]any, error) {
	if t.Width() == 0 {
		return nil, nil
	}

	name := "stage_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	cols := make([]string, t.Width())
	decls := make([]string, t.Width())
	marks := make([]string, t.Width())
	for i, typ := range types {
		cols[i] = fmt.Sprintf("c%d", i)
		decls[i] = cols[i] + " " + affinity[typ]
		marks[i] = "?"
	}

	if _, err := s.db.Exec(fmt.Sprintf("CREATE TEMP TABLE %s (%s)", name, strings.Join(decls, ", "))); err != nil {
		return nil, err
	}
	defer func() { _, _ = s.db.Exec("DROP TABLE IF EXISTS " + name) }()

	if err := s.insert(name, marks, t, types); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([][]any, 0, t.Len())
	for rows.Next() {
		dest := make([]any, t.Width())
		ptrs := make([]any, t.Width())
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range dest {
			if b, ok := v.([]byte); ok {
				dest[i] = string(b)
			}
		}
		out = append(out, dest)
	}
	return out, rows.Err()
}

func (s *Session) insert(name string, marks []string, t *table.Table, types []table.Type) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, t.Width())
	for _, row := range t.Rows {
		for i, v := range row {
			args[i] = stagingArg(v, types[i])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// stagingArg trims numeric text so the column affinity can convert it.
func stagingArg(v any, typ table.Type) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if typ == table.Integer || typ == table.Float {
		return strings.TrimSpace(s)
	}
	return s
}

// settle converts the staged values of column col to Go values of the
// column type. It returns false, restoring the original text, when a value
// does not fit.
func settle(t *table.Table, col int, original *table.Table) bool {
	typ := t.Columns[col].Type
	converted := make([]any, t.Len())
	for r, row := range t.Rows {
		v, ok := settleValue(row[col], typ)
		if !ok {
			for r2, row2 := range t.Rows {
				row2[col] = original.Rows[r2][col]
			}
			return false
		}
		converted[r] = v
	}
	for r, row := range t.Rows {
		row[col] = converted[r]
	}
	return true
}

func settleValue(v any, typ table.Type) (any, bool) {
	if v == nil {
		return nil, true
	}
	switch typ {
	case table.Integer:
		i, ok := v.(int64)
		return i, ok
	case table.Float:
		switch f := v.(type) {
		case float64:
			return f, true
		case int64:
			return float64(f), true
		}
		return nil, false
	default:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		parsed, err := table.Parse(s, typ)
		if err != nil {
			return nil, false
		}
		return parsed, true
	}
}
