package dispatch

import (
	"fmt"

	"github.com/vegasq/datatad/engine"
	"github.com/vegasq/datatad/format"
	"github.com/vegasq/datatad/table"
)

type readFunc func(s *engine.Session, src string, opts Options) (*table.Table, error)

type writeFunc func(s *engine.Session, dst string, t *table.Table, opts Options) error

// passThrough reads with one engine reader and writes with one engine
// writer. Rows are not transformed.
type passThrough struct {
	read  readFunc
	write writeFunc
	needs func(opts Options) error
}

func (p passThrough) Convert(s *engine.Session, src, dst string, opts Options) error {
	if p.needs != nil {
		if err := p.needs(opts); err != nil {
			return err
		}
	}
	t, err := p.read(s, src, opts)
	if err != nil {
		return err
	}
	return p.write(s, dst, t, opts)
}

// typedWorkbook exports a workbook to a typed format in two stages.
//
// Workbook cells are read as text so that mixed columns are never coerced
// by a guess made on the first cells. The table therefore starts in the
// raw-text state; Retype moves it to the typed state, and only then is it
// written.
type typedWorkbook struct {
	write writeFunc
}

func (w typedWorkbook) Convert(s *engine.Session, src, dst string, opts Options) error {
	raw, err := s.ReadWorkbook(src, opts.Workbook())
	if err != nil {
		return err
	}

	typed, err := s.Retype(raw)
	if err != nil {
		return &engine.Error{Op: engine.OpRead, Path: src, Err: err}
	}

	return w.write(s, dst, typed, opts)
}

func readDelimited(s *engine.Session, src string, _ Options) (*table.Table, error) {
	return s.ReadDelimited(src, 0)
}

func readJSON(s *engine.Session, src string, _ Options) (*table.Table, error) {
	return s.ReadJSON(src)
}

func readParquet(s *engine.Session, src string, _ Options) (*table.Table, error) {
	return s.ReadParquet(src)
}

func readWorkbookText(s *engine.Session, src string, opts Options) (*table.Table, error) {
	return s.ReadWorkbook(src, opts.Workbook())
}

func writeCSV(s *engine.Session, dst string, t *table.Table, _ Options) error {
	return s.WriteDelimited(dst, t, ',')
}

func writeTSV(s *engine.Session, dst string, t *table.Table, _ Options) error {
	return s.WriteDelimited(dst, t, '\t')
}

func writeTXT(s *engine.Session, dst string, t *table.Table, opts Options) error {
	return s.WriteDelimited(dst, t, opts.Delimiter)
}

func writeJSON(s *engine.Session, dst string, t *table.Table, _ Options) error {
	return s.WriteJSON(dst, t)
}

func writeParquet(s *engine.Session, dst string, t *table.Table, _ Options) error {
	return s.WriteParquet(dst, t)
}

func writeWorkbook(s *engine.Session, dst string, t *table.Table, _ Options) error {
	_, err := s.WriteWorkbook(dst, t)
	return err
}

func needDelimiter(opts Options) error {
	if opts.Delimiter == 0 {
		return fmt.Errorf("%w: txt output needs a delimiter", ErrMissingOption)
	}
	return nil
}

var writers = map[format.Token]writeFunc{
	format.CSV:     writeCSV,
	format.TSV:     writeTSV,
	format.TXT:     writeTXT,
	format.JSON:    writeJSON,
	format.Parquet: writeParquet,
	format.Excel:   writeWorkbook,
}

// builtin registers the twenty strategies: every source to every other
// destination.
func builtin() *Registry {
	r := NewRegistry()

	readers := map[format.Token]readFunc{
		format.CSV:     readDelimited,
		format.JSON:    readJSON,
		format.Parquet: readParquet,
		format.Excel:   readWorkbookText,
	}

	for _, from := range Sources {
		for _, to := range Destinations {
			if from == to {
				continue
			}
			p := Pair{From: from, To: to}

			if from == format.Excel && (to == format.Parquet || to == format.JSON) {
				r.Register(p, typedWorkbook{write: writers[to]})
				continue
			}

			strategy := passThrough{read: readers[from], write: writers[to]}
			if to == format.TXT {
				strategy.needs = needDelimiter
			}
			r.Register(p, strategy)
		}
	}
	return r
}
