// Package engine is the tabular-data engine behind every conversion.
//
// A Session is the one engine connection of a batch: it is opened before
// the first file, used for every read and write, and closed when the batch
// ends. Sessions are not safe for concurrent use; conversions run one file
// at a time.
package engine

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vegasq/datatad/output"
	"github.com/vegasq/datatad/reader"
	"github.com/vegasq/datatad/table"
)

// Config tunes a session.
type Config struct {
	// WorkbookRows caps the data rows per written workbook; larger tables
	// are split into parts. Zero uses output.DefaultWorkbookRows.
	WorkbookRows int

	// Sample is the number of leading rows used for type inference. Zero
	// uses table.DefaultSample.
	Sample int
}

// Stats counts the engine operations of a session.
type Stats struct {
	Reads  int
	Writes int
}

// Session is a scoped engine connection.
type Session struct {
	db     *sql.DB
	cfg    Config
	stats  Stats
	closed bool
}

// Open acquires a session backed by a private in-memory staging database.
func Open(cfg Config) (*Session, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open staging database: %w", err)
	}
	// An in-memory database lives in a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open staging database: %w", err)
	}

	if cfg.Sample <= 0 {
		cfg.Sample = table.DefaultSample
	}
	if cfg.WorkbookRows <= 0 {
		cfg.WorkbookRows = output.DefaultWorkbookRows
	}
	return &Session{db: db, cfg: cfg}, nil
}

// Close releases the session. It is safe to call Close multiple times.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Stats returns the operation counts so far.
func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) check() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// ReadDelimited reads delimited text. A zero delimiter is sniffed.
func (s *Session) ReadDelimited(path string, delimiter rune) (*table.Table, error) {
	return s.read(path, func() (*table.Table, error) {
		return reader.ReadDelimited(path, reader.DelimitedOptions{Delimiter: delimiter, Sample: s.cfg.Sample})
	})
}

// ReadJSON reads a JSON array or newline-delimited JSON file.
func (s *Session) ReadJSON(path string) (*table.Table, error) {
	return s.read(path, func() (*table.Table, error) {
		return reader.ReadJSON(path)
	})
}

// ReadParquet reads a parquet file.
func (s *Session) ReadParquet(path string) (*table.Table, error) {
	return s.read(path, func() (*table.Table, error) {
		return reader.ReadParquet(path)
	})
}

// ReadWorkbook reads one sheet of a workbook with every cell as text.
func (s *Session) ReadWorkbook(path string, opts reader.WorkbookOptions) (*table.Table, error) {
	return s.read(path, func() (*table.Table, error) {
		return reader.ReadWorkbook(path, opts)
	})
}

func (s *Session) read(path string, fn func() (*table.Table, error)) (*table.Table, error) {
	if err := s.check(); err != nil {
		return nil, readError(path, err)
	}
	t, err := fn()
	if err != nil {
		return nil, readError(path, err)
	}
	s.stats.Reads++
	return t, nil
}

// WriteDelimited writes t as delimited text.
func (s *Session) WriteDelimited(path string, t *table.Table, delimiter rune) error {
	return s.writeFile(path, output.NewDelimitedFormatter(nil, delimiter), t)
}

// WriteJSON writes t as JSON Lines.
func (s *Session) WriteJSON(path string, t *table.Table) error {
	return s.writeFile(path, output.NewJSONFormatter(nil), t)
}

// WriteParquet writes t as a parquet file.
func (s *Session) WriteParquet(path string, t *table.Table) error {
	return s.writeFile(path, output.NewParquetFormatter(nil), t)
}

// WriteWorkbook writes t as one or more xlsx files and returns their
// paths.
func (s *Session) WriteWorkbook(path string, t *table.Table) ([]string, error) {
	if err := s.check(); err != nil {
		return nil, writeError(path, err)
	}
	files, err := output.WriteWorkbook(path, t, s.cfg.WorkbookRows)
	if err != nil {
		for _, f := range files {
			_ = os.Remove(f)
		}
		return nil, writeError(path, err)
	}
	s.stats.Writes++
	return files, nil
}

// writeFile runs a streaming formatter into a new file, removing the
// partial file when anything fails.
func (s *Session) writeFile(path string, f output.Formatter, t *table.Table) error {
	if err := s.check(); err != nil {
		return writeError(path, err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return writeError(path, fmt.Errorf("failed to create file: %w", err))
	}

	f.SetOutput(file)
	err = f.Format(t)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return writeError(path, err)
	}

	s.stats.Writes++
	return nil
}
