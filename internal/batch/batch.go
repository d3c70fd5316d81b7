// Package batch runs a conversion over one file or every file of a
// directory.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vegasq/datatad/dispatch"
	"github.com/vegasq/datatad/engine"
	"github.com/vegasq/datatad/format"
	"github.com/vegasq/datatad/internal/logger"
	"github.com/vegasq/datatad/paths"
)

// ErrSelfConversion is returned when a single input file already has the
// destination format.
var ErrSelfConversion = errors.New("input already has the destination format")

// Item is one candidate file of a batch.
type Item struct {
	Path string

	// Format is the naming identity of the file; tsv and txt stay distinct.
	Format format.Token

	// Skip is the reason the file is left out, or empty.
	Skip string
}

// Stats summarizes a run.
type Stats struct {
	Total     int
	Converted int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// Runner converts files with one engine session. Options must be fully
// resolved before Run; strategies never ask for missing values.
type Runner struct {
	Session  *engine.Session
	Registry *dispatch.Registry
	Log      *logger.Logger
	Options  dispatch.Options

	// InputFormat, when valid, overrides detection for a single file and
	// filters the files of a directory.
	InputFormat format.Token
}

// Scan lists the files Run would visit for input, in name order, with the
// reason for every file that would be skipped. A single file is never
// skipped for its extension when inputFormat is given.
func Scan(input string, inputFormat, dest format.Token) ([]Item, bool, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat input: %w", err)
	}

	if !info.IsDir() {
		item := Item{Path: input}
		if inputFormat.Valid() {
			item.Format = inputFormat
		} else if tok, ok := format.ForNaming(input); ok {
			item.Format = tok
		} else {
			item.Skip = "unsupported extension"
		}
		return []Item{item}, false, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, true, fmt.Errorf("failed to list directory: %w", err)
	}

	var items []Item
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		item := Item{Path: filepath.Join(input, entry.Name())}
		tok, ok := format.ForNaming(entry.Name())
		item.Format = tok
		switch {
		case !ok:
			item.Skip = "unsupported extension"
		case inputFormat.Valid() && format.Normalize(tok) != format.Normalize(inputFormat):
			item.Skip = fmt.Sprintf("not a %s file", inputFormat)
		case tok == dest:
			item.Skip = fmt.Sprintf("already %s", dest)
		}
		items = append(items, item)
	}
	return items, true, nil
}

// Run converts input into dest. For a directory, every per-file error is
// logged and counted and the run continues; the returned error reports
// only problems that prevent the batch from starting. For a single file the
// conversion error is returned as well.
func (r *Runner) Run(input string, dest format.Token) (Stats, error) {
	start := time.Now()
	var stats Stats

	items, isDir, err := Scan(input, r.InputFormat, dest)
	if err != nil {
		return stats, err
	}

	if !isDir {
		stats, err = r.runFile(items[0], dest)
		stats.Elapsed = time.Since(start)
		return stats, err
	}

	outDir := paths.ResolveDir(input, dest)
	r.Log.BatchStarted(input, dest.String(), outDir)
	if sameDir(input, outDir) {
		r.Log.OutputInPlace(outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, item := range items {
		stats.Total++
		if item.Skip != "" {
			stats.Skipped++
			r.Log.FileSkipped(item.Path, item.Skip)
			continue
		}
		dst := paths.OutputFile(outDir, item.Path, dest)
		if err := r.convert(item, dest, dst); err != nil {
			stats.Failed++
			r.Log.FileFailed(item.Path, err)
			continue
		}
		stats.Converted++
		r.Log.FileConverted(item.Path, dst)
	}

	stats.Elapsed = time.Since(start)
	r.Log.BatchCompleted(stats.Converted, stats.Skipped, stats.Failed, stats.Elapsed)
	return stats, nil
}

// sameDir reports whether a and b resolve to the same path.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func (r *Runner) runFile(item Item, dest format.Token) (Stats, error) {
	stats := Stats{Total: 1}
	if item.Skip != "" {
		stats.Skipped++
		r.Log.FileSkipped(item.Path, item.Skip)
		return stats, fmt.Errorf("%s: %s", item.Path, item.Skip)
	}
	if item.Format == dest {
		stats.Skipped++
		return stats, fmt.Errorf("%w: %s", ErrSelfConversion, item.Path)
	}

	dst := paths.ResolveFile(item.Path, dest)
	if err := r.convert(item, dest, dst); err != nil {
		stats.Failed++
		r.Log.FileFailed(item.Path, err)
		return stats, err
	}
	stats.Converted++
	r.Log.FileConverted(item.Path, dst)
	return stats, nil
}

func (r *Runner) convert(item Item, dest format.Token, dst string) error {
	if item.Format != dest && format.Normalize(item.Format) == dest {
		return r.redelimit(item.Path, dst)
	}
	return r.Registry.Convert(r.Session, item.Format, dest, item.Path, dst, r.Options)
}

// redelimit rewrites a tsv or txt file as csv. The registry reads those
// sources as csv and holds no csv->csv strategy, so the runner does it.
func (r *Runner) redelimit(src, dst string) error {
	t, err := r.Session.ReadDelimited(src, 0)
	if err != nil {
		return err
	}
	return r.Session.WriteDelimited(dst, t, ',')
}
