// Package dispatch selects and runs the conversion strategy for a pair of
// formats.
//
// The registry is an explicit map from (source, destination) to a
// Strategy. Every source in Sources crossed with every destination in
// Destinations, except a format onto itself, must be registered; Default
// checks this when the package loads.
package dispatch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vegasq/datatad/engine"
	"github.com/vegasq/datatad/format"
	"github.com/vegasq/datatad/reader"
)

var (
	// ErrUnsupportedPair is returned for a pair with no registered strategy.
	ErrUnsupportedPair = errors.New("unsupported conversion pair")

	// ErrMissingOption is returned when a strategy needs an option the
	// caller did not resolve, such as the delimiter for txt output.
	ErrMissingOption = errors.New("missing conversion option")
)

// Sources are the formats a strategy can read. tsv and txt inputs are read
// as csv (see format.Normalize).
var Sources = []format.Token{format.CSV, format.JSON, format.Parquet, format.Excel}

// Destinations are the formats a strategy can write.
var Destinations = []format.Token{format.CSV, format.TSV, format.TXT, format.JSON, format.Parquet, format.Excel}

// Options carries the per-format settings resolved before any strategy
// runs. Zero values select the engine defaults.
type Options struct {
	// Sheet selects a workbook sheet by name or 1-based number.
	Sheet string

	// Range selects a workbook cell range such as "A1:D20".
	Range string

	// Delimiter separates fields in txt output. It has no default.
	Delimiter rune
}

// Workbook returns the sheet and range selection for workbook readers.
func (o Options) Workbook() reader.WorkbookOptions {
	return reader.WorkbookOptions{Sheet: o.Sheet, Range: o.Range}
}

// Strategy converts one source file into one destination artifact.
type Strategy interface {
	Convert(s *engine.Session, src, dst string, opts Options) error
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(s *engine.Session, src, dst string, opts Options) error

// Convert calls f.
func (f StrategyFunc) Convert(s *engine.Session, src, dst string, opts Options) error {
	return f(s, src, dst, opts)
}

// Pair is a (source, destination) format combination.
type Pair struct {
	From format.Token
	To   format.Token
}

func (p Pair) String() string {
	return p.From.String() + "->" + p.To.String()
}

// Registry maps pairs to strategies.
type Registry struct {
	strategies map[Pair]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[Pair]Strategy)}
}

// Register binds s to p, replacing any earlier binding.
func (r *Registry) Register(p Pair, s Strategy) {
	r.strategies[p] = s
}

// Lookup returns the strategy for converting from into to. The source is
// normalized first, so tsv and txt sources use the csv strategies.
func (r *Registry) Lookup(from, to format.Token) (Strategy, error) {
	p := Pair{From: format.Normalize(from), To: to}
	s, ok := r.strategies[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", ErrUnsupportedPair, from, to)
	}
	return s, nil
}

// Pairs returns the registered pairs in a stable order.
func (r *Registry) Pairs() []Pair {
	pairs := make([]Pair, 0, len(r.strategies))
	for p := range r.strategies {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	return pairs
}

// Validate checks that every non-identity pair of Sources and Destinations
// is registered and that no identity pair is.
func (r *Registry) Validate() error {
	var errs []error
	for _, from := range Sources {
		for _, to := range Destinations {
			p := Pair{From: from, To: to}
			_, ok := r.strategies[p]
			switch {
			case from == to && ok:
				errs = append(errs, fmt.Errorf("identity pair %s must not be registered", p))
			case from != to && !ok:
				errs = append(errs, fmt.Errorf("missing strategy for %s", p))
			}
		}
	}
	return errors.Join(errs...)
}

// Convert looks up the strategy for (from, to) and runs it.
func (r *Registry) Convert(s *engine.Session, from, to format.Token, src, dst string, opts Options) error {
	strategy, err := r.Lookup(from, to)
	if err != nil {
		return err
	}
	return strategy.Convert(s, src, dst, opts)
}

var defaultRegistry = mustDefault()

// Default returns a fresh copy of the built-in strategy table.
func Default() *Registry {
	r := NewRegistry()
	for p, s := range defaultRegistry.strategies {
		r.strategies[p] = s
	}
	return r
}

func mustDefault() *Registry {
	r := builtin()
	if err := r.Validate(); err != nil {
		panic(fmt.Sprintf("dispatch: incomplete strategy table: %v", err))
	}
	return r
}
