// Package format identifies the tabular storage formats datatad converts
// between and maps file extensions onto them.
//
// Two extension maps exist. The processing map decides how a file is read:
// plain text and tab-separated files are read by the same delimited reader
// as comma-separated files. The naming map keeps txt and tsv as distinct
// identities so that output names follow what the user actually had on
// disk.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Token identifies a tabular storage format.
type Token int

const (
	// Unknown is the zero Token; it never names a real format.
	Unknown Token = iota
	CSV
	TSV
	TXT
	JSON
	Parquet
	Excel
)

// All lists every real format in declaration order.
var All = []Token{CSV, TSV, TXT, JSON, Parquet, Excel}

var aliases = map[Token]string{
	CSV:     "csv",
	TSV:     "tsv",
	TXT:     "txt",
	JSON:    "json",
	Parquet: "parquet",
	Excel:   "excel",
}

var extensions = map[Token]string{
	CSV:     ".csv",
	TSV:     ".tsv",
	TXT:     ".txt",
	JSON:    ".json",
	Parquet: ".parquet",
	Excel:   ".xlsx",
}

// processing maps a lower-case extension to the format used to read it.
var processing = map[string]Token{
	".csv":     CSV,
	".txt":     CSV,
	".tsv":     CSV,
	".json":    JSON,
	".parquet": Parquet,
	".parq":    Parquet,
	".pq":      Parquet,
	".xlsx":    Excel,
}

// naming maps a lower-case extension to the format whose alias is used in
// output names.
var naming = map[string]Token{
	".csv":     CSV,
	".txt":     TXT,
	".tsv":     TSV,
	".json":    JSON,
	".parquet": Parquet,
	".parq":    Parquet,
	".pq":      Parquet,
	".xlsx":    Excel,
}

// cliAliases accepts the spellings users type on the command line.
var cliAliases = map[string]Token{
	"csv":     CSV,
	"txt":     TXT,
	"tsv":     TSV,
	"json":    JSON,
	"excel":   Excel,
	"xlsx":    Excel,
	"xls":     Excel,
	"parquet": Parquet,
	"pq":      Parquet,
}

// String returns the format alias, e.g. "parquet".
func (t Token) String() string {
	if a, ok := aliases[t]; ok {
		return a
	}
	return "unknown"
}

// Alias is the string that denotes the format inside file and directory
// names. It is the same as String.
func (t Token) Alias() string {
	return t.String()
}

// Extension returns the canonical output extension including the dot.
// Unknown tokens return an empty string.
func (t Token) Extension() string {
	return extensions[t]
}

// Valid reports whether t names a real format.
func (t Token) Valid() bool {
	_, ok := aliases[t]
	return ok
}

// Parse converts a user-supplied format name (case-insensitive, optional
// leading dot) into a Token.
func Parse(s string) (Token, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if t, ok := cliAliases[key]; ok {
		return t, nil
	}
	return Unknown, fmt.Errorf("unsupported format %q (supported: csv, tsv, txt, json, parquet, excel)", s)
}

// ForProcessing returns the format used to read a file with the given path
// or extension. The second result is false for unsupported extensions.
func ForProcessing(path string) (Token, bool) {
	t, ok := processing[ext(path)]
	return t, ok
}

// ForNaming returns the format whose alias represents the given path or
// extension in output names.
func ForNaming(path string) (Token, bool) {
	t, ok := naming[ext(path)]
	return t, ok
}

// Detect is the extension-based auto-detector used when no explicit source
// format is supplied. It returns Unknown for unsupported extensions.
func Detect(path string) Token {
	t, _ := ForProcessing(path)
	return t
}

// ProcessingExtensions returns the extensions the processing map accepts.
func ProcessingExtensions() []string {
	return keys(processing)
}

// NamingExtensions returns the extensions the naming map accepts.
func NamingExtensions() []string {
	return keys(naming)
}

// Normalize collapses formats that share a reader onto the token used to
// select a conversion strategy: tsv and txt sources are read as csv.
func Normalize(t Token) Token {
	switch t {
	case TSV, TXT:
		return CSV
	default:
		return t
	}
}

func ext(path string) string {
	e := filepath.Ext(path)
	if e == "" && strings.HasPrefix(path, ".") {
		e = path
	}
	return strings.ToLower(e)
}

func keys(m map[string]Token) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
