// Package paths derives output locations for conversions.
//
// A single input file keeps its name and gets the destination extension,
// with a numeric suffix when that name is taken. An input directory gets a
// sibling output directory whose name is the input name with the majority
// format alias swapped for the destination alias, preserving the case
// pattern the user wrote it in.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vegasq/datatad/format"
)

// Resolve computes the output path for input, which may be a file or a
// directory. The only error is a failure to stat input.
func Resolve(input string, dest format.Token) (string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return "", fmt.Errorf("failed to stat input: %w", err)
	}
	if info.IsDir() {
		return ResolveDir(input, dest), nil
	}
	return ResolveFile(input, dest), nil
}

// ResolveFile rewrites the extension of input to the canonical extension of
// dest and returns the first name that does not exist yet.
//
// The check happens at call time only; a concurrent writer can still take
// the returned name.
func ResolveFile(input string, dest format.Token) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return NextFree(stem + dest.Extension())
}

// OutputFile returns the destination for input when converting into the
// directory outDir.
func OutputFile(outDir, input string, dest format.Token) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return NextFree(filepath.Join(outDir, stem+dest.Extension()))
}

// NextFree returns candidate if nothing exists at that path, otherwise
// name_1.ext, name_2.ext, ... whichever is free first.
func NextFree(candidate string) string {
	if !exists(candidate) {
		return candidate
	}
	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(candidate, ext)
	for n := 1; ; n++ {
		next := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !exists(next) {
			return next
		}
	}
}

// ResolveDir returns the sibling directory that a batch conversion of dir
// into dest writes to. Collisions with existing directories are not
// checked. A path ending in "." or ".." is made absolute first so the
// result is still a sibling of the directory it names.
func ResolveDir(dir string, dest format.Token) string {
	clean := filepath.Clean(dir)
	if base := filepath.Base(clean); base == "." || base == ".." {
		if abs, err := filepath.Abs(clean); err == nil {
			clean = abs
		}
	}
	name := filepath.Base(clean)
	alias := MajorityAlias(clean)
	return filepath.Join(filepath.Dir(clean), SubstituteAlias(name, alias, dest.Alias()))
}

// MajorityAlias tallies the naming alias of every immediate child file of
// dir and returns the most frequent one.
//
// Children are visited in lexicographic order. On a tie the alias whose
// first file comes earliest in that order wins, so the result only depends
// on the file names. An empty string means no child had a recognized
// extension or dir could not be listed.
func MajorityAlias(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		tok, ok := format.ForNaming(e.Name())
		if !ok {
			continue
		}
		alias := tok.Alias()
		if counts[alias] == 0 {
			order = append(order, alias)
		}
		counts[alias]++
	}

	best := ""
	for _, alias := range order {
		if counts[alias] > counts[best] {
			best = alias
		}
	}
	return best
}

// SubstituteAlias replaces every case-insensitive occurrence of alias in
// name with replacement, copying the case pattern of each match:
// all upper, all lower and capitalized are reproduced, anything else uses
// replacement verbatim. When alias is empty or absent, replacement is
// appended after a space.
func SubstituteAlias(name, alias, replacement string) string {
	if alias == "" {
		return name + " " + replacement
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(alias))
	if !re.MatchString(name) {
		return name + " " + replacement
	}

	return re.ReplaceAllStringFunc(name, func(match string) string {
		return matchCase(match, replacement)
	})
}

func matchCase(pattern, s string) string {
	switch {
	case isUpper(pattern):
		return strings.ToUpper(s)
	case isLower(pattern):
		return strings.ToLower(s)
	case isCapitalized(pattern):
		return capitalize(s)
	default:
		return s
	}
}

// isUpper mirrors str.isupper: at least one cased rune and no lower-case
// rune.
func isUpper(s string) bool {
	return strings.ToUpper(s) == s && strings.ToLower(s) != s
}

func isLower(s string) bool {
	return strings.ToLower(s) == s && strings.ToUpper(s) != s
}

func isCapitalized(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return false
	}
	rest := s[size:]
	return rest == "" || isLower(rest)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
