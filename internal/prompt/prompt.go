// Package prompt asks the user for conversion settings that were not given
// on the command line. It is only used before a batch starts; conversions
// themselves never read from the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/vegasq/datatad/format"
)

// ErrNotInteractive is returned when an answer has no default and the
// input is not a terminal.
var ErrNotInteractive = errors.New("input is not interactive")

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#78DCE8"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#727072"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6188"))
)

// Prompter reads answers line by line.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// New returns a prompter that is interactive only when in is a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	interactive := false
	if f, ok := in.(*os.File); ok {
		fd := f.Fd()
		interactive = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// NewInteractive returns a prompter that always asks.
func NewInteractive(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: true}
}

// Disabled returns a prompter that never asks and always takes defaults.
func Disabled() *Prompter {
	return &Prompter{in: bufio.NewReader(strings.NewReader("")), out: io.Discard}
}

// Interactive reports whether the prompter asks questions.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// OutputFormat asks for the destination format until a valid one is
// given.
func (p *Prompter) OutputFormat() (format.Token, error) {
	if !p.interactive {
		return format.Unknown, fmt.Errorf("%w: an output format is required", ErrNotInteractive)
	}
	for {
		answer, err := p.ask("Enter desired output format", "csv, parquet, json, excel, tsv, txt")
		if err != nil {
			return format.Unknown, err
		}
		tok, err := format.Parse(answer)
		if err == nil {
			return tok, nil
		}
		_, _ = fmt.Fprintln(p.out, errorStyle.Render(err.Error()))
	}
}

// Delimiter asks how txt output is separated: "t" selects a tab and any
// other answer a comma. Without a terminal the answer is a comma.
func (p *Prompter) Delimiter() rune {
	if !p.interactive {
		return ','
	}
	answer, err := p.ask("For TXT export, choose t for tab separated or c for comma separated", "t/c")
	if err != nil {
		return ','
	}
	if strings.EqualFold(answer, "t") {
		return '\t'
	}
	return ','
}

// Workbook asks for the sheet and cell range of the workbooks in a batch.
// Blank answers keep the defaults of first sheet and whole range.
func (p *Prompter) Workbook(name string) (sheet, cellRange string) {
	if !p.interactive {
		return "", ""
	}
	sheet, _ = p.ask(fmt.Sprintf("Enter Excel sheet for %s", name), "default: first sheet")
	cellRange, _ = p.ask(fmt.Sprintf("Enter Excel cell range for %s", name), "or leave blank")
	return sheet, cellRange
}

func (p *Prompter) ask(question, hint string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s %s: ", questionStyle.Render(question), hintStyle.Render("("+hint+")"))
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
