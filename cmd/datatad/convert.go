package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vegasq/datatad/dispatch"
	"github.com/vegasq/datatad/engine"
	"github.com/vegasq/datatad/format"
	"github.com/vegasq/datatad/internal/batch"
	"github.com/vegasq/datatad/internal/config"
	"github.com/vegasq/datatad/internal/logger"
	"github.com/vegasq/datatad/internal/prompt"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert PATH",
		Short: "Convert a file or every file of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0])
		},
	}
	addConvertFlags(cmd)
	return cmd
}

func addConvertFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("input", "i", "", "input format; overrides detection for a file and filters a directory")
	f.StringP("output", "o", "", "output format: csv, tsv, txt, json, parquet, excel")
	f.StringP("sheet", "s", "", "workbook sheet name or 1-based number")
	f.StringP("range", "c", "", "workbook cell range, e.g. A1:D20")
	f.StringP("delimiter", "d", "", "txt output delimiter (\"t\" for tab)")
	f.Int("excel-max-rows", 0, "data rows per written workbook before splitting (0 = sheet limit)")
	f.Bool("no-prompt", false, "never prompt; take defaults for missing options")
}

func runConvert(cmd *cobra.Command, input string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	var inFmt format.Token
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		if inFmt, err = format.Parse(v); err != nil {
			return err
		}
	}

	p := prompt.New(os.Stdin, os.Stderr)
	if cfg.NoPrompt {
		p = prompt.Disabled()
	}

	dest, err := destination(cmd, p)
	if err != nil {
		return err
	}

	opts, err := resolveOptions(cfg, p, input, inFmt, dest)
	if err != nil {
		return err
	}

	sess, err := engine.Open(engine.Config{WorkbookRows: cfg.ExcelMaxRows})
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	runner := &batch.Runner{
		Session:     sess,
		Registry:    dispatch.Default(),
		Log:         log,
		Options:     opts,
		InputFormat: inFmt,
	}
	stats, err := runner.Run(input, dest)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", stats.Failed, stats.Total)
	}
	return nil
}

func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	// Flags() includes the persistent flags of the parent commands.
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log := logger.NewWithLevel(os.Stderr, level)
	if cfg.File != "" {
		log.Debug("config loaded", "file", cfg.File)
	}
	return cfg, log, nil
}

func destination(cmd *cobra.Command, p *prompt.Prompter) (format.Token, error) {
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		return format.Parse(v)
	}
	tok, err := p.OutputFormat()
	if err != nil {
		return format.Unknown, fmt.Errorf("missing output format (use -o): %w", err)
	}
	return tok, nil
}

// resolveOptions fills in every option the batch needs before it starts,
// so that no strategy has to ask.
func resolveOptions(cfg *config.Config, p *prompt.Prompter, input string, inFmt, dest format.Token) (dispatch.Options, error) {
	opts := dispatch.Options{Sheet: cfg.Sheet, Range: cfg.Range, Delimiter: cfg.Delimiter}

	if dest == format.TXT && opts.Delimiter == 0 {
		opts.Delimiter = p.Delimiter()
	}

	if opts.Sheet == "" && opts.Range == "" {
		items, _, err := batch.Scan(input, inFmt, dest)
		if err != nil {
			return opts, err
		}
		for _, item := range items {
			if item.Skip == "" && item.Format == format.Excel {
				opts.Sheet, opts.Range = p.Workbook(filepath.Base(input))
				break
			}
		}
	}
	return opts, nil
}
