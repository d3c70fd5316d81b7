package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/datatad/engine"
	"github.com/vegasq/datatad/format"
	"github.com/vegasq/datatad/output"
	"github.com/vegasq/datatad/reader"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema PATH",
		Short: "Show the columns and types of a file",
		Long: `schema prints the column names and engine types of one file. Parquet
files are described from their footer; other formats are read and typed
the way a conversion would type them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.StringP("format", "f", "table", "output format: "+strings.Join(output.SchemaFormats, ", "))
	f.StringP("input", "i", "", "input format; overrides detection")
	f.StringP("sheet", "s", "", "workbook sheet name or 1-based number")
	f.StringP("range", "c", "", "workbook cell range, e.g. A1:D20")
	return cmd
}

func runSchema(cmd *cobra.Command, path string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	tok := format.Detect(path)
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		if tok, err = format.Parse(v); err != nil {
			return err
		}
	}
	if !tok.Valid() {
		return fmt.Errorf("cannot detect the format of %s (use -i)", path)
	}

	name, _ := cmd.Flags().GetString("format")
	formatter, err := output.NewSchemaFormatter(cmd.OutOrStdout(), name)
	if err != nil {
		return err
	}

	sess, err := engine.Open(engine.Config{})
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	infos, err := sess.Describe(path, tok, reader.WorkbookOptions{Sheet: cfg.Sheet, Range: cfg.Range})
	if err != nil {
		return err
	}
	return formatter.Format(infos)
}
