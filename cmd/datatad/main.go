// Command datatad converts tabular data files between csv, tsv, txt, json,
// parquet and xlsx.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var configFile string

func newRootCmd() *cobra.Command {
	convert := newConvertCmd()

	root := &cobra.Command{
		Use:   "datatad [PATH]",
		Short: "Convert tabular data files between formats",
		Long: `datatad converts a file, or every file of a directory, between csv, tsv,
txt, json, parquet and xlsx.

A single file is written next to the input with the new extension. A
directory is written to a sibling directory whose name has the format
swapped, e.g. "Sales CSV" becomes "Sales JSON".`,
		Example: `  datatad data.csv -o parquet
  datatad "Sales CSV" -o json
  datatad report.xlsx -o csv -s Totals -c A1:F200
  datatad schema data.parquet -f yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runConvert(cmd, args[0])
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./datatad.yaml or ~/.config/datatad/datatad.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	addConvertFlags(root)

	root.AddCommand(convert, newSchemaCmd(), newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
