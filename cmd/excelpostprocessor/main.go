// Package main provides the CLI entry point for excelpostprocessor.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "excelpostprocessor",
		Short: "Extract data from Excel text columns with regular expressions",
		Long: `excelpostprocessor applies regular expressions to an existing Excel workbook,
extracting data into new columns. A rule document (default
excel_postprocessor.xml) names the workbook, the sheets to process and, for
each free-text column, the cleaning and extraction rules to apply:

  <workbook>
    <name>test_data.xlsx</name>
    <sheet>
      <name>Patients</name>
      <source_column>
        <name>Report</name>
        <extract>
          <pattern>Date of Exam:\s?(\d{1,2}/\d{1,2}/\d{4})</pattern>
          <new_column>Date of Exam</new_column>
        </extract>
        <extract>
          <pattern>LV EF MOD BP:\s?(\d+\.?\d*\s?)%</pattern>
          <new_column>LV EF %</new_column>
        </extract>
      </source_column>
    </sheet>
  </workbook>

Each processed sheet is written to <workbook>_<sheet>.xlsx.

Running with flags and no subcommand is the same as "run". Running with no
arguments prints this help.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return runRules(cmd, args)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsFile, "settings", "", "Settings file (default: excelpostprocessor.yaml if present)")
	flags.StringP("config", "c", "", "Rule document path (default: excel_postprocessor.xml)")
	flags.String("output-dir", "", "Directory for output workbooks (default: next to the source)")
	flags.String("password", "", "Password of an encrypted source workbook")
	flags.StringSlice("sheet", nil, "Only process this sheet (repeatable)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text, json")

	rootCmd.AddCommand(newRunCmd(), newValidateCmd())
	return rootCmd
}
