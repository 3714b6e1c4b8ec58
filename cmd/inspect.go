package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetmap/mapping"
	"sheetmap/output"
	"sheetmap/source"
)

var (
	inspectInput    string
	inspectFormat   string
	inspectPassword string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the sheets of a source file and their header cells",
	Long: `Print every sheet of a workbook (or the single sheet of a CSV/TSV file) with the
cells of its first row and their zero-based column indexes.

Use the names for columns[].name and the indexes for columns[].index when writing a profile.`,
	Example: `
  sheetmap inspect -i Timesheet2026.xlsx
  sheetmap inspect -i export.txt --format tsv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := source.Open(inspectInput, inspectFormat, source.OpenOptions{
			Password:        inspectPassword,
			FormattedValues: true,
		})
		if err != nil {
			return err
		}
		defer src.Close()

		headers, err := collectHeaders(src)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", inspectInput, err)
		}
		return output.WriteHeaders(cmd.OutOrStdout(), headers)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectInput, "input", "i", "", "Input file path")
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "", "Input format: csv|tsv|excel (optional, inferred when omitted)")
	inspectCmd.Flags().StringVar(&inspectPassword, "password", "", "Workbook password")

	_ = inspectCmd.MarkFlagRequired("input")
}

// collectHeaders reads the first row of every sheet.
func collectHeaders(src mapping.Source) ([]output.SheetHeader, error) {
	if err := src.Reset(); err != nil {
		return nil, err
	}

	var headers []output.SheetHeader
	for {
		header := output.SheetHeader{Sheet: src.SheetName()}
		ok, err := src.NextRow()
		if err != nil {
			return nil, err
		}
		if ok {
			header.Cells = make([]string, src.FieldCount())
			for i := range header.Cells {
				header.Cells[i] = src.StringValue(i)
			}
		}
		headers = append(headers, header)

		more, err := src.NextSheet()
		if err != nil {
			return nil, err
		}
		if !more {
			return headers, nil
		}
	}
}
