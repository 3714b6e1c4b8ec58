package cmd

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"sheetmap/config"
	"sheetmap/importer"
	"sheetmap/mapping"
	"sheetmap/source"
	"sheetmap/worklog"
)

var (
	previewInput   string
	previewFormat  string
	previewProfile string
	previewLimit   int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Dump the first mapped records of a source file",
	Long: `Map the first rows of a source file through a profile and dump the raw records.

Nothing is stored. Profile defaults and row validation of "import" are not
applied, so the output shows exactly what the column mapping produced.`,
	Example: `
  sheetmap preview -i Timesheet2026.xlsx --limit 3
  sheetmap preview -i hours.csv --profile hours
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		profile, err := importer.ResolveProfile(previewInput, *cfg, previewProfile)
		if err != nil {
			return err
		}

		builder, err := importer.NewBuilder(profile)
		if err != nil {
			return fmt.Errorf("profile %s: %w", profile.Name, err)
		}

		src, err := source.Open(previewInput, firstNonBlank(previewFormat, profile.Format), source.OpenOptions{
			Password: profile.Password,
		})
		if err != nil {
			return err
		}

		it := mapping.Create(src, builder.Build())
		defer it.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Profile: %s\n", profile.Name)
		return previewRecords(cmd.OutOrStdout(), it, previewLimit)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewInput, "input", "i", "", "Input file path")
	previewCmd.Flags().StringVarP(&previewFormat, "format", "f", "", "Input format: csv|tsv|excel (optional, inferred when omitted)")
	previewCmd.Flags().StringVarP(&previewProfile, "profile", "p", "", "Profile name (optional, matched by file_template when omitted)")
	previewCmd.Flags().IntVarP(&previewLimit, "limit", "n", 5, "Number of records to dump")

	_ = previewCmd.MarkFlagRequired("input")
}

var previewDumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// previewRecords dumps up to limit records. A mapping error stops the dump
// and is returned with its row number.
func previewRecords(w io.Writer, it *mapping.Iterator[worklog.Entry], limit int) error {
	rows := it.Rows()
	shown := 0
	for shown < limit && rows.Next() {
		fmt.Fprintf(w, "Row %d:\n", rows.RowNumber())
		previewDumper.Fdump(w, rows.Record())
		shown++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Records shown: %d\n", shown)
	return nil
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
