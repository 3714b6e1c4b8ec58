package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"sheetmap/internal/timeutil"
	"sheetmap/output"
	"sheetmap/storage"
)

var (
	listDBPath  string
	listProfile string
	listFile    string
	listFrom    string
	listTo      string
	listDaily   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored worklogs or their daily totals",
	Long: `Print the worklogs stored in the SQLite database as a table.

--from and --to take days as YYYY-MM-DD in local time; both are inclusive.
With --daily one row per day is printed with first start, last end, worked time
(overlaps merged), billable time and breaks.`,
	Example: `
  sheetmap list
  sheetmap list --profile timesheet --from 2026-03-01 --to 2026-03-31
  sheetmap list --daily --file Timesheet2026.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := buildListFilter(listProfile, listFile, listFrom, listTo, time.Local)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(listDBPath))
		if err != nil {
			return err
		}
		defer store.Close()

		return listWorklogs(cmd.OutOrStdout(), store, filter, listDaily, time.Local)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listDBPath, "db", "", "Path to local SQLite database (default from config)")
	listCmd.Flags().StringVarP(&listProfile, "profile", "p", "", "Only worklogs imported with this profile")
	listCmd.Flags().StringVar(&listFile, "file", "", "Only worklogs imported from this source file")
	listCmd.Flags().StringVar(&listFrom, "from", "", "First day to include (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "Last day to include (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listDaily, "daily", false, "Print daily totals instead of single worklogs")
}

func buildListFilter(profile, file, from, to string, loc *time.Location) (storage.ListFilter, error) {
	filter := storage.ListFilter{Profile: profile, SourceFile: file}
	if from != "" {
		day, err := timeutil.ParseDay(from, loc)
		if err != nil {
			return storage.ListFilter{}, fmt.Errorf("--from: %w", err)
		}
		filter.From = day
	}
	if to != "" {
		day, err := timeutil.ParseDay(to, loc)
		if err != nil {
			return storage.ListFilter{}, fmt.Errorf("--to: %w", err)
		}
		filter.To = day.AddDate(0, 0, 1)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return storage.ListFilter{}, fmt.Errorf("--from %s is after --to %s", from, to)
	}
	return filter, nil
}

func listWorklogs(w io.Writer, store *storage.SQLiteStore, filter storage.ListFilter, daily bool, loc *time.Location) error {
	entries, err := store.ListWorklogs(filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No worklogs found.")
		return err
	}

	if daily {
		return output.WriteDailySummaries(w, output.BuildDailySummaries(entries, loc), loc)
	}
	return output.WriteEntries(w, entries, loc)
}
