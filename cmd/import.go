package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sheetmap/config"
	"sheetmap/importer"
	"sheetmap/storage"
)

var (
	importInputs  []string
	importFormat  string
	importProfile string
	importDBPath  string
	importReplace bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Map CSV/Excel rows onto worklogs and store them in SQLite",
	Long: `Read source files, map each row through a configured profile, and persist results in SQLite.

The profile is selected by --profile or, when omitted, by the first profile whose
file_template matches the file name. When --format is omitted, the profile format
or the file extension decides how the file is read.

Rows already stored are skipped. Use --replace to drop the rows previously imported
from the same file before storing the new ones.`,
	Example: `
  # Import files, profile chosen by file_template
  sheetmap import -i Timesheet2026.xlsx -i hours-2026-03.csv

  # Force a profile and format
  sheetmap import -i export.txt --profile hours --format tsv

  # Re-import a corrected file
  sheetmap import -i Timesheet2026.xlsx --replace --db ./sheetmap.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		logger := commandLogger()
		defer func() { _ = logger.Sync() }()

		result, err := importer.Run(cmd.Context(), importInputs, *cfg, importer.RunOptions{
			Profile: importProfile,
			Format:  importFormat,
			Logger:  logger,
		})
		if err != nil {
			return err
		}

		dbPath := resolveDBPath(importDBPath)
		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if importReplace {
			for _, path := range importInputs {
				deleted, err := store.DeleteWorklogsBySourceFile(path)
				if err != nil {
					return err
				}
				logger.Info("replaced previous import", zap.String("file", path), zap.Int64("rows", deleted))
			}
		}

		inserted, err := store.InsertWorklogs(result.Entries)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Rows persisted: %d\n",
			result.FilesProcessed,
			result.RowsRead,
			result.RowsMapped,
			result.RowsSkipped,
			inserted,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|tsv|excel (optional, inferred when omitted)")
	importCmd.Flags().StringVarP(&importProfile, "profile", "p", "", "Profile name (optional, matched by file_template when omitted)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (default from config)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Delete rows previously imported from the same files first")

	_ = importCmd.MarkFlagRequired("input")
}
