package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sheetmap/storage"
)

var (
	deleteDBPath     string
	deleteSourceFile string
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete imported worklogs or the complete SQLite database file",
	Long: `Destructive database cleanup command.

With --file only the worklogs imported from that source file are removed.
Without --file the complete SQLite database file is deleted.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the rows imported from one file
  sheetmap delete --file Timesheet2026.xlsx

  # Delete the complete SQLite file (requires interactive confirmation)
  sheetmap delete --db ./sheetmap.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := resolveDBPath(deleteDBPath)

		question := fmt.Sprintf("Delete database file %q?", dbPath)
		if deleteSourceFile != "" {
			question = fmt.Sprintf("Delete worklogs imported from %q in %q?", deleteSourceFile, dbPath)
		}

		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, question)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if deleteSourceFile != "" {
			deleted, err := deleteSourceRows(dbPath, deleteSourceFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d worklogs imported from: %s\n", deleted, deleteSourceFile)
			return nil
		}

		if err := removeDatabaseFile(dbPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted database file: %s\n", dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Path to local SQLite database (default from config)")
	deleteCmd.Flags().StringVar(&deleteSourceFile, "file", "", "Only delete worklogs imported from this source file")
}

func confirmDeletePrompt(input io.Reader, output io.Writer, question string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "%s Type Y to confirm: ", question); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func deleteSourceRows(dbPath, sourceFile string) (int64, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("database file not found: %s", dbPath)
		}
		return 0, fmt.Errorf("stat database file: %w", err)
	}

	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.DeleteWorklogsBySourceFile(sourceFile)
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
