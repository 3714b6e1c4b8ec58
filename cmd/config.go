package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sheetmap configuration file values.",
	Long: `Create, edit, display, and delete the sheetmap configuration file.

The configuration stores application-wide values and mapping profiles:
- database
- log.level / log.encoding
- profiles[].name / file_template / format / sheet / header flags
- profiles[].columns[].field / name / index / ignore / converter`,
	Example: `
  # Create default config in $HOME/.sheetmap.yaml
  sheetmap config create

  # Show active config and source file
  sheetmap config show

  # Open active config in editor (creates example if missing)
  sheetmap config edit

  # Delete active config file
  sheetmap config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
