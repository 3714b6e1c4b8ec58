package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sheetmap/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  sheetmap config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Config file loaded from:", configPath)
			printConfig(cmd.OutOrStdout(), *cfg)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func printConfig(w io.Writer, cfg config.Config) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "database: %s\n", cfg.Database)
	fmt.Fprintf(w, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "log.encoding: %s\n", cfg.Log.Encoding)
	fmt.Fprintf(w, "profiles: %d\n", len(cfg.Profiles))
	for i, profile := range cfg.Profiles {
		fmt.Fprintf(w, "profiles[%d].name: %s\n", i, profile.Name)
		fmt.Fprintf(w, "profiles[%d].file_template: %s\n", i, profile.FileTemplate)
		fmt.Fprintf(w, "profiles[%d].format: %s\n", i, profile.Format)
		fmt.Fprintf(w, "profiles[%d].sheet: %s\n", i, profile.Sheet)
		if profile.Password != "" {
			fmt.Fprintf(w, "profiles[%d].password: ********\n", i)
		}
		fmt.Fprintf(w, "profiles[%d].first_row_is_header: %t\n", i, profile.HeaderRow())
		fmt.Fprintf(w, "profiles[%d].skip_empty_header_names: %t\n", i, profile.SkipEmptyHeaders())
		fmt.Fprintf(w, "profiles[%d].trim_whitespace_in_header_names: %t\n", i, profile.TrimWhitespaceInHeaderNames)
		fmt.Fprintf(w, "profiles[%d].time_layout: %s\n", i, profile.TimeLayout)
		fmt.Fprintf(w, "profiles[%d].project: %s\n", i, profile.Project)
		fmt.Fprintf(w, "profiles[%d].activity: %s\n", i, profile.Activity)
		fmt.Fprintf(w, "profiles[%d].skill: %s\n", i, profile.Skill)
		for j, column := range profile.Columns {
			target := "default"
			switch {
			case column.Ignore:
				target = "ignored"
			case column.Index != nil:
				target = fmt.Sprintf("index %d", *column.Index)
			case column.Name != "":
				target = fmt.Sprintf("name %q", column.Name)
			}
			converter := column.Converter
			if converter == "" {
				converter = "default"
			}
			fmt.Fprintf(w, "profiles[%d].columns[%d]: %s -> %s (converter %s)\n", i, j, column.Field, target, converter)
		}
	}
}
