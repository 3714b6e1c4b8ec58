/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"sheetmap/config"
	"sheetmap/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sheetmap",
	Short: "Map spreadsheet and CSV rows onto typed worklog records.",
	Long: `
**********************************************
*                SHEETMAP                    *
**********************************************

This CLI reads tabular source files, maps each row onto a worklog record through
a configurable profile (sheet, header handling, column names or indexes, value
converters), and stores the records in a local SQLite database.

Supported input formats:
- Excel: .xlsx, .xlsm, .xltx, .xltm
- CSV: .csv
- Tab separated: .tsv, .tab (UTF-8 or UTF-16 with byte order mark)
`,
	Example: `
  # Create configuration file
  sheetmap config create

  # Show sheets and header columns of a workbook
  sheetmap inspect -i Timesheet2026.xlsx

  # Dry-run a profile against the first rows
  sheetmap preview -i Timesheet2026.xlsx --profile timesheet --limit 5

  # Import files, profile chosen by file_template
  sheetmap import -i Timesheet2026.xlsx -i hours.csv

  # List stored worklogs with daily totals
  sheetmap list --daily
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.sheetmap.yaml, then ./.sheetmap.yaml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "import", "preview":
		return true
	default:
		return false
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".sheetmap" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".sheetmap")
	}

	viper.SetEnvPrefix("SHEETMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: sheetmap config create")
	}
}

// commandLogger builds the logger from the active configuration. Commands
// that run without a valid config still log at the defaults.
func commandLogger() *zap.Logger {
	logCfg := config.LogConfig{
		Level:    viper.GetString(config.KeyLogLevel),
		Encoding: viper.GetString(config.KeyLogEncoding),
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Falling back to default logging:", err)
		logger, _ = logging.New(config.LogConfig{})
	}
	return logger
}

// resolveDBPath prefers the --db flag over the configured database.
func resolveDBPath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if configured := strings.TrimSpace(viper.GetString(config.KeyDatabase)); configured != "" {
		return configured
	}
	return "./sheetmap.db"
}
