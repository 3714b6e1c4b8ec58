package config

import (
	"bytes"
	"fmt"
	"sheetmap/worklog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyDatabase    = "database"
	KeyLogLevel    = "log.level"
	KeyLogEncoding = "log.encoding"
	KeyProfiles    = "profiles"
)

type Config struct {
	Database string    `mapstructure:"database" validate:"required"`
	Log      LogConfig `mapstructure:"log"`
	Profiles []Profile `mapstructure:"profiles" validate:"dive"`
}

type LogConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Encoding string `mapstructure:"encoding" validate:"oneof=console json"`
}

// Profile describes how one kind of source file maps onto worklog entries.
type Profile struct {
	Name                        string   `mapstructure:"name" validate:"required"`
	FileTemplate                string   `mapstructure:"file_template"`
	Format                      string   `mapstructure:"format" validate:"omitempty,oneof=csv tsv excel xlsx xlsm"`
	Sheet                       string   `mapstructure:"sheet"`
	Password                    string   `mapstructure:"password"`
	FirstRowIsHeader            *bool    `mapstructure:"first_row_is_header"`
	SkipEmptyHeaderNames        *bool    `mapstructure:"skip_empty_header_names"`
	TrimWhitespaceInHeaderNames bool     `mapstructure:"trim_whitespace_in_header_names"`
	TimeLayout                  string   `mapstructure:"time_layout"`
	Project                     string   `mapstructure:"project"`
	Activity                    string   `mapstructure:"activity"`
	Skill                       string   `mapstructure:"skill"`
	Columns                     []Column `mapstructure:"columns" validate:"dive"`
}

// Column overrides the mapping of one worklog field.
type Column struct {
	Field     string `mapstructure:"field" validate:"required"`
	Name      string `mapstructure:"name"`
	Index     *int   `mapstructure:"index" validate:"omitempty,min=0"`
	Ignore    bool   `mapstructure:"ignore"`
	Converter string `mapstructure:"converter" validate:"omitempty,oneof=default hours minutes datetime"`
}

// HeaderRow reports whether the first row holds column names (default true).
func (p Profile) HeaderRow() bool {
	return p.FirstRowIsHeader == nil || *p.FirstRowIsHeader
}

// SkipEmptyHeaders reports whether blank header cells are skipped (default true).
func (p Profile) SkipEmptyHeaders() bool {
	return p.SkipEmptyHeaderNames == nil || *p.SkipEmptyHeaderNames
}

// ProfileByName finds a profile ignoring case.
func (c Config) ProfileByName(name string) (Profile, bool) {
	for _, profile := range c.Profiles {
		if strings.EqualFold(strings.TrimSpace(profile.Name), strings.TrimSpace(name)) {
			return profile, true
		}
	}
	return Profile{}, false
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# sheetmap configuration
database: "./sheetmap.db"

log:
  level: "info"
  encoding: "console"

profiles:
  - name: "timesheet"
    file_template: "Timesheet*.xlsx"
    sheet: "Entries"
    first_row_is_header: true
    skip_empty_header_names: true
    trim_whitespace_in_header_names: true
    time_layout: "02.01.2006 15:04"
    project: "Internal"
    activity: "Development"
    skill: "Go"
    columns:
      - field: "StartDateTime"
        name: "Start"
        converter: "datetime"
      - field: "EndDateTime"
        name: "End"
        converter: "datetime"
      - field: "Billable"
        name: "Hours"
        converter: "hours"
      - field: "Skill"
        ignore: true
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateProfiles(cfg.Profiles); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabase, "./sheetmap.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogEncoding, "console")
	v.SetDefault(KeyProfiles, []map[string]any{})
}

func validateProfiles(profiles []Profile) error {
	fields := make(map[string]bool)
	for _, field := range new(worklog.Entry).Fields() {
		fields[field.Name()] = true
	}

	seen := make(map[string]struct{}, len(profiles))
	for i, profile := range profiles {
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			return fmt.Errorf("validation failed: profiles[%d].name is required", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate profile name %q", name)
		}
		seen[key] = struct{}{}

		mapped := make(map[string]struct{}, len(profile.Columns))
		for j, column := range profile.Columns {
			if !fields[column.Field] {
				return fmt.Errorf("validation failed: profiles[%d].columns[%d].field %q is not a worklog field", i, j, column.Field)
			}
			if _, exists := mapped[column.Field]; exists {
				return fmt.Errorf("validation failed: profiles[%d] maps field %q twice", i, column.Field)
			}
			mapped[column.Field] = struct{}{}

			targets := 0
			if strings.TrimSpace(column.Name) != "" {
				targets++
			}
			if column.Index != nil {
				targets++
			}
			if column.Ignore {
				targets++
			}
			if targets > 1 {
				return fmt.Errorf("validation failed: profiles[%d].columns[%d] sets more than one of name/index/ignore", i, j)
			}
			if !profile.HeaderRow() && !column.Ignore && column.Index == nil {
				return fmt.Errorf("validation failed: profiles[%d].columns[%d] needs an index when first_row_is_header is false", i, j)
			}
		}
	}
	return nil
}
