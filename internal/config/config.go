// Package config loads twig settings from defaults, a config file, the
// environment and finally command line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/limaJavier/twig/pkg/model"
)

const EnvPrefix = "TWIG_"

// Files looked up in the working directory, then beside the executable, when no config file is given
var DefaultFiles = []string{"twig.json", "twig.toml"}

type Sheets struct {
	Classwise    string `mapstructure:"classwise" validate:"required"`
	Teacherwise  string `mapstructure:"teacherwise" validate:"required"`
	Teachers     string `mapstructure:"teachers" validate:"required"`
	Vacant       string `mapstructure:"vacant" validate:"required"`
	FreeTeachers string `mapstructure:"free_teachers" validate:"required"`
}

type Config struct {
	Periods         int    `mapstructure:"periods" validate:"min=1,max=24"`
	Days            int    `mapstructure:"days" validate:"min=1,max=31"`
	WeekDays        int    `mapstructure:"week_days" validate:"min=1,ltefield=Days"` // Days shown on the vacancy sheets
	FullWeek        int    `mapstructure:"full_week" validate:"min=0,ltefield=Days"` // Zero disables the coverage check
	Separator       string `mapstructure:"separator" validate:"required"`
	CombineSections bool   `mapstructure:"combine_sections"`
	RepeatLimit     int    `mapstructure:"repeat_limit" validate:"min=0"` // Zero disables the repeated lessons check
	FullName        bool   `mapstructure:"fullname"`
	KeepStamp       bool   `mapstructure:"keepstamp"`
	LogLevel        string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Sheets          Sheets `mapstructure:"sheets"`
}

func Default() *Config {
	return &Config{
		Periods:     model.DefaultPeriods,
		Days:        model.DefaultDays,
		WeekDays:    6,
		Separator:   model.DefaultSeparator,
		RepeatLimit: 2,
		LogLevel:    "info",
		Sheets: Sheets{
			Classwise:    "CLASSWISE",
			Teacherwise:  "TEACHERWISE",
			Teachers:     "TEACHERS",
			Vacant:       "VACANT",
			FreeTeachers: "FREE_TEACHERS",
		},
	}
}

// Load builds the configuration in priority order:
// 1. Defaults
// 2. Config file (the given path, or the first of DefaultFiles found)
// 3. Environment variables (TWIG_*), including those from a .env file
//
// Flags are applied by the caller, which then calls Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	//** Config file
	if path == "" {
		path = defaultPath()
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	//** Environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}
	if err := decode(envValues(), cfg, false); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	return cfg, nil
}

func defaultPath() string {
	dirs := []string{"."}
	if executable, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(executable))
	}

	candidates := lo.FlatMap(dirs, func(dir string, _ int) []string {
		return lo.Map(DefaultFiles, func(file string, _ int) string { return filepath.Join(dir, file) })
	})
	path, _ := lo.Find(candidates, func(candidate string) bool {
		info, err := os.Stat(candidate)
		return err == nil && !info.IsDir()
	})
	return path
}

func loadFile(cfg *Config, path string) error {
	values := make(map[string]any)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		bytes, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(bytes, &values); err != nil {
			return err
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &values); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	return decode(values, cfg, true)
}

// decode overlays the values onto cfg; keys absent from values keep their current setting.
// Strict decoding rejects unknown keys.
func decode(values map[string]any, cfg *Config, strict bool) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}

// envValues collects TWIG_* variables, e.g. TWIG_PERIODS=8 or TWIG_SHEETS_CLASSWISE=CW
func envValues() map[string]any {
	values := make(map[string]any)
	sheets := make(map[string]any)

	for _, entry := range os.Environ() {
		name, value, _ := strings.Cut(entry, "=")
		if !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if sheet, ok := strings.CutPrefix(key, "sheets_"); ok {
			sheets[sheet] = value
			continue
		}
		values[key] = value
	}

	if len(sheets) > 0 {
		values["sheets"] = sheets
	}
	return values
}

// Validate checks the final configuration and normalizes escaped separators
func (cfg *Config) Validate() error {
	cfg.Separator = UnescapeSeparator(cfg.Separator)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// UnescapeSeparator turns the two-character sequences "\n" and "\t" typed on a command line into the real characters
func UnescapeSeparator(separator string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(separator)
}

// EscapeSeparator is the inverse of UnescapeSeparator, used for display
func EscapeSeparator(separator string) string {
	return strings.NewReplacer("\n", `\n`, "\t", `\t`).Replace(separator)
}

func (cfg *Config) ParserOptions() model.ParserOptions {
	return model.ParserOptions{Separator: cfg.Separator, Days: cfg.Days, FullWeek: cfg.FullWeek}
}

func (cfg *Config) TransposerOptions() model.TransposerOptions {
	return model.TransposerOptions{Periods: cfg.Periods, CombineSections: cfg.CombineSections}
}
