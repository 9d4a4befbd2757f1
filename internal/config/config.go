// Package config loads the tool's TOML configuration and applies
// COMPOUND_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/MokshC/Compound/internal/timecode"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COMPOUND"

// PathEnv names the variable holding the default config path.
const PathEnv = "COMPOUND_CONFIG"

// DefaultPath is used when neither -config nor COMPOUND_CONFIG is set.
const DefaultPath = "compound.toml"

// Config is the decoded configuration.
type Config struct {
	LogLevel            string  `toml:"log_level" envconfig:"LOG_LEVEL"`
	NamePrefix          string  `toml:"name_prefix" envconfig:"NAME_PREFIX"`
	DefaultMediaFPS     float64 `toml:"default_media_fps" envconfig:"DEFAULT_MEDIA_FPS"`
	ProbeTimeoutSeconds int     `toml:"probe_timeout_seconds" envconfig:"PROBE_TIMEOUT_SECONDS"`
	Report              Report  `toml:"report" envconfig:"REPORT"`
	Fields              []Field `toml:"fields" ignored:"true"`
}

// Report configures the report output.
type Report struct {
	Sheet     string `toml:"sheet" envconfig:"SHEET"`
	Separator string `toml:"separator" envconfig:"SEPARATOR"`
}

// Field is one report column. Value is a text/template executed against a
// report row.
type Field struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// DefaultFields are the report columns used when the config has none.
var DefaultFields = []Field{
	{Name: "Item", Value: "{{.Item}}"},
	{Name: "Name", Value: "{{.Name}}"},
	{Name: "File", Value: "{{.FileName}}"},
	{Name: "FPS", Value: "{{.FPS}}"},
	{Name: "Drop Frame", Value: "{{if .DropFrame}}DF{{else}}NDF{{end}}"},
	{Name: "Source TC", Value: "{{.SourceTimecode}}"},
	{Name: "Left Offset", Value: "{{.LeftOffset}}"},
	{Name: "Start Frame", Value: "{{.StartFrame}}"},
	{Name: "Start TC", Value: "{{.StartTimecode}}"},
	{Name: "Compound Name", Value: "{{.CompoundName}}"},
}

// Default returns the configuration used before any file or environment
// override is applied.
func Default() *Config {
	return &Config{
		LogLevel:            "info",
		NamePrefix:          "_",
		DefaultMediaFPS:     float64(timecode.Rate23976),
		ProbeTimeoutSeconds: 10,
		Report: Report{
			Sheet:     "Sheet1",
			Separator: "\t",
		},
	}
}

// ResolvePath picks the config path: flag, then COMPOUND_CONFIG, then
// DefaultPath. explicit reports whether the file must exist.
func ResolvePath(flagValue string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if env := os.Getenv(PathEnv); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// Load decodes the file at path over the defaults, then applies environment
// overrides and validates the result. A missing file is only an error when
// explicit is set. Unknown keys are rejected.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, os.ErrNotExist) && !explicit:
		case err != nil:
			return nil, fmt.Errorf("could not decode config file (toml): %w", err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, 0, len(undecoded))
				for _, k := range undecoded {
					keys = append(keys, k.String())
				}
				sort.Strings(keys)
				return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
			}
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	if len(cfg.Fields) == 0 {
		cfg.Fields = append([]Field(nil), DefaultFields...)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values a decoder cannot.
func Validate(cfg *Config) error {
	if err := timecode.Rate(cfg.DefaultMediaFPS).Validate(); err != nil {
		return fmt.Errorf("default_media_fps: %w", err)
	}
	if cfg.ProbeTimeoutSeconds < 0 {
		return fmt.Errorf("probe_timeout_seconds must not be negative: %d", cfg.ProbeTimeoutSeconds)
	}
	if cfg.Report.Sheet == "" {
		return fmt.Errorf("report.sheet must not be empty")
	}
	seen := make(map[string]bool, len(cfg.Fields))
	for i, f := range cfg.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("fields[%d]: missing name", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("fields[%d]: duplicate name %q", i, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// ProbeTimeout is the ffprobe timeout; zero means none.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// DefaultMediaRate is the rate reported for items without media.
func (c *Config) DefaultMediaRate() timecode.Rate {
	return timecode.Rate(c.DefaultMediaFPS)
}
