// Package config loads run settings for the excelpostprocessor command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/DBMI/ExcelPostprocessor/internal/logging"
	"github.com/DBMI/ExcelPostprocessor/pkg/postprocessor"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultSettingsFile is read from the working directory when no settings
// file is given.
const DefaultSettingsFile = "excelpostprocessor.yaml"

// EnvPrefix prefixes environment variables, e.g. EXPP_LOG_LEVEL.
const EnvPrefix = "EXPP_"

// DotEnvFile holds EXPP_ variables in the working directory. Real
// environment variables take precedence over it.
const DotEnvFile = ".env"

// Settings holds the command's run settings.
type Settings struct {
	// Config is the rule document path.
	Config    string   `koanf:"config"`
	OutputDir string   `koanf:"output_dir"`
	Password  string   `koanf:"password"`
	Sheets    []string `koanf:"sheets"`
	LogLevel  string   `koanf:"log_level"`
	LogFormat string   `koanf:"log_format"`
	Summary   bool     `koanf:"summary"`
}

// Options converts the settings into postprocessor options. The logger is
// left for the caller to set.
func (s *Settings) Options() postprocessor.Options {
	opts := postprocessor.DefaultOptions()
	if s.Config != "" {
		opts.ConfigPath = s.Config
	}
	opts.OutputDir = s.OutputDir
	opts.Password = s.Password
	opts.Sheets = s.Sheets
	return opts
}

// Validate checks the settings values.
func (s *Settings) Validate() error {
	if s.Config == "" {
		return fmt.Errorf("config: rule document path is empty")
	}
	return logging.Validate(s.LogLevel, s.LogFormat)
}

// Load builds Settings from defaults, the settings file, a .env file,
// EXPP_ environment variables and explicitly set flags.
// Precedence (highest to lowest): flags > env vars > .env > settings file > defaults
func Load(settingsFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"config":     postprocessor.DefaultConfigPath,
		"output_dir": "",
		"password":   "",
		"log_level":  "info",
		"log_format": "text",
		"summary":    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Settings file
	if path := findSettingsFile(settingsFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", path, err)
		}
	}

	// 3. .env file
	if dotenv, err := readDotEnv(DotEnvFile); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", DotEnvFile, err)
	} else if len(dotenv) > 0 {
		if err := k.Load(confmap.Provider(dotenv, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
		}
	}

	// 4. Environment variables, EXPP_OUTPUT_DIR -> output_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			// --sheet is repeatable and fills the sheets list
			if key == "sheet" {
				return "sheets", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// envKey maps EXPP_OUTPUT_DIR to output_dir.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// readDotEnv returns the EXPP_ entries of a .env file as settings keys.
// A missing file yields no entries.
func readDotEnv(path string) (map[string]interface{}, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}

	out := make(map[string]interface{})
	for key, value := range vars {
		if strings.HasPrefix(key, EnvPrefix) {
			out[envKey(key)] = value
		}
	}
	return out, nil
}

// findSettingsFile returns explicit if set, else the default settings file
// when it exists in the working directory.
func findSettingsFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultSettingsFile); err == nil {
		return DefaultSettingsFile
	}
	return ""
}
