// Package config loads datatad settings from flags, the environment and an
// optional datatad.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood in datatad.yaml and as DATATAD_* environment variables.
const (
	KeySheet        = "sheet"
	KeyRange        = "range"
	KeyDelimiter    = "delimiter"
	KeyLogLevel     = "log_level"
	KeyExcelMaxRows = "excel_max_rows"
	KeyNoPrompt     = "no_prompt"
)

// EnvPrefix is prepended to every key looked up in the environment.
const EnvPrefix = "DATATAD"

// Config holds the settings of one invocation.
type Config struct {
	Sheet        string
	Range        string
	Delimiter    rune
	LogLevel     string
	ExcelMaxRows int
	NoPrompt     bool

	// File is the config file that was read, if any.
	File string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{LogLevel: "info"}
}

// Load builds a Config. An explicit file must exist; otherwise datatad.yaml
// is looked up in the working directory and ~/.config/datatad. Flags in fs
// are bound by key name (with "_" written as "-") and take precedence over
// the environment and the file.
func Load(file string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault(KeyLogLevel, defaults.LogLevel)
	v.SetDefault(KeyExcelMaxRows, 0)
	v.SetDefault(KeyNoPrompt, false)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("datatad")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "datatad"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if fs != nil {
		for _, key := range []string{KeySheet, KeyRange, KeyDelimiter, KeyLogLevel, KeyExcelMaxRows, KeyNoPrompt} {
			if f := fs.Lookup(flagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	delim, err := ParseDelimiter(v.GetString(KeyDelimiter))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Sheet:        v.GetString(KeySheet),
		Range:        v.GetString(KeyRange),
		Delimiter:    delim,
		LogLevel:     v.GetString(KeyLogLevel),
		ExcelMaxRows: v.GetInt(KeyExcelMaxRows),
		NoPrompt:     v.GetBool(KeyNoPrompt),
		File:         v.ConfigFileUsed(),
	}
	if cfg.ExcelMaxRows < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %d", KeyExcelMaxRows, cfg.ExcelMaxRows)
	}
	return cfg, nil
}

// ParseDelimiter reads a delimiter setting. The empty string means unset,
// "t", "tab" and `\t` mean a tab, and anything else must be one character.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "t", "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r, nil
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
