// Package config loads biorome settings from a config file, the environment
// and defaults, and builds the process logger.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BIOROME_LOGGING_LEVEL.
const EnvPrefix = "BIOROME"

// Config is the main configuration struct combining all sub-configs.
type Config struct {
	Content  ContentConfig  `mapstructure:"content"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Save     SaveConfig     `mapstructure:"save"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
}

// ContentConfig selects the Lua content set. An empty Dir means the
// embedded default content.
type ContentConfig struct {
	Dir string `mapstructure:"dir"`
}

// ScenarioConfig names the YAML world loaded at startup, if any.
type ScenarioConfig struct {
	Path string `mapstructure:"path"`
}

// SaveConfig controls where /save and /load put snapshots.
type SaveConfig struct {
	Dir      string `mapstructure:"dir" validate:"required"`
	Compress bool   `mapstructure:"compress"`
}

// UIConfig holds front-end preferences.
type UIConfig struct {
	Plain       bool `mapstructure:"plain"`
	HistorySize int  `mapstructure:"history_size" validate:"min=1,max=10000"`
}

// Load reads configuration with priority:
// 1. Environment variables (highest priority)
// 2. Config file (biorome.yaml, or configPath when given)
// 3. Defaults (lowest priority)
func Load(configPath string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("biorome")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.biorome")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}
