package config

import "github.com/spf13/viper"

// Default values.
const (
	DefaultSaveDir     = "saves"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultHistorySize = 100
)

// registerKeys tells viper about every key so environment variables bind
// even when no config file mentions them.
func registerKeys(v *viper.Viper) {
	v.SetDefault("content.dir", "")
	v.SetDefault("scenario.path", "")
	v.SetDefault("save.dir", DefaultSaveDir)
	v.SetDefault("save.compress", false)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("ui.plain", false)
	v.SetDefault("ui.history_size", DefaultHistorySize)
}

// SetDefaults fills zero values left after unmarshalling.
func SetDefaults(cfg *Config) {
	if cfg.Save.Dir == "" {
		cfg.Save.Dir = DefaultSaveDir
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.UI.HistorySize == 0 {
		cfg.UI.HistorySize = DefaultHistorySize
	}
}
