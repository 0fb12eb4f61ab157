// Package config loads application configuration from config.yaml and the
// SAADDR_* environment, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Mapbox   MapboxConfig   `yaml:"mapbox" mapstructure:"mapbox"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Generate GenerateConfig `yaml:"generate" mapstructure:"generate"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the suburb reference dataset and preset files.
type DataConfig struct {
	File    string `yaml:"file" mapstructure:"file"`
	Presets string `yaml:"presets" mapstructure:"presets"`
}

// MapboxConfig holds Mapbox Geocoding API settings.
type MapboxConfig struct {
	Token         string  `yaml:"token" mapstructure:"token"`
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// CacheConfig configures the coordinate cache backend.
type CacheConfig struct {
	// Driver is one of "file", "sqlite", or "postgres".
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// GenerateConfig tunes the address generation pipeline.
type GenerateConfig struct {
	JitterKm      float64 `yaml:"jitter_km" mapstructure:"jitter_km"`
	CallDelayMs   int     `yaml:"call_delay_ms" mapstructure:"call_delay_ms"`
	DefaultPreset string  `yaml:"default_preset" mapstructure:"default_preset"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SAADDR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.file", "data/sa_suburbs.csv")
	v.SetDefault("cache.driver", "file")
	v.SetDefault("cache.path", "data/coordinate_cache.json")
	v.SetDefault("mapbox.rate_per_second", 10)
	v.SetDefault("generate.jitter_km", 1.5)
	v.SetDefault("generate.call_delay_ms", 100)
	v.SetDefault("generate.default_preset", "balanced")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
