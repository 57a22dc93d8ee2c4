// Package config loads runtime configuration from .ls-natal.yaml,
// LSNATAL_* environment variables and CLI flags via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/wheel"
)

// Defaults and bounds.
const (
	DefaultAPIURL   = "http://localhost:8080"
	DefaultTimeout  = 30 * time.Second
	MinTimeout      = 1 * time.Second
	MaxTimeout      = 2 * time.Minute
	DefaultCacheTTL = 30 * 24 * time.Hour
	DefaultAddr     = "127.0.0.1:8090"

	MinWheelSize = 100.0
	MaxWheelSize = 2000.0

	EnvPrefix  = "LSNATAL"
	ConfigName = ".ls-natal"
)

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Config holds all runtime configuration.
type Config struct {
	APIURL        string        `mapstructure:"api_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	LogLevel      string        `mapstructure:"log_level"`
	ThemeFile     string        `mapstructure:"theme_file"`
	CachePath     string        `mapstructure:"cache_path"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	DetectAspects bool          `mapstructure:"detect_aspects"`
	Wheel         wheel.Config  `mapstructure:"wheel"`
	Server        ServerConfig  `mapstructure:"server"`
}

// SetDefaults registers a default for every key so that environment
// variables bind even without a config file.
func SetDefaults(v *viper.Viper) {
	w := wheel.DefaultConfig()

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", "info")
	v.SetDefault("theme_file", theme.DefaultPath())
	v.SetDefault("cache_path", defaultCachePath())
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("detect_aspects", false)

	v.SetDefault("wheel.max_size", w.MaxSize)
	v.SetDefault("wheel.radius_fraction", w.RadiusFraction)
	v.SetDefault("wheel.angle_offset", w.AngleOffset)
	v.SetDefault("wheel.house_ring_fraction", w.HouseRingFraction)
	v.SetDefault("wheel.aspect_fraction", w.AspectFraction)
	v.SetDefault("wheel.marker_fraction", w.MarkerFraction)
	v.SetDefault("wheel.house_number_fraction", w.HouseNumberFraction)
	v.SetDefault("wheel.zodiac_label_offset", w.ZodiacLabelOffset)
	v.SetDefault("wheel.axis_label_offset", w.AxisLabelOffset)
	v.SetDefault("wheel.marker_size_fraction", w.MarkerSizeFraction)
	v.SetDefault("wheel.hub_size_fraction", w.HubSizeFraction)
	v.SetDefault("wheel.show_hub", w.ShowHub)
	v.SetDefault("wheel.aspect_hit_tolerance", w.AspectHitTolerance)

	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.cors_origins", []string{"*"})
}

// Init points v at the config file (explicit path, or .ls-natal.yaml in the
// working or home directory) and the LSNATAL_ environment. A missing config
// file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load unmarshals and clamps the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.clamp()
	return cfg, nil
}

func (c *Config) clamp() {
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}

	if c.Timeout < MinTimeout {
		c.Timeout = MinTimeout
	}
	if c.Timeout > MaxTimeout {
		c.Timeout = MaxTimeout
	}

	if c.CacheTTL < 0 {
		c.CacheTTL = 0
	}

	if c.Wheel.MaxSize < MinWheelSize {
		c.Wheel.MaxSize = MinWheelSize
	}
	if c.Wheel.MaxSize > MaxWheelSize {
		c.Wheel.MaxSize = MaxWheelSize
	}
	if c.Wheel.RadiusFraction <= 0 || c.Wheel.RadiusFraction > 0.5 {
		c.Wheel.RadiusFraction = wheel.DefaultRadiusFraction
	}
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "ls-natal-cache.db"
	}
	return filepath.Join(dir, "ls-natal", "charts.db")
}
