// Package config loads application settings and the observer profile
// (sites, visibility windows, ignore list).
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SNWATCH_HTTP_ADDR.
const EnvPrefix = "SNWATCH"

// Config holds the full application configuration.
type Config struct {
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Auth    AuthConfig    `yaml:"auth" mapstructure:"auth"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"required"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gt=0"`
}

// AuthConfig configures optional bearer-token auth. An empty token disables it.
type AuthConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
}

// CatalogConfig configures the catalog source and disk cache.
type CatalogConfig struct {
	URL        string        `yaml:"url" mapstructure:"url" validate:"required"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	CacheDir   string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	CacheFiles int           `yaml:"cache_files" mapstructure:"cache_files" validate:"gte=0"`
}

// SearchConfig holds the default selection parameters.
type SearchConfig struct {
	Magnitude       float64       `yaml:"magnitude" mapstructure:"magnitude" validate:"gte=-30,lte=40"`
	Days            int           `yaml:"days" mapstructure:"days" validate:"gte=0"`
	ObservationTime string        `yaml:"observation_time" mapstructure:"observation_time" validate:"required"`
	Hours           float64       `yaml:"hours" mapstructure:"hours" validate:"gte=0,lte=48"`
	MinAltitude     float64       `yaml:"min_altitude" mapstructure:"min_altitude" validate:"gte=-90,lte=90"`
	Site            string        `yaml:"site" mapstructure:"site" validate:"required"`
	Window          string        `yaml:"window" mapstructure:"window"`
	Workers         int           `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
	PollInterval    time.Duration `yaml:"poll_interval" mapstructure:"poll_interval" validate:"gt=0"`
}

// ReportConfig configures report rendering.
type ReportConfig struct {
	Language  string `yaml:"language" mapstructure:"language" validate:"oneof=en es"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// Load reads configuration from path, or from snwatch.yaml in the user
// config directory when path is empty, then applies SNWATCH_* environment
// overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("snwatch")
		if dir, err := UserDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Dir == "" {
		dir, err := UserDir()
		if err != nil {
			return nil, err
		}
		cfg.Dir = dir
	}
	if cfg.Catalog.CacheDir == "" {
		cfg.Catalog.CacheDir = filepath.Join(cfg.Dir, "cache")
	}
	if cfg.Search.Workers == 0 {
		cfg.Search.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "60s")
	v.SetDefault("auth.token", "")
	v.SetDefault("catalog.url", "https://www.rochesterastronomy.org/snimages/snactive.html")
	v.SetDefault("catalog.timeout", "20s")
	v.SetDefault("catalog.cache_dir", "")
	v.SetDefault("catalog.cache_files", 5)
	v.SetDefault("search.magnitude", 17.0)
	v.SetDefault("search.days", 10)
	v.SetDefault("search.observation_time", "21:00")
	v.SetDefault("search.hours", 3.0)
	v.SetDefault("search.min_altitude", 25.0)
	v.SetDefault("search.site", "Sabadell")
	v.SetDefault("search.window", "")
	v.SetDefault("search.workers", 0)
	v.SetDefault("search.poll_interval", "100ms")
	v.SetDefault("report.language", "en")
	v.SetDefault("report.output_dir", ".")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and the observation time layout.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return eris.Wrap(err, "config: invalid")
	}
	if _, err := time.Parse("15:04", c.Search.ObservationTime); err != nil {
		return eris.Wrapf(err, "config: search.observation_time %q must be HH:MM", c.Search.ObservationTime)
	}
	return nil
}

// UserDir returns the per-user configuration directory: $XDG_CONFIG_HOME,
// ~/Library/Application Support on macOS, %APPDATA% on Windows, otherwise
// ~/.config, each with a getsupernovae subdirectory.
func UserDir() (string, error) {
	const app = "getsupernovae"
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, app), nil
	}
	home, err := os.UserHomeDir()
	if runtime.GOOS == "darwin" && err == nil {
		return filepath.Join(home, "Library", "Application Support", app), nil
	}
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, app), nil
	}
	if err != nil {
		return "", eris.Wrap(err, "config: locate home directory")
	}
	return filepath.Join(home, ".config", app), nil
}
