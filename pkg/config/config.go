// Package config loads service configuration from a yaml file with
// environment-variable overrides (FRESHMART_SERVER_ADDR etc).
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
	Redis     Redis     `mapstructure:"redis"`
	Catalog   Catalog   `mapstructure:"catalog"`
	Log       Log       `mapstructure:"log"`
	Sentry    Sentry    `mapstructure:"sentry"`
	Telemetry Telemetry `mapstructure:"telemetry"`
}

type Server struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst int     `mapstructure:"rate_burst"`
}

type Database struct {
	// Driver is "postgres" or "sqlite". sqlite is for local runs and tests.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Catalog struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
	RetryWait  time.Duration `mapstructure:"retry_wait"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type Sentry struct {
	DSN string `mapstructure:"dsn"`
}

type Telemetry struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// Load reads the config file at path (defaults applied first). Missing
// file is not an error so the service can run on defaults + env alone.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:commerce.db?_fk=1")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("catalog.base_url", "http://localhost:8081")
	v.SetDefault("catalog.timeout", 3*time.Second)
	v.SetDefault("catalog.retry_count", 2)
	v.SetDefault("catalog.retry_wait", 200*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4318")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FRESHMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
