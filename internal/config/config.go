package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Archive     ArchiveConfig   `mapstructure:"archive"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Dashboard   DashboardConfig `mapstructure:"dashboard"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// ArchiveConfig describes the historical weather provider.
type ArchiveConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"`
	Timezone  string `mapstructure:"timezone"`
	UserAgent string `mapstructure:"user_agent"`
}

// CacheConfig controls report caching. A TTL of 0 keeps entries for the
// lifetime of the process.
type CacheConfig struct {
	TTL             int `mapstructure:"ttl"`
	CleanupInterval int `mapstructure:"cleanup_interval"`
}

type DashboardConfig struct {
	DefaultLatitude    string `mapstructure:"default_latitude"`
	DefaultLongitude   string `mapstructure:"default_longitude"`
	DefaultStartDate   string `mapstructure:"default_start_date"`
	DefaultEndDate     string `mapstructure:"default_end_date"`
	RowsPerPage        int    `mapstructure:"rows_per_page"`
	AllowedRowsPerPage []int  `mapstructure:"allowed_rows_per_page"`
	BootstrapOnStart   bool   `mapstructure:"bootstrap_on_start"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Archive: ArchiveConfig{
			BaseURL:   "https://archive-api.open-meteo.com/v1",
			Timeout:   0,
			Timezone:  "auto",
			UserAgent: "weather-dashboard/1.0",
		},
		Cache: CacheConfig{
			TTL:             0,
			CleanupInterval: 600,
		},
		Dashboard: DashboardConfig{
			DefaultLatitude:    "52.52",
			DefaultLongitude:   "13.41",
			DefaultStartDate:   "2024-12-09",
			DefaultEndDate:     "2024-12-23",
			RowsPerPage:        10,
			AllowedRowsPerPage: []int{10, 20, 50},
			BootstrapOnStart:   true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "weather-dashboard",
		},
	}
}
