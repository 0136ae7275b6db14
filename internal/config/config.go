package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
)

// DefaultDir is where config.yaml is looked up when no directory is given.
const DefaultDir = "./configs"

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port                   int    `mapstructure:"port"`
		BaseURL                string `mapstructure:"base_url"`
		Mode                   string `mapstructure:"mode"` // gin mode: debug, release or test
		ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
	} `mapstructure:"server"`

	// Database configuration section; driver is "sqlite" or "postgres"
	Database struct {
		Driver   string `mapstructure:"driver"`
		Name     string `mapstructure:"name"` // SQLite database file name
		DSN      string `mapstructure:"dsn"`  // PostgreSQL connection string
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"database"`

	// Admin holds the shared secret gating every admin route.
	// An empty token disables the admin area entirely.
	Admin struct {
		Token string `mapstructure:"token"`
	} `mapstructure:"admin"`

	// Catalog controls page sizes of the public views
	Catalog struct {
		PageSize       int `mapstructure:"page_size"`
		APIPageSize    int `mapstructure:"api_page_size"`
		APIMaxPageSize int `mapstructure:"api_max_page_size"`
		HomeLimit      int `mapstructure:"home_limit"`
	} `mapstructure:"catalog"`

	Log struct {
		Level      string `mapstructure:"level"`
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxAgeDays int    `mapstructure:"max_age_days"`
	} `mapstructure:"log"`

	// Monitor configuration for the affiliate URL check
	Monitor struct {
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
	} `mapstructure:"monitor"`
}

// LoadConfig loads the application configuration from dir/config.yaml.
// A .env file in the working directory is loaded first; environment variables
// override file values ("server.port" is read from SERVER_PORT).
// A missing config file is not an error: defaults are used.
func LoadConfig(dir string) (*Config, error) {
	if dir == "" {
		dir = DefaultDir
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ErrConfigLoad{Path: ".env", Reason: err.Error()}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, apperrors.ErrConfigLoad{Path: dir, Reason: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout_seconds", 5)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.name", "course_catalog.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("admin.token", "")
	v.SetDefault("catalog.page_size", 9)
	v.SetDefault("catalog.api_page_size", 10)
	v.SetDefault("catalog.api_max_page_size", 100)
	v.SetDefault("catalog.home_limit", 6)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("monitor.timeout_seconds", 5)
}
