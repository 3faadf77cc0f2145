// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Host               string
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
	MaxBodyBytes       int64
	// Reload endpoint credentials; empty user disables the check
	AdminUser     string
	AdminPassword string
}

// Config holds application configuration
type Config struct {
	CatalogPath     string
	Workers         int
	Language        string
	CacheEnabled    bool
	CacheTTL        time.Duration
	CacheMaxEntries int
	MaxResults      int // 0 = unlimited
	WatchCatalog    bool
	LogFile         string
	Server          ServerConfig
}

var AppConfig Config

// SetDefaults registers default values with viper
func SetDefaults() {
	viper.SetDefault("workers", 1)
	viper.SetDefault("language", "en")
	viper.SetDefault("cache_enabled", true)
	viper.SetDefault("cache_ttl", "5m")
	viper.SetDefault("cache_max_entries", 1024)
	viper.SetDefault("max_results", 0)
	viper.SetDefault("watch_catalog", true)

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.rate_limit_per_minute", 600)
	viper.SetDefault("server.rate_limit_burst", 60)
	viper.SetDefault("server.max_body_bytes", 1<<20)
}

// InitConfig initializes the application configuration from viper
func InitConfig() {
	SetDefaults()

	AppConfig = Config{
		CatalogPath:     viper.GetString("catalog_path"),
		Workers:         viper.GetInt("workers"),
		Language:        viper.GetString("language"),
		CacheEnabled:    viper.GetBool("cache_enabled"),
		CacheTTL:        viper.GetDuration("cache_ttl"),
		CacheMaxEntries: viper.GetInt("cache_max_entries"),
		MaxResults:      viper.GetInt("max_results"),
		WatchCatalog:    viper.GetBool("watch_catalog"),
		LogFile:         viper.GetString("log_file"),
		Server: ServerConfig{
			Host:               viper.GetString("server.host"),
			Port:               viper.GetString("server.port"),
			ReadTimeout:        viper.GetDuration("server.read_timeout"),
			WriteTimeout:       viper.GetDuration("server.write_timeout"),
			IdleTimeout:        viper.GetDuration("server.idle_timeout"),
			RateLimitPerMinute: viper.GetInt("server.rate_limit_per_minute"),
			RateLimitBurst:     viper.GetInt("server.rate_limit_burst"),
			MaxBodyBytes:       viper.GetInt64("server.max_body_bytes"),
			AdminUser:          viper.GetString("server.admin_user"),
			AdminPassword:      viper.GetString("server.admin_password"),
		},
	}

	// Normalize
	if AppConfig.Workers < 1 {
		AppConfig.Workers = 1
	}
	if AppConfig.Language == "" {
		AppConfig.Language = "en"
	}
}

// Validate checks values that cannot be normalized silently
func (c Config) Validate() error {
	if _, err := c.LanguageTag(); err != nil {
		return err
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("max_results must not be negative, got %d", c.MaxResults)
	}
	if c.Server.RateLimitPerMinute < 1 || c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("server rate limits must be at least 1")
	}
	if c.Server.AdminUser != "" && c.Server.AdminPassword == "" {
		return fmt.Errorf("server.admin_password is required when server.admin_user is set")
	}
	return nil
}

// LanguageTag parses the configured BCP-47 language used for kit name ordering
func (c Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language %q: %w", c.Language, err)
	}
	return tag, nil
}
