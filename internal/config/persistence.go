// file: internal/config/persistence.go
// version: 2.0.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the file name looked up in the user's home directory.
const DefaultConfigName = ".kitfinder.yaml"

// DefaultConfigPath returns $HOME/.kitfinder.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigName), nil
}

// toFileMap mirrors the viper keys so a saved file can be read back as-is.
func (c Config) toFileMap() map[string]any {
	return map[string]any{
		"catalog_path":      c.CatalogPath,
		"workers":           c.Workers,
		"language":          c.Language,
		"cache_enabled":     c.CacheEnabled,
		"cache_ttl":         c.CacheTTL.String(),
		"cache_max_entries": c.CacheMaxEntries,
		"max_results":       c.MaxResults,
		"watch_catalog":     c.WatchCatalog,
		"server": map[string]any{
			"host":                  c.Server.Host,
			"port":                  c.Server.Port,
			"read_timeout":          c.Server.ReadTimeout.String(),
			"write_timeout":         c.Server.WriteTimeout.String(),
			"idle_timeout":          c.Server.IdleTimeout.String(),
			"rate_limit_per_minute": c.Server.RateLimitPerMinute,
			"rate_limit_burst":      c.Server.RateLimitBurst,
			"max_body_bytes":        c.Server.MaxBodyBytes,
			"admin_user":            c.Server.AdminUser,
		},
	}
}

// SaveConfigToFile writes cfg as YAML. Existing files are only replaced when
// overwrite is set.
func SaveConfigToFile(cfg Config, path string, overwrite bool) error {
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	data, err := yaml.Marshal(cfg.toFileMap())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Printf("[INFO] Configuration saved to file: %s", path)
	return nil
}
