// ABOUTME: Configuration management with gateway backend selection
// ABOUTME: Handles settings, user identity, and the gateway factory function

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/gateway/charmgw"
	"github.com/curateapp/curator/internal/gateway/sqlitegw"
)

// Config stores curator configuration.
type Config struct {
	// Backend selects the sync gateway: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local data storage.
	// SQLite puts curator.db here. Supports ~ expansion for home directory.
	// Defaults to ~/.local/share/curator.
	DataDir string `json:"data_dir,omitempty"`

	// UserID scopes all entities to one user. Defaults to "local".
	UserID string `json:"user_id,omitempty"`

	// ListenAddr is the HTTP server bind address. Defaults to ":8484".
	ListenAddr string `json:"listen_addr,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetUserID returns the configured user ID, defaulting to "local".
func (c *Config) GetUserID() string {
	if c.UserID == "" {
		return DefaultUserID
	}
	return c.UserID
}

// GetListenAddr returns the configured HTTP bind address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenGateway creates a sync gateway based on the configured backend.
func (c *Config) OpenGateway() (engine.Gateway, error) {
	switch backend := c.GetBackend(); backend {
	case "sqlite":
		dataDir := c.GetDataDir()
		if err := os.MkdirAll(dataDir, DefaultDirPerms); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return sqlitegw.Open(filepath.Join(dataDir, defaultDBFilename))
	case "charm":
		return charmgw.New()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "curator", "config.json")
}

// Load reads config from disk. A missing file yields defaults and writes
// them back so the user has a file to edit.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk atomically.
func (c *Config) Save() error {
	path := GetConfigPath()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// atomicWrite writes data via a temp file and rename so a crash mid-write
// never leaves a truncated config.
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerms); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// defaultDataDir returns the standard XDG data directory for curator.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "curator")
}
