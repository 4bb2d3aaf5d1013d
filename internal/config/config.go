// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	appName  = "mailman"
	fileName = "mailman.yml"
)

// Config holds all configuration values for mailman.
type Config struct {
	DataDir     string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel    string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile     string        `mapstructure:"log_file" yaml:"log_file"`
	Owner       string        `mapstructure:"owner" yaml:"owner"`
	MetricsAddr string        `mapstructure:"metrics_addr" yaml:"metrics_addr"`
	MCPPort     int           `mapstructure:"mcp_port" yaml:"mcp_port"`
	MinLoading  time.Duration `mapstructure:"min_loading" yaml:"min_loading"`
	EditorApp   string        `mapstructure:"editor_app" yaml:"editor_app"`
	HooksDir    string        `mapstructure:"hooks_dir" yaml:"hooks_dir"`
}

// defaults are applied before any file or environment source.
var defaults = map[string]any{
	"data_dir":     ".mailman",
	"log_level":    "info",
	"log_file":     "",
	"owner":        "",
	"metrics_addr": "",
	"mcp_port":     0,
	"min_loading":  "5s",
	"editor_app":   appName,
	"hooks_dir":    ".",
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		DataDir:    ".mailman",
		LogLevel:   "info",
		MinLoading: 5 * time.Second,
		EditorApp:  appName,
		HooksDir:   ".",
	}
}

// Load loads configuration with full precedence:
// ENV vars > project config > XDG global config > defaults.
// CLI flags are applied on top by the caller.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(appName)

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("MAILMAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env-only keys.
	for key := range defaults {
		envName := "MAILMAN_" + strings.ToUpper(key)
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports values that would break startup.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.MCPPort < 0 || c.MCPPort > 65535 {
		return fmt.Errorf("mcp_port must be between 0 and 65535, got %d", c.MCPPort)
	}
	if c.MinLoading < 0 {
		return fmt.Errorf("min_loading must not be negative")
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/mailman/mailman.yml or $XDG_CONFIG_HOME/mailman/mailman.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, fileName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName, fileName)
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return fileName
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
