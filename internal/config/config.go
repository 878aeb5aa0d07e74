// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for appify.
type Config struct {
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string        `mapstructure:"log_file" yaml:"log_file"`
	TickInterval   time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
	MaxIncrement   float64       `mapstructure:"max_increment" yaml:"max_increment"`
	QRServiceURL   string        `mapstructure:"qr_service_url" yaml:"qr_service_url"`
	QRSize         int           `mapstructure:"qr_size" yaml:"qr_size"`
	AppBaseURL     string        `mapstructure:"app_base_url" yaml:"app_base_url"`
	PreviewTimeout time.Duration `mapstructure:"preview_timeout" yaml:"preview_timeout"`
	ScreenSize     string        `mapstructure:"screen_size" yaml:"screen_size"`
	PackagePrefix  string        `mapstructure:"package_prefix" yaml:"package_prefix"`
}

// defaults is the lowest-precedence layer. Every key here is also bound to an
// APPIFY_<KEY> environment variable.
var defaults = map[string]any{
	"log_level":       "info",
	"log_file":        "",
	"tick_interval":   "500ms",
	"max_increment":   15.0,
	"qr_service_url":  "https://api.qrserver.com/v1/create-qr-code/",
	"qr_size":         200,
	"app_base_url":    "https://appify-demo.com/app",
	"preview_timeout": "10s",
	"screen_size":     "medium",
	"package_prefix":  "com.appify",
}

// Default returns the configuration used when no file or env var is present.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		TickInterval:   500 * time.Millisecond,
		MaxIncrement:   15,
		QRServiceURL:   "https://api.qrserver.com/v1/create-qr-code/",
		QRSize:         200,
		AppBaseURL:     "https://appify-demo.com/app",
		PreviewTimeout: 10 * time.Second,
		ScreenSize:     "medium",
		PackagePrefix:  "com.appify",
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
// CLI flags are applied by the caller on the returned value.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("appify")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("APPIFY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env-only keys.
	for key := range defaults {
		if err := v.BindEnv(key, "APPIFY_"+strings.ToUpper(key)); err != nil {
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

// Validate rejects values the wizard cannot run with.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.MaxIncrement <= 0 || c.MaxIncrement > 100 {
		return fmt.Errorf("max_increment must be in (0, 100], got %v", c.MaxIncrement)
	}
	if c.QRSize <= 0 {
		return fmt.Errorf("qr_size must be positive, got %d", c.QRSize)
	}
	if c.PreviewTimeout <= 0 {
		return fmt.Errorf("preview_timeout must be positive, got %s", c.PreviewTimeout)
	}
	for name, raw := range map[string]string{"qr_service_url": c.QRServiceURL, "app_base_url": c.AppBaseURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	switch c.ScreenSize {
	case "small", "medium", "large":
	default:
		return fmt.Errorf("screen_size must be small, medium or large, got %q", c.ScreenSize)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/appify/appify.yml or $XDG_CONFIG_HOME/appify/appify.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "appify", "appify.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "appify", "appify.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "appify.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	return write(GlobalPath(), cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(toFile(cfg))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileConfig is the on-disk shape: durations are written as "500ms" rather
// than nanosecond integers.
type fileConfig struct {
	LogLevel       string  `yaml:"log_level"`
	LogFile        string  `yaml:"log_file"`
	TickInterval   string  `yaml:"tick_interval"`
	MaxIncrement   float64 `yaml:"max_increment"`
	QRServiceURL   string  `yaml:"qr_service_url"`
	QRSize         int     `yaml:"qr_size"`
	AppBaseURL     string  `yaml:"app_base_url"`
	PreviewTimeout string  `yaml:"preview_timeout"`
	ScreenSize     string  `yaml:"screen_size"`
	PackagePrefix  string  `yaml:"package_prefix"`
}

func toFile(cfg *Config) fileConfig {
	return fileConfig{
		LogLevel:       cfg.LogLevel,
		LogFile:        cfg.LogFile,
		TickInterval:   cfg.TickInterval.String(),
		MaxIncrement:   cfg.MaxIncrement,
		QRServiceURL:   cfg.QRServiceURL,
		QRSize:         cfg.QRSize,
		AppBaseURL:     cfg.AppBaseURL,
		PreviewTimeout: cfg.PreviewTimeout.String(),
		ScreenSize:     cfg.ScreenSize,
		PackagePrefix:  cfg.PackagePrefix,
	}
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
