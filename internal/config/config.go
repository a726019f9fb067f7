// Package config reads the server's focusd.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr     string         `yaml:"addr"`
	Database DatabaseConfig `yaml:"database"`
	Chat     ChatConfig     `yaml:"chat"`
	Auth     AuthConfig     `yaml:"auth"`
}

type DatabaseConfig struct {
	// Driver selects the repository: "sqlite3" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ChatConfig struct {
	GatewayURL string `yaml:"gateway_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
}

type AuthConfig struct {
	// DevUser is the identity assumed when no auth header is present.
	// Leave empty in production; requests without an identity then fail
	// with 401.
	DevUser string `yaml:"dev_user"`
}

func Default() Config {
	return Config{
		Addr: ":8080",
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "focusd.db",
		},
		Chat: ChatConfig{
			GatewayURL: "https://ai.gateway.lovable.dev/v1/chat/completions",
			Model:      "google/gemini-3-flash-preview",
		},
	}
}

// Load reads the config file at path, filling unset fields from defaults.
// A missing file yields the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}

	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database dsn must not be empty")
	}

	if c.Chat.GatewayURL == "" {
		return fmt.Errorf("config: chat gateway_url must not be empty")
	}
	if c.Chat.Model == "" {
		return fmt.Errorf("config: chat model must not be empty")
	}

	return nil
}
