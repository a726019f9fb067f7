package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %q, want :8080", cfg.Addr)
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Database.DSN != "focusd.db" {
		t.Fatalf("database defaults wrong: %+v", cfg.Database)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusd.yaml")
	data := `addr: ":9090"
database:
  driver: postgres
  dsn: "host=localhost dbname=focusd sslmode=disable"
auth:
  dev_user: local-dev
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Auth.DevUser != "local-dev" {
		t.Fatalf("dev_user = %q, want local-dev", cfg.Auth.DevUser)
	}
	// Untouched sections keep their defaults.
	if cfg.Chat.Model == "" {
		t.Fatalf("chat model default lost")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown driver", "database:\n  driver: mysql\n"},
		{"empty addr", `addr: ""` + "\n"},
		{"empty dsn", "database:\n  dsn: \"\"\n"},
		{"bad yaml", "addr: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "focusd.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("invalid config accepted")
			}
		})
	}
}
