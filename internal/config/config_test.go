// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "0.0.0.0:8080"

database:
  path: "./test.db"

auth:
  password_scheme: "bcrypt"
  oauth_token_ttl: "1h"
  session_max_age: "720h"

web:
  base_url: "https://backpack.example.com"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:8080")
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Auth.PasswordScheme != "bcrypt" {
		t.Errorf("Auth.PasswordScheme = %q, want bcrypt", cfg.Auth.PasswordScheme)
	}
	if cfg.Auth.OAuthTokenTTL != time.Hour {
		t.Errorf("Auth.OAuthTokenTTL = %v, want 1h", cfg.Auth.OAuthTokenTTL)
	}
	if cfg.Auth.SessionMaxAge != 720*time.Hour {
		t.Errorf("Auth.SessionMaxAge = %v, want 720h", cfg.Auth.SessionMaxAge)
	}
	if cfg.Web.BaseURL != "https://backpack.example.com" {
		t.Errorf("Web.BaseURL = %q", cfg.Web.BaseURL)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("BACKPACK_TEST_DB", "/data/backpack.db")

	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: "${BACKPACK_TEST_DB}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/data/backpack.db" {
		t.Errorf("Database.Path = %q, want expanded env var", cfg.Database.Path)
	}
}

func TestLoad_UnsetEnvVarBecomesEmpty(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: "./test.db"
web:
  base_url: "${BACKPACK_DEFINITELY_UNSET_VAR}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Web.BaseURL != "" {
		t.Errorf("Web.BaseURL = %q, want empty", cfg.Web.BaseURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "{not valid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: "./test.db"
auth:
  oauth_token_ttl: "soon"
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "oauth_token_ttl") {
		t.Fatalf("expected duration error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing http addr",
			cfg:     Config{Database: DatabaseConfig{Path: "./db"}},
			wantErr: "server.http_addr",
		},
		{
			name: "tailscale without hostname",
			cfg: Config{
				Tailscale: TailscaleConfig{Enabled: true},
				Database:  DatabaseConfig{Path: "./db"},
			},
			wantErr: "tailscale.hostname",
		},
		{
			name:    "missing database path",
			cfg:     Config{Server: ServerConfig{HTTPAddr: ":8080"}},
			wantErr: "database.path",
		},
		{
			name: "bad password scheme",
			cfg: Config{
				Server:   ServerConfig{HTTPAddr: ":8080"},
				Database: DatabaseConfig{Path: "./db"},
				Auth:     AuthConfig{PasswordScheme: "md5"},
			},
			wantErr: "password_scheme",
		},
		{
			name: "tailscale replaces http addr",
			cfg: Config{
				Tailscale: TailscaleConfig{Enabled: true, Hostname: "backpack"},
				Database:  DatabaseConfig{Path: "./db"},
			},
		},
		{
			name: "valid minimal",
			cfg: Config{
				Server:   ServerConfig{HTTPAddr: ":8080"},
				Database: DatabaseConfig{Path: "./db"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
