package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Port != ":3000" || cfg.LoginPath != "/login" || cfg.SessionTtl != 12*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxLogoBytes() != 1024*1024 {
		t.Fatalf("MaxLogoBytes = %d", cfg.MaxLogoBytes())
	}
	if cfg.Storage.PublicUrl != "/storage" {
		t.Fatalf("PublicUrl = %q", cfg.Storage.PublicUrl)
	}
}

func TestParseRequiresJwtSecret(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	if _, err := Parse(); err == nil {
		t.Fatalf("expected an error without JWT_SECRET")
	}
}

func TestParseReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("JWT_SECRET=from-file\nUPLOAD_MAX_LOGO_KB=10\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("UPLOAD_MAX_LOGO_KB", "")
	os.Unsetenv("UPLOAD_MAX_LOGO_KB")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.JwtSecret != "from-file" || cfg.Uploads.MaxLogoKb != 10 {
		t.Fatalf("env file not applied: %+v", cfg)
	}
}

func TestProvideServerConfig(t *testing.T) {
	cfg := &Config{Port: ":8080", AppName: "Rellab", BodyLimit: 10, IsProduction: true, CookieKey: "k"}

	serverConfig, err := ProvideServerConfig(cfg)
	if err != nil {
		t.Fatalf("ProvideServerConfig: %v", err)
	}
	if serverConfig.Port != ":8080" || serverConfig.BodyLimit != 10 || !serverConfig.IsProduction || serverConfig.CookieKey != "k" {
		t.Fatalf("unexpected server config: %+v", serverConfig)
	}
}
