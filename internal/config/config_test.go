package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvCatalogURL, EnvCatalogKey, EnvCatalogTimeout, EnvGPTEndpoint, EnvGPTKey, EnvGPTModel, EnvGPTAuth} {
		t.Setenv(k, "")
	}
	for _, k := range []string{EnvUserID, EnvCacheDir, EnvCatalogdAddr} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UserID != DefaultUserID || cfg.CacheDir != DefaultCacheDir || cfg.CatalogdAddr != DefaultCatalogdAddr {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.CatalogTimeout != DefaultCatalogTimeout {
		t.Errorf("CatalogTimeout = %s", cfg.CatalogTimeout)
	}
	if cfg.GPTEnabled() {
		t.Error("GPT should be disabled without keys")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCatalogURL, "http://localhost:8089/v1/products/search")
	t.Setenv(EnvUserID, "u-42")
	t.Setenv(EnvCacheDir, "")
	t.Setenv(EnvCatalogTimeout, "2s")
	t.Setenv(EnvGPTEndpoint, "http://gpt")
	t.Setenv(EnvGPTKey, "k")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogURL != "http://localhost:8089/v1/products/search" || cfg.UserID != "u-42" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.CacheDir != "" {
		t.Errorf("explicit empty cache dir should disable the cache, got %q", cfg.CacheDir)
	}
	if cfg.CatalogTimeout != 2*time.Second {
		t.Errorf("CatalogTimeout = %s", cfg.CatalogTimeout)
	}
	if !cfg.GPTEnabled() {
		t.Error("GPT should be enabled")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CATALOGD_ADDR=:9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogdAddr != ":9999" {
		t.Errorf("CatalogdAddr = %q", cfg.CatalogdAddr)
	}
}

func TestLoadBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCatalogTimeout, "soon")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}

func TestLoadGPTAuth(t *testing.T) {
	tests := []struct {
		auth    string
		want    string
		wantErr bool
	}{
		{"", AuthAPIKey, false},
		{"api-key", AuthAPIKey, false},
		{"Bearer", AuthBearer, false},
		{"basic", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.auth, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvGPTAuth, tt.auth)
			t.Setenv(EnvGPTModel, "gpt-4o-mini")

			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.GPTAuth != tt.want {
				t.Errorf("GPTAuth = %q, want %q", cfg.GPTAuth, tt.want)
			}
			if cfg.GPTModel != "gpt-4o-mini" {
				t.Errorf("GPTModel = %q", cfg.GPTModel)
			}
		})
	}
}
