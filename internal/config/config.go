// Package config reads runtime settings from the environment. A .env file
// is loaded first when present; explicit environment variables win.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvCatalogURL     = "OTTOCART_CATALOG_URL"
	EnvCatalogKey     = "OTTOCART_CATALOG_KEY"
	EnvCatalogTimeout = "OTTOCART_CATALOG_TIMEOUT"
	EnvUserID         = "OTTOCART_USER_ID"
	EnvCacheDir       = "OTTOCART_CACHE_DIR"
	EnvGPTEndpoint    = "GPT_CHAT_ENDPOINT"
	EnvGPTKey         = "GPT_CHAT_KEY"
	EnvGPTModel       = "GPT_CHAT_MODEL"
	EnvGPTAuth        = "GPT_CHAT_AUTH"
	EnvCatalogdAddr   = "CATALOGD_ADDR"
)

// Config holds settings shared by the binaries.
type Config struct {
	CatalogURL     string        // empty means use the built-in catalog
	CatalogKey     string
	CatalogTimeout time.Duration
	UserID         string
	CacheDir       string // empty disables the disk cache
	GPTEndpoint    string
	GPTKey         string
	GPTModel       string // empty lets the endpoint pick (Azure deployments)
	GPTAuth        string // AuthAPIKey or AuthBearer
	CatalogdAddr   string
}

// GPT auth modes.
const (
	AuthAPIKey = "api-key" // "api-key" header, Azure OpenAI
	AuthBearer = "bearer"  // "Authorization: Bearer", OpenAI
)

// Defaults.
const (
	DefaultUserID         = "local"
	DefaultCacheDir       = ".ottocart-cache"
	DefaultCatalogdAddr   = ":8089"
	DefaultCatalogTimeout = 15 * time.Second
)

// Load reads the given .env files (".env" when none are named), then the
// environment. Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{
		CatalogURL:     os.Getenv(EnvCatalogURL),
		CatalogKey:     os.Getenv(EnvCatalogKey),
		CatalogTimeout: DefaultCatalogTimeout,
		UserID:         getenv(EnvUserID, DefaultUserID),
		CacheDir:       getenv(EnvCacheDir, DefaultCacheDir),
		GPTEndpoint:    os.Getenv(EnvGPTEndpoint),
		GPTKey:         os.Getenv(EnvGPTKey),
		GPTModel:       os.Getenv(EnvGPTModel),
		GPTAuth:        strings.ToLower(getenv(EnvGPTAuth, AuthAPIKey)),
		CatalogdAddr:   getenv(EnvCatalogdAddr, DefaultCatalogdAddr),
	}

	if v := os.Getenv(EnvCatalogTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvCatalogTimeout, err)
		}
		cfg.CatalogTimeout = d
	}
	switch cfg.GPTAuth {
	case AuthAPIKey, AuthBearer:
	case "":
		cfg.GPTAuth = AuthAPIKey
	default:
		return nil, fmt.Errorf("%s: unknown auth mode %q (want %s or %s)", EnvGPTAuth, cfg.GPTAuth, AuthAPIKey, AuthBearer)
	}
	return cfg, nil
}

// GPTEnabled reports whether both GPT settings are present.
func (c *Config) GPTEnabled() bool {
	return c.GPTEndpoint != "" && c.GPTKey != ""
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
