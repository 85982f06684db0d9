package openblox

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consulted by ConfigFromEnv.
const (
	EnvCookie   = "OPENBLOX_COOKIE"
	EnvCloudKey = "OPENBLOX_CLOUD_KEY"
)

// DefaultCSRFRetries allows one retry (two total attempts) per mutating call.
const DefaultCSRFRetries = 1

// Config is the default-settings object for a client. It is built once and
// injected at construction; per-call overrides never mutate it, so several
// clients with different configurations can coexist in one process.
type Config struct {
	// Credentials are the default authentication material.
	Credentials Credentials

	// CSRFRetries bounds how many times a mutating call is retried after a
	// 403 that supplies a fresh CSRF token.
	CSRFRetries int

	// Included is the static cache-settings registry consulted by
	// CacheSettingsFor. Nil disables registry-driven caching.
	Included *IncludedConfig
}

// DefaultConfig returns a Config with no credentials and the default CSRF
// retry budget.
func DefaultConfig() Config {
	return Config{CSRFRetries: DefaultCSRFRetries}
}

// ConfigFromEnv builds a Config from the environment, loading a .env file
// first when one is present. Only the credential fields are environment
// coupled; everything else keeps its default.
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.Credentials = Credentials{
		Cookie:   os.Getenv(EnvCookie),
		CloudKey: os.Getenv(EnvCloudKey),
	}
	return cfg
}

// CacheSettingsFor resolves the registry settings for an (api, method) pair.
// Endpoint functions call this to fill a RequestConfig's CacheSettings; the
// pipeline itself only sees the resolved value.
func (c Config) CacheSettingsFor(apiName, methodName string) any {
	settings, ok := c.Included.Resolve(apiName, methodName)
	if !ok {
		return CacheDisable
	}
	return settings
}
