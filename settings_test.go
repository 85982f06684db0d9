package openblox

import (
	"testing"
	"time"
)

func TestIncludedConfigResolution(t *testing.T) {
	defaultSettings := MemorySettings{TTL: time.Minute}
	userSettings := MemorySettings{TTL: time.Hour}
	methodSettings := MemorySettings{TTL: time.Second}

	included := &IncludedConfig{
		Default: defaultSettings,
		APIs: map[string]APIInclusion{
			"ClassicUsers": {
				Default: userSettings,
				Methods: map[string]any{
					"UserInfo":   methodSettings,
					"UserSearch": CacheDisable,
				},
			},
			"ClassicGames": {
				Default: CacheDisable,
				Methods: map[string]any{
					"GameInfo": methodSettings,
				},
			},
		},
	}

	tests := []struct {
		name    string
		api     string
		method  string
		want    any
		enabled bool
	}{
		{"falls back to global default", "ClassicBadges", "BadgeInfo", defaultSettings, true},
		{"api default overrides global", "ClassicUsers", "UsernameHistory", userSettings, true},
		{"method overrides api default", "ClassicUsers", "UserInfo", methodSettings, true},
		{"method-level disable wins", "ClassicUsers", "UserSearch", nil, false},
		{"api-level disable wins over method settings", "ClassicGames", "GameInfo", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enabled := included.Resolve(tt.api, tt.method)
			if enabled != tt.enabled {
				t.Fatalf("enabled: want %v, got %v", tt.enabled, enabled)
			}
			if enabled && got != tt.want {
				t.Errorf("settings: want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIncludedConfigNilAndDisabled(t *testing.T) {
	var nilConfig *IncludedConfig
	if _, enabled := nilConfig.Resolve("AnyAPI", "AnyMethod"); enabled {
		t.Error("nil registry must disable caching")
	}

	rootDisabled := &IncludedConfig{Default: CacheDisable}
	if _, enabled := rootDisabled.Resolve("AnyAPI", "AnyMethod"); enabled {
		t.Error("root-level disable must win")
	}

	empty := &IncludedConfig{}
	if _, enabled := empty.Resolve("AnyAPI", "AnyMethod"); enabled {
		t.Error("no settings anywhere means caching disabled")
	}
}

func TestCacheEnabled(t *testing.T) {
	if cacheEnabled(nil) {
		t.Error("nil settings must disable caching")
	}
	if cacheEnabled(CacheDisable) {
		t.Error("the disable sentinel must disable caching")
	}
	if !cacheEnabled(MemorySettings{TTL: time.Minute}) {
		t.Error("concrete settings must enable caching")
	}
}

func TestConfigCacheSettingsFor(t *testing.T) {
	settings := MemorySettings{TTL: time.Minute}
	cfg := Config{
		Included: &IncludedConfig{
			APIs: map[string]APIInclusion{
				"ClassicUsers": {Default: settings},
			},
		},
	}

	if got := cfg.CacheSettingsFor("ClassicUsers", "UserInfo"); got != settings {
		t.Errorf("expected resolved settings, got %v", got)
	}
	if got := cfg.CacheSettingsFor("ClassicGames", "GameInfo"); got != CacheDisable {
		t.Errorf("unresolved pairs must yield the disable sentinel, got %v", got)
	}
}
