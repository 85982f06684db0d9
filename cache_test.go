package openblox

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()
	key := CacheKey{Key: "https://users.roblox.com/v1/users/1"}

	if _, ok, _ := cache.Get(ctx, key); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := cache.Set(ctx, key, []byte("payload"), nil); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}

	value, ok, err := cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if !ok || string(value) != "payload" {
		t.Errorf("expected stored payload, got %q ok=%v", value, ok)
	}

	if cache.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", cache.Len())
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()
	key := CacheKey{Key: "https://users.roblox.com/v1/users/1"}

	if err := cache.Set(ctx, key, []byte("payload"), MemorySettings{TTL: time.Millisecond}); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, ok, _ := cache.Get(ctx, key); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestMemoryCacheSettingsVariants(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, CacheKey{Key: "a"}, []byte("1"), &MemorySettings{TTL: time.Hour}); err != nil {
		t.Errorf("pointer settings must be accepted: %v", err)
	}
	if err := cache.Set(ctx, CacheKey{Key: "b"}, []byte("2"), "unrelated"); err != nil {
		t.Errorf("unknown settings fall back to the default ttl: %v", err)
	}
}

func TestMemoryCacheRejectsNonPositiveTTL(t *testing.T) {
	cache := NewMemoryCache(0)
	if err := cache.Set(context.Background(), CacheKey{Key: "a"}, []byte("1"), nil); err == nil {
		t.Error("expected error for non-positive ttl")
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := cache.Set(ctx, CacheKey{Key: k}, []byte(k), nil); err != nil {
			t.Fatalf("Set(%q) returned error: %v", k, err)
		}
	}

	cache.Delete(CacheKey{Key: "b"})
	if _, ok, _ := cache.Get(ctx, CacheKey{Key: "b"}); ok {
		t.Error("deleted entry must miss")
	}
	if cache.Len() != 2 {
		t.Errorf("expected 2 entries after delete, got %d", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("expected empty cache after clear, got %d", cache.Len())
	}
}

func TestBuildCacheKeyGET(t *testing.T) {
	key := buildCacheKey("https://users.roblox.com/v1/users/1?fields=name", &RequestConfig{}, false)
	if key.Key != "https://users.roblox.com/v1/users/1?fields=name" {
		t.Errorf("unexpected key %q", key.Key)
	}
	if key.KeyData != "" {
		t.Errorf("GET keys must not hash a body, got %q", key.KeyData)
	}
}

func TestBuildCacheKeyHashesMutatingBodies(t *testing.T) {
	url := "https://apis.roblox.com/datastores/v1/entry"

	keyA := buildCacheKey(url, &RequestConfig{Body: map[string]any{"k": "a"}}, true)
	keyB := buildCacheKey(url, &RequestConfig{Body: map[string]any{"k": "b"}}, true)
	keyA2 := buildCacheKey(url, &RequestConfig{Body: map[string]any{"k": "a"}}, true)

	if keyA.KeyData == "" {
		t.Fatal("mutating keys must carry a body hash")
	}
	if keyA.KeyData == keyB.KeyData {
		t.Error("different payloads must hash differently")
	}
	if keyA.KeyData != keyA2.KeyData {
		t.Error("identical payloads must hash identically")
	}
	if keyA.String() == keyB.String() {
		t.Error("composite keys must differ")
	}
}

func TestBuildCacheKeyFormData(t *testing.T) {
	url := "https://apis.roblox.com/assets/v1/upload"

	keyA := buildCacheKey(url, &RequestConfig{FormData: map[string]string{"name": "a", "type": "decal"}}, true)
	keyB := buildCacheKey(url, &RequestConfig{FormData: map[string]string{"type": "decal", "name": "a"}}, true)
	if keyA.KeyData != keyB.KeyData {
		t.Error("form field order must not affect the hash")
	}
}

func TestBuildCacheKeyEmptyBody(t *testing.T) {
	key := buildCacheKey("https://auth.roblox.com/v2/logout", &RequestConfig{}, true)
	if key.KeyData != "" {
		t.Errorf("bodyless mutating calls key by url alone, got %q", key.KeyData)
	}
	if key.String() != "https://auth.roblox.com/v2/logout" {
		t.Errorf("unexpected composite key %q", key.String())
	}
}
