package openblox

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// CacheKey identifies one cache entry. Key is the full request URL (search
// params included); KeyData is a hash of the request payload for mutating
// verbs, so otherwise-identical endpoints with different payloads stay
// distinct. GET requests carry an empty KeyData.
type CacheKey struct {
	Key     string
	KeyData string
}

// String renders the composite key for adapters backed by flat keyspaces.
func (k CacheKey) String() string {
	if k.KeyData == "" {
		return k.Key
	}
	return k.Key + "#" + k.KeyData
}

// CacheAdapter is the pluggable store for raw response bodies. Get errors are
// treated as misses by the pipeline; Set errors are logged and dropped. The
// settings value passed to Set is adapter-specific and comes from the static
// cache-settings registry (or the per-call CacheSettings override).
type CacheAdapter interface {
	Get(ctx context.Context, key CacheKey) (value []byte, ok bool, err error)
	Set(ctx context.Context, key CacheKey, value []byte, settings any) error
}

// buildCacheKey derives the cache key for a call. The body hash covers both
// structured bodies and form data.
func buildCacheKey(url string, cfg *RequestConfig, mutating bool) CacheKey {
	key := CacheKey{Key: url}
	if !mutating || cfg == nil {
		return key
	}
	if h := payloadHash(cfg); h != 0 {
		key.KeyData = strconv.FormatUint(h, 16)
	}
	return key
}

func payloadHash(cfg *RequestConfig) uint64 {
	d := xxhash.New()
	wrote := false
	switch body := cfg.Body.(type) {
	case nil:
	case string:
		if body != "" {
			_, _ = d.WriteString(body)
			wrote = true
		}
	case []byte:
		if len(body) > 0 {
			_, _ = d.Write(body)
			wrote = true
		}
	default:
		if encoded, err := json.Marshal(body); err == nil {
			_, _ = d.Write(encoded)
			wrote = true
		}
	}
	if len(cfg.FormData) > 0 {
		fields := make([]string, 0, len(cfg.FormData))
		for k, v := range cfg.FormData {
			fields = append(fields, k+"="+v)
		}
		sort.Strings(fields)
		_, _ = d.WriteString(strings.Join(fields, "&"))
		wrote = true
	}
	if !wrote {
		return 0
	}
	return d.Sum64()
}

// MemorySettings configures a MemoryCache entry's lifetime.
type MemorySettings struct {
	TTL time.Duration
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a sharded in-process CacheAdapter with per-entry TTLs.
// Expired entries are dropped lazily on read.
type MemoryCache struct {
	shards     []*memoryShard
	numShards  int
	defaultTTL time.Duration
}

type memoryShard struct {
	mu    sync.RWMutex
	store map[string]memoryEntry
}

// NewMemoryCache constructs a MemoryCache. defaultTTL applies whenever a Set
// carries no MemorySettings.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	numShards := 16
	shards := make([]*memoryShard, numShards)
	for i := range shards {
		shards[i] = &memoryShard{store: make(map[string]memoryEntry)}
	}
	return &MemoryCache{
		shards:     shards,
		numShards:  numShards,
		defaultTTL: defaultTTL,
	}
}

func (c *MemoryCache) getShard(key string) *memoryShard {
	hash := fnv.New32a()
	hash.Write([]byte(key))
	return c.shards[hash.Sum32()%uint32(c.numShards)]
}

func (c *MemoryCache) Get(_ context.Context, key CacheKey) ([]byte, bool, error) {
	k := key.String()
	shard := c.getShard(k)
	shard.mu.RLock()
	entry, exists := shard.store[k]
	shard.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		shard.mu.Lock()
		delete(shard.store, k)
		shard.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key CacheKey, value []byte, settings any) error {
	ttl := c.defaultTTL
	switch s := settings.(type) {
	case MemorySettings:
		if s.TTL > 0 {
			ttl = s.TTL
		}
	case *MemorySettings:
		if s != nil && s.TTL > 0 {
			ttl = s.TTL
		}
	}
	if ttl <= 0 {
		return fmt.Errorf("memory cache: non-positive ttl")
	}

	k := key.String()
	shard := c.getShard(k)
	shard.mu.Lock()
	shard.store[k] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	shard.mu.Unlock()
	return nil
}

// Delete removes one entry.
func (c *MemoryCache) Delete(key CacheKey) {
	k := key.String()
	shard := c.getShard(k)
	shard.mu.Lock()
	delete(shard.store, k)
	shard.mu.Unlock()
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.store = make(map[string]memoryEntry)
		shard.mu.Unlock()
	}
}

// Len reports the number of live entries across all shards.
func (c *MemoryCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.store)
		shard.mu.RUnlock()
	}
	return total
}
