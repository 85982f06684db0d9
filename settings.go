package openblox

// CacheDisable is the sentinel that forces caching off. It can appear as a
// per-call CacheSettings value or at any level of an IncludedConfig, where it
// wins over everything configured below it.
const CacheDisable = "!"

// IncludedConfig is the static cache-settings registry: it decides, per
// (apiName, methodName) pair, which settings value a call passes to the cache
// adapter. Resolution walks Default -> APIs[api].Default -> APIs[api].Methods
// [method], with deeper levels overriding shallower ones and CacheDisable
// terminating the walk.
type IncludedConfig struct {
	// Default applies to every method not covered by a more specific entry.
	Default any

	// APIs narrows settings per API group.
	APIs map[string]APIInclusion
}

// APIInclusion holds the settings for one API group.
type APIInclusion struct {
	// Default applies to every method of the group.
	Default any

	// Methods overrides per method name.
	Methods map[string]any
}

// Resolve returns the settings value for a call and whether caching is
// enabled for it. A nil registry, an unmatched pair with no defaults, or a
// CacheDisable at any level all disable caching.
func (c *IncludedConfig) Resolve(apiName, methodName string) (any, bool) {
	if c == nil || c.Default == CacheDisable {
		return nil, false
	}
	settings := c.Default
	if api, ok := c.APIs[apiName]; ok {
		if api.Default != nil {
			if api.Default == CacheDisable {
				return nil, false
			}
			settings = api.Default
		}
		if method, ok := api.Methods[methodName]; ok {
			if method == CacheDisable {
				return nil, false
			}
			settings = method
		}
	}
	if settings == nil {
		return nil, false
	}
	return settings, true
}

// cacheEnabled reports whether a per-call settings value permits caching at
// all. The pipeline additionally requires a configured adapter.
func cacheEnabled(settings any) bool {
	return settings != nil && settings != CacheDisable
}
