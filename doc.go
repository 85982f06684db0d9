// Package openblox provides the typed request pipeline behind a Roblox API
// client: one place that injects credentials, retries CSRF challenges,
// classifies platform errors and (optionally) caches responses.
//
// The pipeline per call:
//
//   - Resolve credentials: classic hosts get the .ROBLOSECURITY cookie,
//     apis.roblox.com/cloud gets the x-api-key header; per-call overrides
//     replace individual defaults, including with an explicit empty value
//   - Check the cache adapter (when configured and not disabled for the call)
//   - Dispatch through the transport adapter, parse into a response envelope
//   - Accept 200 plus any caller-declared valid status codes
//   - On 403 from a mutating verb, retry once per fresh x-csrf-token within
//     the configured budget
//   - Classify everything else: 429 throttled, 401 authorization denied, the
//     rest wrapped with parsed platform error details for the endpoint layer
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - No hidden global configuration: a Config value is injected per client
//   - No built-in timeouts; deadlines come from the caller's context
//   - Pluggable transport and cache adapters, Prometheus metrics, structured
//     debug logging
//
// Typical usage:
//
//	client := openblox.New(
//	    openblox.WithConfig(openblox.ConfigFromEnv()),
//	    openblox.WithMemoryCache(5*time.Minute),
//	    openblox.WithMetrics(),
//	)
//	result, err := client.Get(ctx, "https://users.roblox.com/v1/users/1", nil)
//
// Errors returned by the verb methods are always *APIError values; match them
// with errors.Is against the exported sentinels (ErrThrottled,
// ErrAuthorizationDenied, ErrMissingCSRFToken) or inspect Type directly.
package openblox
