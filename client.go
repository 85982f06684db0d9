package openblox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client drives the request pipeline: credential injection, cache lookup,
// transport dispatch, status checking, CSRF retry and error classification.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	transport       Transport
	cache           CacheAdapter
	config          Config
	logger          Logger
	debug           *DebugConfig
	metrics         *MetricsCollector
	rateLimiter     *RateLimiter
	circuitBreaker  *CircuitBreaker
	validationError error
}

// Result is the successful outcome of one call.
type Result struct {
	// Data is the parsed response body.
	Data any

	// Response is the envelope for the exchange; nil when the call was
	// served from cache and no network exchange happened.
	Response *Response

	// CacheResult reports how the cache participated.
	CacheResult CacheResultType

	rawBody []byte
}

// Decode unmarshals the raw response body into v, whether the call hit the
// network or the cache.
func (r *Result) Decode(v any) error {
	return json.Unmarshal(r.rawBody, v)
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		transport: NewHTTPTransport(nil),
		config:    DefaultConfig(),
		debug:     DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// Config returns the client's default configuration.
func (c *Client) Config() Config {
	return c.config
}

// Get performs a GET call through the pipeline. GET never CSRF-retries.
func (c *Client) Get(ctx context.Context, url string, cfg *RequestConfig) (*Result, error) {
	return c.execute(ctx, http.MethodGet, url, cfg)
}

// Post performs a POST call through the pipeline.
func (c *Client) Post(ctx context.Context, url string, cfg *RequestConfig) (*Result, error) {
	return c.execute(ctx, http.MethodPost, url, cfg)
}

// Patch performs a PATCH call through the pipeline.
func (c *Client) Patch(ctx context.Context, url string, cfg *RequestConfig) (*Result, error) {
	return c.execute(ctx, http.MethodPatch, url, cfg)
}

// Delete performs a DELETE call through the pipeline.
func (c *Client) Delete(ctx context.Context, url string, cfg *RequestConfig) (*Result, error) {
	return c.execute(ctx, http.MethodDelete, url, cfg)
}

// execute runs the pipeline for one logical call. Steps run strictly in
// order: resolve, cache check, dispatch, status check, cache populate. The
// CSRF retry is the explicit loop; the retry bound is visible as the loop
// condition rather than hidden in recursion depth.
func (c *Client) execute(ctx context.Context, method, baseURL string, cfg *RequestConfig) (*Result, error) {
	start := time.Now()
	mutating := method != http.MethodGet

	full := fullURL(baseURL, searchParams(cfg))
	target, err := url.Parse(full)
	if err != nil {
		return nil, newUnexpectedError(err)
	}
	endpoint := endpointFromURL(target)

	var requestID string
	if c.debugEnabled() && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debugEnabled() && c.debug.LogRequests {
		c.logger.Debug("starting request", "requestID", requestID, "method", method, "url", full)
	}

	c.metrics.RecordRequestStart(method, endpoint)
	defer c.metrics.RecordRequestEnd(method, endpoint)

	// Cache settings and credential overrides are consumed here; the
	// transport never sees them.
	settings := cacheSettings(cfg)
	cachingOn := c.cache != nil && cacheEnabled(settings)
	cacheResult := CacheResultDisabled
	var key CacheKey

	if cachingOn {
		key = buildCacheKey(full, cfg, mutating)
		value, ok, cacheErr := c.cache.Get(ctx, key)
		if cacheErr != nil {
			// A failing cache read is a miss, never a fatal error.
			if c.debugEnabled() && c.debug.LogCache {
				c.logger.Warn("cache read failed", "requestID", requestID, "cacheKey", key.Key, "error", cacheErr.Error())
			}
			ok = false
		}
		if ok {
			if c.debugEnabled() && c.debug.LogCache {
				c.logger.Debug("cache hit", "requestID", requestID, "cacheKey", key.Key)
			}
			c.metrics.RecordCacheHit(method, endpoint)
			return &Result{
				Data:        parseBody(value),
				CacheResult: CacheResultHit,
				rawBody:     value,
			}, nil
		}
		cacheResult = CacheResultMiss
		c.metrics.RecordCacheMiss(method, endpoint)
	}

	credHeaders := c.config.Credentials.resolve(credentialsOverride(cfg)).headers(target)

	csrfToken := ""
	maxAttempts := c.config.CSRFRetries + 1

	for attempt := 1; ; attempt++ {
		if c.rateLimiter != nil {
			if !c.rateLimiter.Allow() {
				c.metrics.RecordError(ErrorTypeRateLimit, method, endpoint)
				return nil, &APIError{Type: ErrorTypeRateLimit, Message: "local rate limit exceeded"}
			}
			c.metrics.RecordRateLimiterTokens("default", c.rateLimiter.Tokens())
		}
		if c.circuitBreaker != nil && !c.circuitBreaker.Allow() {
			c.metrics.RecordError(ErrorTypeCircuitOpen, method, endpoint)
			return nil, &APIError{Type: ErrorTypeCircuitOpen, Message: "circuit breaker is open"}
		}

		raw, dispatchErr := c.dispatch(ctx, method, full, cfg, credHeaders, csrfToken)
		if dispatchErr != nil {
			// Network-level failures never produced an envelope; they
			// propagate as-is inside an unexpected error.
			c.recordFailure()
			c.metrics.RecordError(ErrorTypeUnexpected, method, endpoint)
			return nil, newUnexpectedError(dispatchErr)
		}

		envelope, parseErr := c.transport.ParseResponse(raw)
		if parseErr != nil {
			c.recordFailure()
			c.metrics.RecordError(ErrorTypeUnexpected, method, endpoint)
			return nil, newUnexpectedError(parseErr)
		}
		envelope.CacheResult = cacheResult
		c.metrics.RecordRequest(method, endpoint, envelope.StatusCode, time.Since(start))

		if envelope.success(validStatusCodes(cfg)) {
			c.recordSuccess()
			if cachingOn {
				// Reached only on a miss; hits returned earlier, so a
				// populate happens at most once per call.
				if setErr := c.cache.Set(ctx, key, envelope.RawBody, settings); setErr != nil {
					if c.debugEnabled() && c.debug.LogCache {
						c.logger.Warn("cache write failed", "requestID", requestID, "cacheKey", key.Key, "error", setErr.Error())
					}
				} else if mem, ok := c.cache.(*MemoryCache); ok {
					c.metrics.RecordCacheSize("default", mem.Len())
				}
			}
			return &Result{
				Data:        envelope.Body,
				Response:    envelope,
				CacheResult: cacheResult,
				rawBody:     envelope.RawBody,
			}, nil
		}

		if envelope.StatusCode >= 500 {
			c.recordFailure()
		} else {
			c.recordSuccess()
		}

		if mutating && envelope.StatusCode == http.StatusForbidden {
			token := envelope.Header.Get(headerCSRFToken)
			if token != "" && attempt < maxAttempts {
				csrfToken = token
				c.metrics.RecordCSRFRetry(method, endpoint)
				if c.debugEnabled() && c.debug.LogRetries {
					c.logger.Info("csrf retry", "requestID", requestID, "attempt", attempt+1, "maxAttempts", maxAttempts)
				}
				continue
			}
			envelope.attachErrors(classifyErrors(envelope))
			c.metrics.RecordError(ErrorTypeMissingCSRFToken, method, endpoint)
			return nil, newMissingCSRFTokenError(envelope)
		}

		envelope.attachErrors(classifyErrors(envelope))
		switch envelope.StatusCode {
		case http.StatusTooManyRequests:
			c.metrics.RecordError(ErrorTypeThrottled, method, endpoint)
			return nil, newThrottledError(envelope)
		case http.StatusUnauthorized:
			c.metrics.RecordError(ErrorTypeAuthorizationDenied, method, endpoint)
			return nil, newAuthorizationDeniedError(envelope)
		default:
			// The pipeline's job ends at a well-classified error value;
			// mapping caller-declared known codes is the endpoint layer's.
			c.metrics.RecordError(ErrorTypeUnexpected, method, endpoint)
			return nil, newUnhandledStatusError(envelope)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, method, url string, cfg *RequestConfig, credHeaders map[string]string, csrfToken string) (*http.Response, error) {
	tc := newTransportConfig(cfg, credHeaders, csrfToken)
	switch method {
	case http.MethodGet:
		return c.transport.Get(ctx, url, tc)
	case http.MethodPost:
		return c.transport.Post(ctx, url, tc)
	case http.MethodPatch:
		return c.transport.Patch(ctx, url, tc)
	default:
		return c.transport.Delete(ctx, url, tc)
	}
}

func (c *Client) recordFailure() {
	if c.circuitBreaker != nil {
		c.circuitBreaker.RecordFailure()
		c.metrics.RecordCircuitBreakerState("default", c.circuitBreaker.State())
	}
}

func (c *Client) recordSuccess() {
	if c.circuitBreaker != nil {
		c.circuitBreaker.RecordSuccess()
		c.metrics.RecordCircuitBreakerState("default", c.circuitBreaker.State())
	}
}

func (c *Client) debugEnabled() bool {
	return c.debug != nil && c.debug.Enabled && c.logger != nil
}

func searchParams(cfg *RequestConfig) map[string]any {
	if cfg == nil {
		return nil
	}
	return cfg.SearchParams
}

func cacheSettings(cfg *RequestConfig) any {
	if cfg == nil {
		return nil
	}
	return cfg.CacheSettings
}

func credentialsOverride(cfg *RequestConfig) *CredentialsOverride {
	if cfg == nil {
		return nil
	}
	return cfg.CredentialsOverride
}

func validStatusCodes(cfg *RequestConfig) []int {
	if cfg == nil {
		return nil
	}
	return cfg.ValidStatusCodes
}

// endpointFromURL extracts host+path for metric labels.
func endpointFromURL(u *url.URL) string {
	var builder strings.Builder
	builder.WriteString(u.Host)

	if u.Path != "" && u.Path != "/" {
		builder.WriteString(u.Path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
