package openblox

import (
	"fmt"
	"net/http"
	"time"
)

// Option represents a configuration option.
type Option func(*Client)

// WithConfig sets the whole default configuration at once.
func WithConfig(config Config) Option {
	return func(c *Client) {
		c.config = config
	}
}

// WithCredentials sets the default credentials.
func WithCredentials(credentials Credentials) Option {
	return func(c *Client) {
		c.config.Credentials = credentials
	}
}

// WithCookie sets the default classic-API cookie.
func WithCookie(cookie string) Option {
	return func(c *Client) {
		c.config.Credentials.Cookie = cookie
	}
}

// WithCloudKey sets the default open-cloud API key.
func WithCloudKey(key string) Option {
	return func(c *Client) {
		c.config.Credentials.CloudKey = key
	}
}

// WithCSRFRetries sets the CSRF retry budget. A budget of n allows exactly n
// retries (n+1 total attempts) per mutating call.
func WithCSRFRetries(n int) Option {
	return func(c *Client) {
		c.config.CSRFRetries = n
	}
}

// WithIncluded sets the static cache-settings registry.
func WithIncluded(included *IncludedConfig) Option {
	return func(c *Client) {
		c.config.Included = included
	}
}

// WithTransport sets a custom transport adapter.
func WithTransport(transport Transport) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithHTTPClient routes the default transport through a custom *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.transport = NewHTTPTransport(client)
	}
}

// WithCacheAdapter sets the cache adapter.
func WithCacheAdapter(cache CacheAdapter) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithMemoryCache enables caching with the in-process adapter.
func WithMemoryCache(defaultTTL time.Duration) Option {
	return func(c *Client) {
		c.cache = NewMemoryCache(defaultTTL)
	}
}

// WithRateLimiter enables the local token-bucket rate limiter.
func WithRateLimiter(maxTokens int, refillRate time.Duration) Option {
	return func(c *Client) {
		c.rateLimiter = NewRateLimiter(maxTokens, refillRate)
	}
}

// WithCircuitBreaker enables the circuit breaker.
func WithCircuitBreaker(config CircuitBreakerConfig) Option {
	return func(c *Client) {
		c.circuitBreaker = NewCircuitBreaker(config)
	}
}

// WithMetrics enables Prometheus metrics collection.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithSimpleLogger enables debug logging with a plain console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error if invalid.
func (c *Client) ValidateConfiguration() error {
	var problems []string

	if c.transport == nil {
		problems = append(problems, "transport cannot be nil")
	}
	if c.config.CSRFRetries < 0 {
		problems = append(problems, "csrfRetries must be non-negative")
	}
	if c.config.CSRFRetries > 10 {
		problems = append(problems, "csrfRetries > 10 serves no purpose; the platform issues one token per challenge")
	}
	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			problems = append(problems, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			problems = append(problems, "logger must be set when debug is enabled")
		}
	}
	if c.rateLimiter != nil {
		if c.rateLimiter.maxTokens <= 0 {
			problems = append(problems, "rateLimiter maxTokens must be positive")
		}
		if c.rateLimiter.refillRate <= 0 {
			problems = append(problems, "rateLimiter refillRate must be positive")
		}
	}

	if len(problems) > 0 {
		return &APIError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", problems),
		}
	}

	return nil
}
