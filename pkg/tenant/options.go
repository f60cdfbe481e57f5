package tenant

import (
	"log/slog"
	"net/http"
	"time"
)

// ErrorHandler turns a gate error into an HTTP rejection.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

const defaultCacheTTL = 5 * time.Minute

// config holds middleware configuration.
type config struct {
	header       string
	classifier   *Classifier
	cache        Cache
	cacheTTL     time.Duration
	errorHandler ErrorHandler
	logger       *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithHeader overrides the designated tenant header name.
func WithHeader(name string) Option {
	return func(c *config) {
		if name != "" {
			c.header = name
		}
	}
}

// WithPublicPrefixes replaces the public path prefixes, in match order.
func WithPublicPrefixes(prefixes ...string) Option {
	return func(c *config) {
		c.classifier = NewClassifier(prefixes...)
	}
}

// WithClassifier sets a custom path classifier.
func WithClassifier(classifier *Classifier) Option {
	return func(c *config) {
		if classifier != nil {
			c.classifier = classifier
		}
	}
}

// WithCache enables caching of directory lookups. Only resolved tenants are
// cached, bounded by the TTL; membership checks always hit the store.
func WithCache(cache Cache) Option {
	return func(c *config) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithCacheTTL bounds how stale a cached directory lookup may be.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithErrorHandler sets a custom rejection writer.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithLogger sets the logger used for collaborator failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
