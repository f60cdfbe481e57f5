package tenant

import "strings"

// Class is the outcome of path classification.
type Class int

const (
	// Public paths bypass tenant enforcement entirely.
	Public Class = iota
	// TenantScoped paths require a resolved tenant before any handler runs.
	TenantScoped
)

// DefaultAPIRoot is the namespace subject to tenant enforcement. Paths
// outside it pass through the gate untouched.
const DefaultAPIRoot = "/api"

// DefaultPublicPrefixes lists the paths exempt from tenant enforcement:
// health checks, schema and docs, token endpoints, the admin UI, and
// static assets.
var DefaultPublicPrefixes = []string{
	"/api/health",
	"/api/schema",
	"/api/docs",
	"/api/auth/jwt",
	"/admin",
	"/static",
	"/media",
}

// Classifier decides whether a request path is public or tenant-scoped.
// It is pure: no side effects, safe for concurrent use.
type Classifier struct {
	root     string
	prefixes []string
}

// NewClassifier creates a classifier with the given public prefixes under
// DefaultAPIRoot. With no prefixes it uses DefaultPublicPrefixes.
func NewClassifier(prefixes ...string) *Classifier {
	if len(prefixes) == 0 {
		prefixes = DefaultPublicPrefixes
	}
	return &Classifier{root: DefaultAPIRoot, prefixes: prefixes}
}

// NewClassifierWithRoot creates a classifier enforcing tenancy only under
// the given root namespace.
func NewClassifierWithRoot(root string, prefixes ...string) *Classifier {
	c := NewClassifier(prefixes...)
	if root != "" {
		c.root = root
	}
	return c
}

// Classify returns Public for paths outside the API root and for paths
// matching a configured prefix, TenantScoped for everything else.
// Matching is case-sensitive and prefix-based; prefixes are evaluated in
// configured order and the first match wins.
func (c *Classifier) Classify(path string) Class {
	if !strings.HasPrefix(path, c.root) {
		return Public
	}
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(path, prefix) {
			return Public
		}
	}
	return TenantScoped
}
