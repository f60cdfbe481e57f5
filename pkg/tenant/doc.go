// Package tenant implements the tenant resolution gate: per-request
// middleware that resolves a tenant from the designated request header,
// attaches it to the request context, and enforces membership for
// authenticated principals before any tenant-scoped handler runs.
//
// # Architecture
//
// The package is built around four pieces:
//
//  1. Classifier - decides whether a path is public or tenant-scoped
//  2. Directory - loads a tenant by its unique code from a data source
//  3. MembershipChecker - verifies a (user, tenant) membership exists
//  4. Middleware - orchestrates classification, resolution, context
//     attachment, and the membership check
//
// The directory and checker are injected interfaces, never process-wide
// state, so tests run against fakes and the gate stays deterministic.
//
// # Usage
//
//	gate := tenant.Middleware(directory, members,
//		tenant.WithPublicPrefixes("/api/health", "/api/docs"),
//		tenant.WithCache(tenant.NewMemoryCache()),
//	)
//
//	r := chi.NewRouter()
//	r.Use(gate)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		t := tenant.MustFromContext(r.Context())
//		// t.ID scopes every query below
//	}
//
// # Decision table
//
// A request reaches a tenant-scoped handler iff the context carries a
// resolved tenant and, when an authenticated principal is present, that
// principal has a membership for the tenant. Everything else rejects with a
// stable reason code: missing_tenant_header (400), tenant_not_found (404),
// forbidden_not_a_member (403), upstream_unavailable (503). The gate fails
// closed on any ambiguity and performs no retries; retry policy belongs to
// the collaborators.
//
// # Caching
//
// Directory lookups may be cached with a bounded TTL (WithCache); a cached
// tenant can therefore be served for at most the TTL after an
// administrative change. Membership decisions are never cached so
// revocation is immediate.
package tenant
