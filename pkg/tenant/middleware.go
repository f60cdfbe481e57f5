package tenant

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rtapi/gateway/pkg/httpx"
	"github.com/rtapi/gateway/pkg/principal"
)

// DefaultHeader is the designated tenant header. The key comparison is
// case-insensitive per net/http header canonicalization; the value is the
// tenant's code and is matched case-sensitively by the directory.
const DefaultHeader = "X-Tenant"

// Middleware creates the tenant resolution gate: HTTP middleware that runs
// ahead of every tenant-scoped handler and enforces that the request
// context carries a resolved tenant, and that an authenticated principal
// (if any) is a member of that tenant.
//
// Per request the gate classifies the path, reads the tenant header,
// resolves the tenant through the directory, attaches it to the request
// context exactly once, and checks membership for authenticated principals.
// Any lookup failure rejects the request; the gate never fails open and
// never retries.
func Middleware(dir Directory, members MembershipChecker, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		header:       DefaultHeader,
		classifier:   NewClassifier(),
		cache:        NewNoOpCache(),
		cacheTTL:     defaultCacheTTL,
		errorHandler: DefaultErrorHandler,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.classifier.Classify(r.URL.Path) == Public {
				next.ServeHTTP(w, r)
				return
			}

			code := r.Header.Get(cfg.header)
			if code == "" {
				cfg.errorHandler(w, r, ErrMissingTenantHeader)
				return
			}

			t, cached := cfg.cache.Get(r.Context(), code)
			if !cached {
				var err error
				t, err = dir.LookupByCode(r.Context(), code)
				if err != nil {
					if errors.Is(err, ErrTenantNotFound) {
						cfg.errorHandler(w, r, ErrTenantNotFound)
						return
					}
					cfg.logger.ErrorContext(r.Context(), "tenant directory lookup failed",
						slog.String("tenant_code", code), slog.Any("error", err))
					cfg.errorHandler(w, r, errors.Join(ErrUnavailable, err))
					return
				}
				cfg.cache.Set(r.Context(), code, t, cfg.cacheTTL)
			}

			ctx := WithTenant(r.Context(), t)

			// Membership is checked on every request, never from cache, so an
			// administrative revocation takes effect immediately.
			if p := principal.FromContext(ctx); p.Authenticated() {
				ok, err := members.IsMember(ctx, p.UserID(), t.ID)
				if err != nil {
					cfg.logger.ErrorContext(ctx, "membership check failed",
						slog.String("tenant_id", t.ID.String()), slog.Any("error", err))
					cfg.errorHandler(w, r, errors.Join(ErrUnavailable, err))
					return
				}
				if !ok {
					cfg.errorHandler(w, r, ErrNotAMember)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant creates middleware that ensures a resolved tenant is present
// in the context. Mount it on subroutes that must never run without one,
// even if the classifier configuration changes underneath them.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t, ok := FromContext(r.Context()); !ok || t == nil {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultErrorHandler maps gate errors to structured JSON rejections with
// stable reason codes. The status contract: 400 missing header, 404 unknown
// tenant, 403 non-member, 503 backend unavailable.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMissingTenantHeader):
		httpx.Error(w, http.StatusBadRequest, "missing_tenant_header", DefaultHeader+" header required.")
	case errors.Is(err, ErrTenantNotFound):
		httpx.Error(w, http.StatusNotFound, "tenant_not_found", "Tenant not found.")
	case errors.Is(err, ErrNotAMember):
		httpx.Error(w, http.StatusForbidden, "forbidden_not_a_member", "Forbidden: user not in tenant.")
	case errors.Is(err, ErrUnavailable):
		httpx.Error(w, http.StatusServiceUnavailable, "upstream_unavailable", "Service temporarily unavailable.")
	case errors.Is(err, ErrNoTenantInContext):
		httpx.Error(w, http.StatusBadRequest, "missing_tenant_header", DefaultHeader+" header required.")
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Internal server error.")
	}
}
