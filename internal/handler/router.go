package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rtapi/gateway/pkg/httpserver"
	"github.com/rtapi/gateway/pkg/jwt"
	"github.com/rtapi/gateway/pkg/requestid"
	"github.com/rtapi/gateway/pkg/tenant"
)

// RouterOptions wires the gateway's collaborators into the HTTP surface.
type RouterOptions struct {
	Logger    *slog.Logger
	Tokens    *jwt.Service
	Directory tenant.Directory
	Members   tenant.MembershipChecker
	Auth      *Auth
	Storage   *Storage

	// Probes run on /api/health; all must pass for readiness.
	Probes []func(context.Context) error

	// GateOptions tune the tenant gate (public prefixes, header, cache).
	GateOptions []tenant.Option
}

// Router assembles the middleware chain and routes. Order matters: the
// request ID comes first so everything downstream logs with it, then
// authentication resolves the principal, then the tenant gate enforces
// membership before any tenant-scoped handler runs.
func Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(jwt.Middleware(opts.Tokens))
	r.Use(tenant.Middleware(opts.Directory, opts.Members,
		append([]tenant.Option{tenant.WithLogger(opts.Logger)}, opts.GateOptions...)...))

	r.Get("/api/health", httpserver.HealthCheckHandler(opts.Logger, opts.Probes...))
	r.Mount("/api/auth/jwt", opts.Auth.Handle())
	r.With(jwt.RequirePrincipal).Post("/api/storage/presign", opts.Storage.Presign)

	return r
}
