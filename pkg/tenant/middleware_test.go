package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtapi/gateway/pkg/principal"
	"github.com/rtapi/gateway/pkg/tenant"
)

type fakeDirectory struct {
	mu      sync.Mutex
	tenants map[string]*tenant.Tenant
	err     error
	calls   int
}

func newFakeDirectory(tenants ...*tenant.Tenant) *fakeDirectory {
	d := &fakeDirectory{tenants: make(map[string]*tenant.Tenant)}
	for _, t := range tenants {
		d.tenants[t.Code] = t
	}
	return d
}

func (d *fakeDirectory) LookupByCode(ctx context.Context, code string) (*tenant.Tenant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	t, ok := d.tenants[code]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return t, nil
}

func (d *fakeDirectory) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type fakeMembers struct {
	mu      sync.Mutex
	members map[string]bool
	err     error
	calls   int
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{members: make(map[string]bool)}
}

func (m *fakeMembers) grant(userID, tenantID uuid.UUID) {
	m.members[userID.String()+"/"+tenantID.String()] = true
}

func (m *fakeMembers) IsMember(ctx context.Context, userID, tenantID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	return m.members[userID.String()+"/"+tenantID.String()], nil
}

func (m *fakeMembers) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func acme() *tenant.Tenant {
	return &tenant.Tenant{ID: uuid.New(), Code: "ACME", Name: "Acme Inc."}
}

func serve(gate func(http.Handler) http.Handler, req *http.Request, next http.HandlerFunc) *httptest.ResponseRecorder {
	if next == nil {
		next = func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	}
	w := httptest.NewRecorder()
	gate(next).ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("public path bypasses both collaborators", func(t *testing.T) {
		t.Parallel()

		dir := newFakeDirectory()
		members := newFakeMembers()
		gate := tenant.Middleware(dir, members)

		req := httptest.NewRequest("GET", "/api/health", nil)
		w := serve(gate, req, func(w http.ResponseWriter, r *http.Request) {
			_, ok := tenant.FromContext(r.Context())
			assert.False(t, ok, "public path must leave context untouched")
			w.WriteHeader(http.StatusOK)
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, dir.callCount())
		assert.Zero(t, members.callCount())
	})

	t.Run("public path ignores tenant header entirely", func(t *testing.T) {
		t.Parallel()

		dir := newFakeDirectory()
		gate := tenant.Middleware(dir, newFakeMembers())

		req := httptest.NewRequest("GET", "/api/docs", nil)
		req.Header.Set("X-Tenant", "GHOST")
		w := serve(gate, req, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, dir.callCount())
	})

	t.Run("path outside API root passes through", func(t *testing.T) {
		t.Parallel()

		dir := newFakeDirectory()
		gate := tenant.Middleware(dir, newFakeMembers())

		w := serve(gate, httptest.NewRequest("GET", "/favicon.ico", nil), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, dir.callCount())
	})

	t.Run("missing header rejects without lookup", func(t *testing.T) {
		t.Parallel()

		dir := newFakeDirectory(acme())
		gate := tenant.Middleware(dir, newFakeMembers())

		w := serve(gate, httptest.NewRequest("GET", "/api/orders", nil), func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing_tenant_header")
		assert.Zero(t, dir.callCount())
	})

	t.Run("empty header value rejects the same way", func(t *testing.T) {
		t.Parallel()

		dir := newFakeDirectory(acme())
		gate := tenant.Middleware(dir, newFakeMembers())

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Tenant", "")
		w := serve(gate, req, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing_tenant_header")
		assert.Zero(t, dir.callCount())
	})

	t.Run("header key is case-insensitive", func(t *testing.T) {
		t.Parallel()

		testTenant := acme()
		gate := tenant.Middleware(newFakeDirectory(testTenant), newFakeMembers())

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("x-tenant", "ACME")
		w := serve(gate, req, nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown tenant rejects with tenant_not_found", func(t *testing.T) {
		t.Parallel()

		gate := tenant.Middleware(newFakeDirectory(acme()), newFakeMembers())

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Tenant", "GHOST")
		w := serve(gate, req, func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "tenant_not_found")
	})

	t.Run("tenant code is case-sensitive", func(t *testing.T) {
		t.Parallel()

		gate := tenant.Middleware(newFakeDirectory(acme()), newFakeMembers())

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Tenant", "acme")
		w := serve(gate, req, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("anonymous request with valid tenant is allowed with context set", func(t *testing.T) {
		t.Parallel()

		testTenant := acme()
		members := newFakeMembers()
		gate := tenant.Middleware(newFakeDirectory(testTenant), members)

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Tenant", "ACME")
		w := serve(gate, req, func(w http.ResponseWriter, r *http.Request) {
			resolved, ok := tenant.FromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, testTenant.ID, resolved.ID)
			id, ok := tenant.IDFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, testTenant.ID, id)
			w.WriteHeader(http.StatusOK)
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, members.callCount(), "no principal, no membership check")
	})

	t.Run("member principal is allowed", func(t *testing.T) {
		t.Parallel()

		testTenant := acme()
		userID := uuid.New()
		members := newFakeMembers()
		members.grant(userID, testTenant.ID)
		gate := tenant.Middleware(newFakeDirectory(testTenant), members)

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Tenant", "ACME")
		req = req.WithContext(principal.WithContext(req.Context(), principal.Authenticated(userID)))
		w := serve(gate, req, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, members.callCount())
	})

	t.Run("non-member principal rejects with forbidden_not_a_member", func(t *testing.T) {
		t.Parallel()

		testTenant := acme()
		gate := tenant.Middleware(newFakeDirectory(testTenant), newFakeMembers())

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Tenant", "ACME")
		req = req.WithContext(principal.WithContext(req.Context(), principal.Authenticated(uuid.New())))
		w := serve(gate, req, func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "forbidden_not_a_member")
	})

	t.Run("directory unavailable fails closed", func(t *testing.T) {
		t.Parallel()

		dir := newFakeDirectory()
		dir.err = errors.Join(tenant.ErrUnavailable, errors.New("dial tcp: connection refused"))
		gate := tenant.Middleware(dir, newFakeMembers())

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Tenant", "ACME")
		w := serve(gate, req, func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "upstream_unavailable")
		assert.NotContains(t, w.Body.String(), "dial tcp", "internal detail must not leak")
	})

	t.Run("membership checker unavailable fails closed", func(t *testing.T) {
		t.Parallel()

		testTenant := acme()
		members := newFakeMembers()
		members.err = errors.Join(tenant.ErrUnavailable, errors.New("dial tcp: connection refused"))
		gate := tenant.Middleware(newFakeDirectory(testTenant), members)

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Tenant", "ACME")
		req = req.WithContext(principal.WithContext(req.Context(), principal.Authenticated(uuid.New())))
		w := serve(gate, req, func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "upstream_unavailable")
	})

	t.Run("evaluation is idempotent", func(t *testing.T) {
		t.Parallel()

		testTenant := acme()
		userID := uuid.New()
		members := newFakeMembers()
		members.grant(userID, testTenant.ID)
		gate := tenant.Middleware(newFakeDirectory(testTenant), members)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("GET", "/api/orders", nil)
			req.Header.Set("X-Tenant", "ACME")
			req = req.WithContext(principal.WithContext(req.Context(), principal.Authenticated(userID)))
			w := serve(gate, req, nil)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("caches directory lookups but not membership", func(t *testing.T) {
		t.Parallel()

		testTenant := acme()
		userID := uuid.New()
		dir := newFakeDirectory(testTenant)
		members := newFakeMembers()
		members.grant(userID, testTenant.ID)

		cache := tenant.NewMemoryCache()
		defer cache.Close()
		gate := tenant.Middleware(dir, members, tenant.WithCache(cache))

		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("GET", "/api/orders", nil)
			req.Header.Set("X-Tenant", "ACME")
			req = req.WithContext(principal.WithContext(req.Context(), principal.Authenticated(userID)))
			w := serve(gate, req, nil)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		assert.Equal(t, 1, dir.callCount(), "directory lookups are cached")
		assert.Equal(t, 3, members.callCount(), "membership is checked on every request")
	})

	t.Run("custom header option", func(t *testing.T) {
		t.Parallel()

		testTenant := acme()
		gate := tenant.Middleware(newFakeDirectory(testTenant), newFakeMembers(),
			tenant.WithHeader("X-Org"))

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Org", "ACME")
		w := serve(gate, req, nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("custom public prefixes", func(t *testing.T) {
		t.Parallel()

		dir := newFakeDirectory()
		gate := tenant.Middleware(dir, newFakeMembers(),
			tenant.WithPublicPrefixes("/api/status"))

		w := serve(gate, httptest.NewRequest("GET", "/api/status", nil), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		// The default health prefix is gone once overridden.
		w = serve(gate, httptest.NewRequest("GET", "/api/health", nil), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("custom error handler receives the gate error", func(t *testing.T) {
		t.Parallel()

		var got error
		gate := tenant.Middleware(newFakeDirectory(), newFakeMembers(),
			tenant.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				got = err
				w.WriteHeader(http.StatusTeapot)
			}))

		req := httptest.NewRequest("GET", "/api/orders", nil)
		req.Header.Set("X-Tenant", "GHOST")
		w := serve(gate, req, nil)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.ErrorIs(t, got, tenant.ErrTenantNotFound)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("passes with tenant in context", func(t *testing.T) {
		t.Parallel()

		mw := tenant.RequireTenant(nil)
		req := httptest.NewRequest("GET", "/api/orders", nil)
		req = req.WithContext(tenant.WithTenant(req.Context(), acme()))
		w := serve(mw, req, nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects without tenant", func(t *testing.T) {
		t.Parallel()

		mw := tenant.RequireTenant(nil)
		w := serve(mw, httptest.NewRequest("GET", "/api/orders", nil), func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
