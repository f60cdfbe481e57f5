package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rtapi/gateway/internal/handler"
	"github.com/rtapi/gateway/internal/store"
	"github.com/rtapi/gateway/pkg/jwt"
)

type fakeUsers struct {
	users map[string]*store.User
	err   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*store.User)}
}

func (f *fakeUsers) add(t *testing.T, email, password string) *store.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &store.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	f.users[email] = u
	return u
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*store.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func testTokens(t *testing.T) *jwt.Service {
	t.Helper()
	svc, err := jwt.New(jwt.Config{
		SigningKey: "test-signing-key-at-least-32-bytes!!",
		Issuer:     "rt-gateway",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuthCreate(t *testing.T) {
	t.Parallel()

	tokens := testTokens(t)

	t.Run("issues a pair for valid credentials", func(t *testing.T) {
		t.Parallel()

		users := newFakeUsers()
		u := users.add(t, "dev@acme.test", "s3cret")
		h := handler.NewAuth(users, tokens, discardLogger()).Handle()

		w := postJSON(t, h, "/create", `{"email":"dev@acme.test","password":"s3cret"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var pair jwt.Pair
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
		require.NotEmpty(t, pair.Access)
		require.NotEmpty(t, pair.Refresh)

		claims, err := tokens.Verify(pair.Access, jwt.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), claims.Subject)
	})

	t.Run("wrong password and unknown email answer identically", func(t *testing.T) {
		t.Parallel()

		users := newFakeUsers()
		users.add(t, "dev@acme.test", "s3cret")
		h := handler.NewAuth(users, tokens, discardLogger()).Handle()

		wrong := postJSON(t, h, "/create", `{"email":"dev@acme.test","password":"nope"}`)
		unknown := postJSON(t, h, "/create", `{"email":"ghost@acme.test","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
		assert.Contains(t, wrong.Body.String(), "invalid_credentials")
	})

	t.Run("store unavailability is a server error", func(t *testing.T) {
		t.Parallel()

		users := newFakeUsers()
		users.err = errors.Join(store.ErrUnavailable, errors.New("dial tcp: connection refused"))
		h := handler.NewAuth(users, tokens, discardLogger()).Handle()

		w := postJSON(t, h, "/create", `{"email":"dev@acme.test","password":"s3cret"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "upstream_unavailable")
		assert.NotContains(t, w.Body.String(), "dial tcp")
	})

	t.Run("missing fields reject", func(t *testing.T) {
		t.Parallel()

		h := handler.NewAuth(newFakeUsers(), tokens, discardLogger()).Handle()

		w := postJSON(t, h, "/create", `{"email":"dev@acme.test"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_request")
	})
}

func TestAuthRefresh(t *testing.T) {
	t.Parallel()

	tokens := testTokens(t)

	t.Run("exchanges a refresh token for a new pair", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		pair, err := tokens.IssuePair(userID.String())
		require.NoError(t, err)

		h := handler.NewAuth(newFakeUsers(), tokens, discardLogger()).Handle()
		w := postJSON(t, h, "/refresh", `{"refresh":"`+pair.Refresh+`"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var next jwt.Pair
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &next))
		claims, err := tokens.Verify(next.Access, jwt.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject)
	})

	t.Run("access token is not accepted for refresh", func(t *testing.T) {
		t.Parallel()

		pair, err := tokens.IssuePair(uuid.New().String())
		require.NoError(t, err)

		h := handler.NewAuth(newFakeUsers(), tokens, discardLogger()).Handle()
		w := postJSON(t, h, "/refresh", `{"refresh":"`+pair.Access+`"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_token")
	})

	t.Run("garbage token rejects", func(t *testing.T) {
		t.Parallel()

		h := handler.NewAuth(newFakeUsers(), tokens, discardLogger()).Handle()
		w := postJSON(t, h, "/refresh", `{"refresh":"garbage"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthVerify(t *testing.T) {
	t.Parallel()

	tokens := testTokens(t)

	t.Run("valid access token verifies", func(t *testing.T) {
		t.Parallel()

		pair, err := tokens.IssuePair(uuid.New().String())
		require.NoError(t, err)

		h := handler.NewAuth(newFakeUsers(), tokens, discardLogger()).Handle()
		w := postJSON(t, h, "/verify", `{"token":"`+pair.Access+`"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid token rejects", func(t *testing.T) {
		t.Parallel()

		h := handler.NewAuth(newFakeUsers(), tokens, discardLogger()).Handle()
		w := postJSON(t, h, "/verify", `{"token":"garbage"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_token")
	})
}
