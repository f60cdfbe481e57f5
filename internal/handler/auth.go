package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rtapi/gateway/internal/store"
	"github.com/rtapi/gateway/pkg/httpx"
	"github.com/rtapi/gateway/pkg/jwt"
)

// UserFinder is the slice of the user store the auth handler needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*store.User, error)
}

// Auth serves the public token endpoints: create, refresh, verify.
type Auth struct {
	users  UserFinder
	tokens *jwt.Service
	log    *slog.Logger
}

// NewAuth creates the auth handler.
func NewAuth(users UserFinder, tokens *jwt.Service, log *slog.Logger) *Auth {
	return &Auth{users: users, tokens: tokens, log: log}
}

// Handle returns the router mounted at /api/auth/jwt.
func (h *Auth) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/create", h.create)
	r.Post("/refresh", h.refresh)
	r.Post("/verify", h.verify)
	return r
}

func (h *Auth) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &body); err != nil || body.Email == "" || body.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "invalid_request", "email and password are required.")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), body.Email)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			h.log.ErrorContext(r.Context(), "user lookup failed", slog.Any("error", err))
			httpx.Error(w, http.StatusServiceUnavailable, "upstream_unavailable", "Service temporarily unavailable.")
			return
		}
		// Unknown email and wrong password answer identically so the
		// endpoint cannot be used to enumerate accounts.
		httpx.Error(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password.")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)) != nil {
		httpx.Error(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password.")
		return
	}

	pair, err := h.tokens.IssuePair(user.ID.String())
	if err != nil {
		h.log.ErrorContext(r.Context(), "token issuance failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Internal server error.")
		return
	}
	httpx.JSON(w, http.StatusOK, pair)
}

func (h *Auth) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := httpx.Decode(r, &body); err != nil || body.Refresh == "" {
		httpx.Error(w, http.StatusBadRequest, "invalid_request", "refresh token is required.")
		return
	}

	claims, err := h.tokens.Verify(body.Refresh, jwt.TokenTypeRefresh)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired.")
		return
	}

	pair, err := h.tokens.IssuePair(claims.Subject)
	if err != nil {
		h.log.ErrorContext(r.Context(), "token issuance failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal_error", "Internal server error.")
		return
	}
	httpx.JSON(w, http.StatusOK, pair)
}

func (h *Auth) verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := httpx.Decode(r, &body); err != nil || body.Token == "" {
		httpx.Error(w, http.StatusBadRequest, "invalid_request", "token is required.")
		return
	}

	if _, err := h.tokens.Verify(body.Token, jwt.TokenTypeAccess); err != nil {
		httpx.Error(w, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired.")
		return
	}
	httpx.JSON(w, http.StatusOK, struct{}{})
}
