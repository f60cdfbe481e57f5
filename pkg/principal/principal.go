package principal

import (
	"log/slog"

	"github.com/google/uuid"
)

// Principal is the identity attached to a request by the authentication
// middleware. It is a tagged value: either Anonymous or Authenticated with
// a user ID. Handlers and gates branch on Authenticated() instead of
// probing optional fields.
type Principal struct {
	userID        uuid.UUID
	authenticated bool
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// Authenticated returns a principal carrying the given user ID.
func Authenticated(userID uuid.UUID) Principal {
	return Principal{userID: userID, authenticated: true}
}

// Authenticated reports whether the principal carries a verified identity.
func (p Principal) Authenticated() bool {
	return p.authenticated
}

// UserID returns the user ID of an authenticated principal.
// For the anonymous principal it returns the zero UUID.
func (p Principal) UserID() uuid.UUID {
	return p.userID
}

// LogValue implements slog.LogValuer so principals render safely in logs.
func (p Principal) LogValue() slog.Value {
	if !p.authenticated {
		return slog.StringValue("anonymous")
	}
	return slog.StringValue(p.userID.String())
}
