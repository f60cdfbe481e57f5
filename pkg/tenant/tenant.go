package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Tenant is the request-scoped view of a tenant: the identity resolved
// from the tenant header plus what handlers need for display.
type Tenant struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// Directory looks up tenants by their unique, case-sensitive code.
//
// Implementations must return ErrTenantNotFound when no tenant carries the
// code, and wrap ErrUnavailable for transport or connectivity failures. The
// gate treats the two outcomes differently: an unknown code rejects with a
// client error, unavailability rejects with a server error.
type Directory interface {
	LookupByCode(ctx context.Context, code string) (*Tenant, error)
}

// MembershipChecker reports whether a user is an authorized member of a
// tenant. It is a pure existence check; transport failures must wrap
// ErrUnavailable so the gate can fail closed.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, tenantID uuid.UUID) (bool, error)
}
