package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rtapi/gateway/pkg/tenant"
)

// MembershipStore implements tenant.MembershipChecker against PostgreSQL.
type MembershipStore struct {
	db Querier
}

// NewMembershipStore creates a membership checker backed by the given querier.
func NewMembershipStore(db Querier) *MembershipStore {
	return &MembershipStore{db: db}
}

// IsMember reports whether a membership row exists for the pair. Absence of
// a row is a definitive false, never an error; only transport failures
// surface as errors.
func (s *MembershipStore) IsMember(ctx context.Context, userID, tenantID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM membership WHERE user_id = $1 AND tenant_id = $2)`,
		userID, tenantID,
	).Scan(&exists)
	if err != nil {
		return false, errors.Join(tenant.ErrUnavailable, err)
	}
	return exists, nil
}
