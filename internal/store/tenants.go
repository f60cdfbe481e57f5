package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/rtapi/gateway/pkg/tenant"
)

// TenantDirectory implements tenant.Directory against PostgreSQL.
type TenantDirectory struct {
	db Querier
}

// NewTenantDirectory creates a directory backed by the given querier.
func NewTenantDirectory(db Querier) *TenantDirectory {
	return &TenantDirectory{db: db}
}

// LookupByCode resolves a tenant by its unique, case-sensitive code. The
// code is untrusted client input and only ever reaches the database as a
// bind parameter.
func (d *TenantDirectory) LookupByCode(ctx context.Context, code string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := d.db.QueryRow(ctx,
		`SELECT id, code, name FROM tenant WHERE code = $1`, code,
	).Scan(&t.ID, &t.Code, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, errors.Join(tenant.ErrUnavailable, err)
	}
	return &t, nil
}
