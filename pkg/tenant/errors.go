package tenant

import "errors"

var (
	// ErrMissingTenantHeader is returned when a tenant-scoped request
	// carries no tenant header.
	ErrMissingTenantHeader = errors.New("tenant header required")

	// ErrTenantNotFound is returned when no tenant matches the given code.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrNotAMember is returned when the authenticated user has no
	// membership for the resolved tenant.
	ErrNotAMember = errors.New("user is not a member of tenant")

	// ErrUnavailable is returned when the directory or membership store
	// cannot be reached. The gate always rejects on it, never allows.
	ErrUnavailable = errors.New("tenant backend unavailable")

	// ErrNoTenantInContext is returned when a handler requires a resolved
	// tenant but none was attached to the request context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
