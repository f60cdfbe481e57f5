package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Querier is the slice of pgxpool.Pool the stores use. Every query is a
// point lookup, so a single-row interface is all they need; tests
// substitute fakes.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ErrUnavailable marks a transport or connectivity failure, as opposed to
// an empty result. Callers must branch on it to fail closed.
var ErrUnavailable = errors.New("store: backend unavailable")
