package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// DBTX is the subset of *pgxpool.Pool used by the repositories.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}
