// Package postgresql implements the db.Store boundary on Postgres.
package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"

	"github.com/mentorhub/mentorhub/internal/hubsrv/db"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// store implements db.Store on a database/sql pool backed by pgx.
type store struct {
	pool *sql.DB
}

// NewStore wraps an open connection pool in a db.Store.
func NewStore(pool *sql.DB) db.Store {
	return &store{pool: pool}
}

// Ping verifies the backing connection is alive.
func (s *store) Ping(ctx context.Context) error {
	return s.pool.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *store) Close() error {
	return s.pool.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
