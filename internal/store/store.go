// Package store provides database access for all blog entities. Each
// store struct wraps a *sql.DB and exposes typed query methods. Stores
// classify storage failures into the apperr taxonomy: missing rows are
// reported as nil results, unique-constraint violations become Conflict
// errors, and everything else is wrapped for logging.
package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
)

// querier is the subset of *sql.DB and *sql.Tx the shared helpers need.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// uniqueViolation extracts the Postgres unique-violation error, if any.
func uniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr, true
	}
	return nil, false
}

// conflictError translates a unique violation into a client-facing
// Conflict error. Slug constraints get a specific message: two distinct
// names can normalize to the same slug, and the caller should learn
// that rather than a generic duplicate complaint.
func conflictError(pgErr *pgconn.PgError, entity string) error {
	if strings.Contains(pgErr.ConstraintName, "slug") {
		return apperr.Conflict("%s name produces a duplicate slug", entity)
	}
	return apperr.Conflict("%s already exists", entity)
}
