package postgres

import (
	"errors"
	"fmt"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the ledger cares about
const (
	pgUndefinedTable  = "42P01"
	pgUniqueViolation = "23505"
)

// mapSchemaErr converts an undefined-table error into the ledger-not-provisioned
// precondition failure. Every repository method routes write/read errors
// through this so a missing migration fails fast instead of degrading.
func mapSchemaErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%w: %s", account.ErrLedgerNotProvisioned, pgErr.Message)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// The payment poster treats this as a duplicate-detected outcome, not an error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
