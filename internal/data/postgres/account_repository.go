// Package postgres provides PostgreSQL implementations of the domain
// repositories. All ledger state lives here; repositories accept either the
// connection pool or a transaction through the persistence.Querier interface.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL chart-of-accounts repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetByCode retrieves an account by its chart code
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*account.Account, error) {
	query := `
		SELECT id, code, name, type, normal_side, is_system, active, created_at
		FROM accounts
		WHERE code = $1
	`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{Code: code}
		}
		r.logger.Error("Failed to get account by code", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get account by code: %w", mapSchemaErr(err))
	}

	return acc, nil
}

// EnsureByCode gets or creates an account. A concurrent create of the same
// code is absorbed by the conflict clause; the re-read returns whichever row
// won.
func (r *AccountRepository) EnsureByCode(ctx context.Context, code, name string, accType account.Type, side account.NormalSide) (*account.Account, error) {
	query := `
		INSERT INTO accounts (code, name, type, normal_side, is_system, active)
		VALUES ($1, $2, $3, $4, TRUE, TRUE)
		ON CONFLICT (code) DO NOTHING
	`

	if _, err := r.querier.Exec(ctx, query, code, name, accType, side); err != nil {
		r.logger.Error("Failed to ensure account", "code", code, "error", err)
		return nil, fmt.Errorf("failed to ensure account %s: %w", code, mapSchemaErr(err))
	}

	return r.GetByCode(ctx, code)
}

// EnsureSeeded inserts any missing rows of the fixed chart of accounts.
// The chart is normally seeded by migration; this is a startup safety net for
// databases provisioned before the seed migration existed.
func (r *AccountRepository) EnsureSeeded(ctx context.Context) error {
	query := `
		INSERT INTO accounts (code, name, type, normal_side, is_system, active)
		VALUES ($1, $2, $3, $4, TRUE, TRUE)
		ON CONFLICT (code) DO NOTHING
	`

	for _, entry := range account.Chart {
		if _, err := r.querier.Exec(ctx, query, entry.Code, entry.Name, entry.Type, entry.NormalSide); err != nil {
			r.logger.Error("Failed to seed account", "code", entry.Code, "error", err)
			return fmt.Errorf("failed to seed account %s: %w", entry.Code, mapSchemaErr(err))
		}
	}

	return nil
}

// ListActive returns all active accounts ordered by code
func (r *AccountRepository) ListActive(ctx context.Context) ([]*account.Account, error) {
	query := `
		SELECT id, code, name, type, normal_side, is_system, active, created_at
		FROM accounts
		WHERE active = TRUE
		ORDER BY code ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", mapSchemaErr(err))
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := r.scanAccount(rows)
		if err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID,
		&acc.Code,
		&acc.Name,
		&acc.Type,
		&acc.NormalSide,
		&acc.IsSystem,
		&acc.Active,
		&acc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
