// Package postgres provides the PostgreSQL implementations of the domain
// repositories. Uniqueness and not-found conditions are detected from the
// database's own signals (constraint violations, affected-row counts) rather
// than read-before-write checks, so there is no check-then-act window.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/berry-ledger/internal/domain/account"
	"github.com/berry-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations (class 23, integrity constraint violation).
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository backed by
// the connection pool.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction so account
// mutations can participate in a larger atomic unit of work.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. A name collision surfaces as
// account.ErrDuplicateAccountName, detected from the unique constraint.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, name, balance)
		VALUES ($1, $2, $3)
	`

	_, err := r.querier.Exec(ctx, query, acc.ID, acc.Name, acc.Balance)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateAccountName{Name: acc.Name}
		}
		r.logger.Error("Failed to create account", "name", acc.Name, "error", err)
		return fmt.Errorf("failed to save account with name %q: %w", acc.Name, err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, name, balance
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(&acc.ID, &acc.Name, &acc.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// GetByName retrieves an account by its name. The match is case-sensitive
// and exact against the trimmed stored value.
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*account.Account, error) {
	query := `
		SELECT id, name, balance
		FROM accounts
		WHERE name = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, name).Scan(&acc.ID, &acc.Name, &acc.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNameNotFound{Name: name}
		}
		r.logger.Error("Failed to get account by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to get account by name: %w", err)
	}

	return &acc, nil
}

// List returns all accounts. An empty table yields an empty slice, not an
// error.
func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	query := `
		SELECT id, name, balance
		FROM accounts
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*account.Account, 0)
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}

	return accounts, nil
}

// Rename updates an account's name by id. Zero affected rows means the
// account does not exist; a unique violation means the new name is taken.
// There is deliberately no read before the write.
func (r *AccountRepository) Rename(ctx context.Context, id uuid.UUID, newName string) error {
	query := `
		UPDATE accounts
		SET name = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, newName, id)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateAccountName{Name: newName}
		}
		r.logger.Error("Failed to rename account", "id", id.String(), "error", err)
		return fmt.Errorf("failed to rename account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

// AddToBalance applies a signed delta to the stored balance. The increment
// happens inside the database so concurrent updates to the same account
// serialize on the row instead of losing an update.
func (r *AccountRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*account.Account, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1
		WHERE id = $2
		RETURNING id, name, balance
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, delta, id).Scan(&acc.ID, &acc.Name, &acc.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to update account balance", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to update account balance: %w", err)
	}

	return &acc, nil
}

// Delete removes an account by id. No referential check is made against
// existing postings; see the schema notes.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM accounts
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete account", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}
