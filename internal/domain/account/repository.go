package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByName(ctx context.Context, name string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	Rename(ctx context.Context, id uuid.UUID, newName string) error

	// AddToBalance applies a signed delta to the stored balance as a single
	// atomic read-modify-write performed by the database, and returns the
	// resulting account row.
	AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*Account, error)

	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates no account exists for the given id
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// ErrAccountNameNotFound indicates no account exists with the given name
type ErrAccountNameNotFound struct {
	Name string
}

func (e ErrAccountNameNotFound) Error() string {
	return "account not found with name: " + e.Name
}

// ErrDuplicateAccountName indicates a name-uniqueness violation
type ErrDuplicateAccountName struct {
	Name string
}

func (e ErrDuplicateAccountName) Error() string {
	return "account with name already exists: " + e.Name
}
