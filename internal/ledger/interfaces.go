package ledger

import (
	"context"

	"github.com/berry-ledger/internal/domain/account"
	"github.com/berry-ledger/internal/domain/posting"
	"github.com/berry-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TxManager runs a function inside a single database transaction. If the
// function returns an error the transaction is rolled back and the error is
// returned unchanged; otherwise the transaction commits.
type TxManager interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// EventPublisher publishes ledger events after a committed mutation.
// Publishing is best effort and never affects the outcome of the operation.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// Service is the single authority over account and posting persistence, and
// the only component permitted to mutate balances.
type Service interface {
	// CreateAccount persists a new account with a zero balance.
	// Returns account.ErrDuplicateAccountName if the name is taken and
	// account.ErrEmptyAccountName if the name is empty after trimming.
	CreateAccount(ctx context.Context, name string) (*account.Account, error)

	// GetAccountByID returns account.ErrAccountNotFound if no account exists
	GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// GetAccountByName looks up by exact (trimmed, case-sensitive) name.
	// Returns account.ErrAccountNameNotFound if no account matches.
	GetAccountByName(ctx context.Context, name string) (*account.Account, error)

	// GetOrCreateAccount looks the name up and creates the account when the
	// lookup misses. The two steps are not atomic: concurrent callers racing
	// on the same name can observe ErrDuplicateAccountName and should retry.
	GetOrCreateAccount(ctx context.Context, name string) (*account.Account, error)

	// ListAccounts returns every account; empty store yields an empty slice
	ListAccounts(ctx context.Context) ([]*account.Account, error)

	// RenameAccount changes only the name, with the same validation as
	// CreateAccount
	RenameAccount(ctx context.Context, id uuid.UUID, newName string) error

	// UpdateAccountBalance applies a signed delta to the stored balance and
	// returns the updated account
	UpdateAccountBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*account.Account, error)

	// DeleteAccount removes the account. Postings referencing it are left in
	// place; deleting their transaction later fails cleanly during reversal.
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	// CreateTransaction persists a posting and moves its amount from the
	// source account to the destination account in one atomic unit of work.
	CreateTransaction(ctx context.Context, req *posting.CreateRequest) (*posting.Posting, error)

	// GetTransactionByID returns posting.ErrPostingNotFound if none exists
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*posting.Posting, error)

	// ListTransactions returns postings ordered by posting date descending.
	// A nil pagination returns everything.
	ListTransactions(ctx context.Context, page *shared.Pagination) ([]*posting.Posting, error)

	// DeleteTransaction removes a posting and reverses its balance effects
	// in one atomic unit of work
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}
