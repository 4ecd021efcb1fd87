package posting

import (
	"context"

	"github.com/berry-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines posting persistence operations
type Repository interface {
	Create(ctx context.Context, p *Posting) error
	GetByID(ctx context.Context, id uuid.UUID) (*Posting, error)

	// List returns postings ordered by posting date, most recent first.
	// A nil pagination returns every row.
	List(ctx context.Context, page *shared.Pagination) ([]*Posting, error)

	// DeleteReturning removes the posting and returns the stored reversal
	// fields in the same statement, so delete-and-reverse can run inside one
	// transaction without a prior read.
	DeleteReturning(ctx context.Context, id uuid.UUID) (*Reversal, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrPostingNotFound indicates no posting exists for the given id
type ErrPostingNotFound struct {
	PostingID uuid.UUID
}

func (e ErrPostingNotFound) Error() string {
	return "transaction not found: " + e.PostingID.String()
}

// ErrSourceAccountNotFound indicates the source account of a create request
// does not exist
type ErrSourceAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrSourceAccountNotFound) Error() string {
	return "source account not found: " + e.AccountID.String()
}

// ErrDestinationAccountNotFound indicates the destination account of a
// create request does not exist
type ErrDestinationAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrDestinationAccountNotFound) Error() string {
	return "destination account not found: " + e.AccountID.String()
}
