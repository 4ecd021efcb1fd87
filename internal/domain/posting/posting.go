// Package posting holds the transaction entity of the ledger. A posting is a
// directed monetary flow of a fixed amount from a source account to a
// destination account at a point in time. Postings are immutable once
// created; the only mutation is deletion, which reverses the balance effect.
package posting

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrEmptyPostingTitle indicates the posting title was empty after trimming
var ErrEmptyPostingTitle = errors.New("posting title cannot be empty")

// Posting represents a persisted ledger transaction
type Posting struct {
	ID                   uuid.UUID       `json:"id"`
	Title                string          `json:"title"`
	Amount               decimal.Decimal `json:"amount"`
	SourceAccountID      uuid.UUID       `json:"source_account_id"`
	DestinationAccountID uuid.UUID       `json:"destination_account_id"`
	Category             *string         `json:"category,omitempty"`
	PostingDate          time.Time       `json:"posting_date"`
}

// CreateRequest carries the validated inputs for creating a posting.
// A nil PostingDate means "now"; the ledger service resolves it once so the
// posting row and both balance mutations share the same clock reading.
type CreateRequest struct {
	Title                string
	Amount               decimal.Decimal
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Category             *string
	PostingDate          *time.Time
}

// NewCreateRequest validates and builds a CreateRequest. The title is
// trimmed; empty-after-trim is rejected. The amount is not sign-checked:
// credit-card statements post negative values and the ledger handles both
// directions symmetrically.
func NewCreateRequest(
	title string,
	amount decimal.Decimal,
	sourceAccountID uuid.UUID,
	destinationAccountID uuid.UUID,
	category *string,
	postingDate *time.Time,
) (*CreateRequest, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrEmptyPostingTitle
	}

	return &CreateRequest{
		Title:                trimmed,
		Amount:               amount,
		SourceAccountID:      sourceAccountID,
		DestinationAccountID: destinationAccountID,
		Category:             category,
		PostingDate:          postingDate,
	}, nil
}

// Reversal carries the stored fields needed to undo a posting's balance
// effects after the row has been deleted.
type Reversal struct {
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
}
