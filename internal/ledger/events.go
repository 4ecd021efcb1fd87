package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types published to the ledger event stream
const (
	EventPostingCreated = "posting_created"
	EventPostingDeleted = "posting_deleted"
)

// PostingEvent is the payload published after a committed transaction
// mutation. Consumers must treat it as informational: the database row is the
// source of truth.
type PostingEvent struct {
	Type                 string          `json:"type"`
	PostingID            uuid.UUID       `json:"posting_id"`
	SourceAccountID      uuid.UUID       `json:"source_account_id"`
	DestinationAccountID uuid.UUID       `json:"destination_account_id"`
	Amount               decimal.Decimal `json:"amount"`
	OccurredAt           time.Time       `json:"occurred_at"`
}
