package handler

import (
	"time"

	"github.com/berry-ledger/internal/domain/account"
	"github.com/berry-ledger/internal/domain/posting"
)

// CreateAccountRequest represents a request to create a new account
type CreateAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameAccountRequest represents a request to rename an existing account
type RenameAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

// CreateTransactionRequest represents a request to create a new transaction.
// Amount is a decimal string so fractional cents survive the wire exactly.
type CreateTransactionRequest struct {
	Title                string     `json:"title" binding:"required"`
	Amount               string     `json:"amount" binding:"required"`
	SourceAccountID      string     `json:"source_account_id" binding:"required,uuid"`
	DestinationAccountID string     `json:"destination_account_id" binding:"required,uuid"`
	Category             *string    `json:"category,omitempty"`
	PostingDate          *time.Time `json:"posting_date,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Amount               string  `json:"amount"`
	SourceAccountID      string  `json:"source_account_id"`
	DestinationAccountID string  `json:"destination_account_id"`
	Category             *string `json:"category,omitempty"`
	PostingDate          string  `json:"posting_date"`
}

// PaginationParams represents pagination parameters for list endpoints.
// Out-of-range values are clamped rather than rejected.
type PaginationParams struct {
	Page    int `form:"page,default=1"`
	PerPage int `form:"per_page,default=20"`
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:      acc.ID.String(),
		Name:    acc.Name,
		Balance: acc.Balance.String(),
	}
}

// mapPostingToResponse maps a posting entity to a transaction response DTO
func mapPostingToResponse(p *posting.Posting) TransactionResponse {
	return TransactionResponse{
		ID:                   p.ID.String(),
		Title:                p.Title,
		Amount:               p.Amount.String(),
		SourceAccountID:      p.SourceAccountID.String(),
		DestinationAccountID: p.DestinationAccountID.String(),
		Category:             p.Category,
		PostingDate:          p.PostingDate.Format(time.RFC3339),
	}
}
