package account

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrEmptyAccountName indicates the account name was empty after trimming
var ErrEmptyAccountName = errors.New("account name cannot be empty")

// Account represents a named ledger account with an exact decimal balance.
// Balances are only ever mutated by applying signed deltas through the
// ledger service; the struct itself is a value returned by copy.
type Account struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccount creates a new account with a fresh id and a zero balance
func NewAccount(name string) (*Account, error) {
	trimmed, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:      uuid.New(),
		Name:    trimmed,
		Balance: decimal.Zero,
	}, nil
}

// NormalizeName trims surrounding whitespace and rejects empty names.
// All name comparisons (uniqueness, lookups) operate on the trimmed value.
func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyAccountName
	}
	return name, nil
}
