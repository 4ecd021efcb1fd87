// Package ledger implements the transactional engine of the service. Every
// operation that touches more than one row runs inside a single unit of work
// supplied by the TxManager, so either all row changes commit or none do.
// Concurrency correctness is delegated to the database: balance updates are
// in-place increments and uniqueness is a constraint, so there are no
// application-level locks here.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/berry-ledger/internal/domain/account"
	"github.com/berry-ledger/internal/domain/posting"
	"github.com/berry-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	txm      TxManager
	accounts account.Repository
	postings posting.Repository
	events   EventPublisher // nil disables event publishing
	logger   *slog.Logger
}

// NewService creates the ledger service. events may be nil when the event
// stream is disabled.
func NewService(
	txm TxManager,
	accounts account.Repository,
	postings posting.Repository,
	events EventPublisher,
	logger *slog.Logger,
) Service {
	return &ServiceImpl{
		txm:      txm,
		accounts: accounts,
		postings: postings,
		events:   events,
		logger:   logger,
	}
}

// CreateAccount validates the name, then inserts the row inside a unit of
// work. Duplicates are detected from the storage constraint, never from a
// pre-check, and the returned account is the constructed value (no re-read).
func (s *ServiceImpl) CreateAccount(ctx context.Context, name string) (*account.Account, error) {
	acc, err := account.NewAccount(name)
	if err != nil {
		return nil, err
	}

	err = s.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.accounts.WithTx(tx).Create(ctx, acc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created", "account_id", acc.ID.String(), "name", acc.Name)
	return acc, nil
}

// GetAccountByID fetches an account by id
func (s *ServiceImpl) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// GetAccountByName fetches an account by its trimmed name
func (s *ServiceImpl) GetAccountByName(ctx context.Context, name string) (*account.Account, error) {
	trimmed, err := account.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return s.accounts.GetByName(ctx, trimmed)
}

// GetOrCreateAccount fetches by name and creates on a miss. Lookup and
// create are two separate operations; the loser of a concurrent race on the
// same name observes ErrDuplicateAccountName from the create.
func (s *ServiceImpl) GetOrCreateAccount(ctx context.Context, name string) (*account.Account, error) {
	acc, err := s.GetAccountByName(ctx, name)
	if err == nil {
		return acc, nil
	}

	var notFound account.ErrAccountNameNotFound
	if !errors.As(err, &notFound) {
		return nil, err
	}

	return s.CreateAccount(ctx, name)
}

// ListAccounts returns all accounts
func (s *ServiceImpl) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	return s.accounts.List(ctx)
}

// RenameAccount validates the new name and issues a single UPDATE. Existence
// and uniqueness are decided by the database (affected rows and constraint).
func (s *ServiceImpl) RenameAccount(ctx context.Context, id uuid.UUID, newName string) error {
	trimmed, err := account.NormalizeName(newName)
	if err != nil {
		return err
	}

	if err := s.accounts.Rename(ctx, id, trimmed); err != nil {
		return err
	}

	s.logger.Info("account renamed", "account_id", id.String(), "new_name", trimmed)
	return nil
}

// UpdateAccountBalance applies a signed delta inside a unit of work
func (s *ServiceImpl) UpdateAccountBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*account.Account, error) {
	var acc *account.Account
	err := s.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		var txErr error
		acc, txErr = s.accounts.WithTx(tx).AddToBalance(ctx, id, delta)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// DeleteAccount removes an account by id
func (s *ServiceImpl) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("account deleted", "account_id", id.String())
	return nil
}

// checkAccountsExist verifies both sides of a transaction, source first. If
// both are missing the source error wins.
func (s *ServiceImpl) checkAccountsExist(ctx context.Context, sourceID, destinationID uuid.UUID) error {
	if _, err := s.accounts.GetByID(ctx, sourceID); err != nil {
		var notFound account.ErrAccountNotFound
		if errors.As(err, &notFound) {
			return posting.ErrSourceAccountNotFound{AccountID: notFound.AccountID}
		}
		return err
	}

	if _, err := s.accounts.GetByID(ctx, destinationID); err != nil {
		var notFound account.ErrAccountNotFound
		if errors.As(err, &notFound) {
			return posting.ErrDestinationAccountNotFound{AccountID: notFound.AccountID}
		}
		return err
	}

	return nil
}

// CreateTransaction persists a posting and applies its amount to both
// account balances in one atomic unit of work: insert the row, subtract from
// the source, add to the destination. Any failure rolls the whole unit back;
// no partial balance change can survive.
func (s *ServiceImpl) CreateTransaction(ctx context.Context, req *posting.CreateRequest) (*posting.Posting, error) {
	if err := s.checkAccountsExist(ctx, req.SourceAccountID, req.DestinationAccountID); err != nil {
		return nil, err
	}

	// Resolved once so the posting row and both balance mutations share the
	// same clock reading.
	postingDate := time.Now().UTC()
	if req.PostingDate != nil {
		postingDate = *req.PostingDate
	}

	p := &posting.Posting{
		ID:                   uuid.New(),
		Title:                req.Title,
		Amount:               req.Amount,
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Category:             req.Category,
		PostingDate:          postingDate,
	}

	err := s.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)

		if err := s.postings.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}
		if _, err := accounts.AddToBalance(ctx, p.SourceAccountID, p.Amount.Neg()); err != nil {
			return fmt.Errorf("failed to reset source account balance: %w", err)
		}
		if _, err := accounts.AddToBalance(ctx, p.DestinationAccountID, p.Amount); err != nil {
			return fmt.Errorf("failed to reset destination account balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction created",
		"posting_id", p.ID.String(),
		"source_account_id", p.SourceAccountID.String(),
		"destination_account_id", p.DestinationAccountID.String(),
	)
	s.publish(ctx, PostingEvent{
		Type:                 EventPostingCreated,
		PostingID:            p.ID,
		SourceAccountID:      p.SourceAccountID,
		DestinationAccountID: p.DestinationAccountID,
		Amount:               p.Amount,
		OccurredAt:           time.Now().UTC(),
	})

	return p, nil
}

// GetTransactionByID fetches a posting by id
func (s *ServiceImpl) GetTransactionByID(ctx context.Context, id uuid.UUID) (*posting.Posting, error) {
	return s.postings.GetByID(ctx, id)
}

// ListTransactions returns postings ordered by posting date descending
func (s *ServiceImpl) ListTransactions(ctx context.Context, page *shared.Pagination) ([]*posting.Posting, error) {
	return s.postings.List(ctx, page)
}

// DeleteTransaction is the exact inverse of CreateTransaction: delete the
// row (returning the stored reversal fields) and undo both balance effects
// inside one unit of work. Account existence is not re-verified; if an
// account was deleted out-of-band the reversal fails and the rollback leaves
// the posting row intact.
func (s *ServiceImpl) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	var rev *posting.Reversal
	err := s.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)

		var txErr error
		rev, txErr = s.postings.WithTx(tx).DeleteReturning(ctx, id)
		if txErr != nil {
			return txErr
		}
		if _, txErr = accounts.AddToBalance(ctx, rev.SourceAccountID, rev.Amount); txErr != nil {
			return fmt.Errorf("failed to reset source account balance: %w", txErr)
		}
		if _, txErr = accounts.AddToBalance(ctx, rev.DestinationAccountID, rev.Amount.Neg()); txErr != nil {
			return fmt.Errorf("failed to reset destination account balance: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("transaction deleted", "posting_id", id.String())
	s.publish(ctx, PostingEvent{
		Type:                 EventPostingDeleted,
		PostingID:            id,
		SourceAccountID:      rev.SourceAccountID,
		DestinationAccountID: rev.DestinationAccountID,
		Amount:               rev.Amount,
		OccurredAt:           time.Now().UTC(),
	})

	return nil
}

// publish sends an event to the stream when one is configured. Failures are
// logged and swallowed: the mutation has already committed.
func (s *ServiceImpl) publish(ctx context.Context, event PostingEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event.PostingID.String(), event); err != nil {
		s.logger.Warn("failed to publish ledger event", "type", event.Type, "posting_id", event.PostingID.String(), "error", err)
	}
}
