package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/berry-ledger/internal/domain/posting"
	"github.com/berry-ledger/internal/domain/shared"
	"github.com/berry-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostingRepository implements the posting.Repository interface for PostgreSQL
type PostingRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPostingRepository creates a new PostgreSQL posting repository backed by
// the connection pool.
func NewPostingRepository(logger *slog.Logger, db *persistence.PostgresDB) posting.Repository {
	return &PostingRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *PostingRepository) WithTx(tx pgx.Tx) posting.Repository {
	return &PostingRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new posting row
func (r *PostingRepository) Create(ctx context.Context, p *posting.Posting) error {
	query := `
		INSERT INTO postings (id, title, amount, source_account_id, destination_account_id, category, posting_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Amount,
		p.SourceAccountID,
		p.DestinationAccountID,
		p.Category,
		p.PostingDate,
	)
	if err != nil {
		r.logger.Error("Failed to create posting", "title", p.Title, "error", err)
		return fmt.Errorf("failed to save posting with title %q: %w", p.Title, err)
	}

	return nil
}

// GetByID retrieves a posting by its ID
func (r *PostingRepository) GetByID(ctx context.Context, id uuid.UUID) (*posting.Posting, error) {
	query := `
		SELECT id, title, amount, source_account_id, destination_account_id, category, posting_date
		FROM postings
		WHERE id = $1
	`

	var p posting.Posting
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Amount,
		&p.SourceAccountID,
		&p.DestinationAccountID,
		&p.Category,
		&p.PostingDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, posting.ErrPostingNotFound{PostingID: id}
		}
		r.logger.Error("Failed to get posting", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}

	return &p, nil
}

// List returns postings ordered by posting date descending. With a nil
// pagination every row is returned; this unbounded default is documented
// behavior, not an oversight.
func (r *PostingRepository) List(ctx context.Context, page *shared.Pagination) ([]*posting.Posting, error) {
	query := `
		SELECT id, title, amount, source_account_id, destination_account_id, category, posting_date
		FROM postings
		ORDER BY posting_date DESC
	`

	var (
		rows pgx.Rows
		err  error
	)
	if page != nil {
		rows, err = r.querier.Query(ctx, query+` LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	} else {
		rows, err = r.querier.Query(ctx, query)
	}
	if err != nil {
		r.logger.Error("Failed to list postings", "error", err)
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	postings := make([]*posting.Posting, 0)
	for rows.Next() {
		var p posting.Posting
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Amount,
			&p.SourceAccountID,
			&p.DestinationAccountID,
			&p.Category,
			&p.PostingDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan posting row: %w", err)
		}
		postings = append(postings, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posting rows: %w", err)
	}

	return postings, nil
}

// DeleteReturning removes a posting and returns the stored reversal fields
// from the same statement. No row matched surfaces as ErrPostingNotFound and
// nothing else is executed.
func (r *PostingRepository) DeleteReturning(ctx context.Context, id uuid.UUID) (*posting.Reversal, error) {
	query := `
		DELETE FROM postings
		WHERE id = $1
		RETURNING source_account_id, destination_account_id, amount
	`

	var rev posting.Reversal
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&rev.SourceAccountID,
		&rev.DestinationAccountID,
		&rev.Amount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, posting.ErrPostingNotFound{PostingID: id}
		}
		r.logger.Error("Failed to delete posting", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to delete posting: %w", err)
	}

	return &rev, nil
}
