package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/berry-ledger/internal/domain/posting"
	"github.com/berry-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPosting() *posting.Posting {
	category := "groceries"
	return &posting.Posting{
		ID:                   uuid.New(),
		Title:                "Supermarket",
		Amount:               decimal.RequireFromString("42.50"),
		SourceAccountID:      uuid.New(),
		DestinationAccountID: uuid.New(),
		Category:             &category,
		PostingDate:          time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPostingRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PostingRepository{querier: mock, logger: logger}
	p := testPosting()

	query := `
		INSERT INTO postings \(id, title, amount, source_account_id, destination_account_id, category, posting_date\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(p.ID, p.Title, p.Amount, p.SourceAccountID, p.DestinationAccountID, p.Category, p.PostingDate).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, p)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(p.ID, p.Title, p.Amount, p.SourceAccountID, p.DestinationAccountID, p.Category, p.PostingDate).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, p)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save posting")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostingRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PostingRepository{querier: mock, logger: logger}
	p := testPosting()

	query := `
		SELECT id, title, amount, source_account_id, destination_account_id, category, posting_date
		FROM postings
		WHERE id = \$1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "title", "amount", "source_account_id", "destination_account_id", "category", "posting_date"}).
			AddRow(p.ID, p.Title, p.Amount, p.SourceAccountID, p.DestinationAccountID, p.Category, p.PostingDate)
		mock.ExpectQuery(query).WithArgs(p.ID).WillReturnRows(rows)

		got, err := repo.GetByID(ctx, p.ID)
		assert.NoError(t, err)
		assert.Equal(t, p, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(p.ID).WillReturnError(pgx.ErrNoRows)

		got, err := repo.GetByID(ctx, p.ID)
		assert.Nil(t, got)
		var notFoundErr posting.ErrPostingNotFound
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, p.ID, notFoundErr.PostingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostingRepository_List(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PostingRepository{querier: mock, logger: logger}

	columns := []string{"id", "title", "amount", "source_account_id", "destination_account_id", "category", "posting_date"}

	baseQuery := `
		SELECT id, title, amount, source_account_id, destination_account_id, category, posting_date
		FROM postings
		ORDER BY posting_date DESC
	`

	t.Run("without pagination returns everything", func(t *testing.T) {
		first := testPosting()
		second := testPosting()
		rows := pgxmock.NewRows(columns).
			AddRow(first.ID, first.Title, first.Amount, first.SourceAccountID, first.DestinationAccountID, first.Category, first.PostingDate).
			AddRow(second.ID, second.Title, second.Amount, second.SourceAccountID, second.DestinationAccountID, second.Category, second.PostingDate)
		mock.ExpectQuery(baseQuery).WillReturnRows(rows)

		postings, err := repo.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, postings, 2)
		assert.Equal(t, first.ID, postings[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with pagination applies limit and offset", func(t *testing.T) {
		p := testPosting()
		rows := pgxmock.NewRows(columns).
			AddRow(p.ID, p.Title, p.Amount, p.SourceAccountID, p.DestinationAccountID, p.Category, p.PostingDate)
		mock.ExpectQuery(baseQuery + ` LIMIT \$1 OFFSET \$2`).
			WithArgs(int64(20), int64(40)).
			WillReturnRows(rows)

		page := shared.NewPagination(3, 20)
		postings, err := repo.List(ctx, &page)
		require.NoError(t, err)
		require.Len(t, postings, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty store returns empty slice", func(t *testing.T) {
		mock.ExpectQuery(baseQuery).WillReturnRows(pgxmock.NewRows(columns))

		postings, err := repo.List(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, postings)
		assert.NotNil(t, postings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostingRepository_DeleteReturning(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PostingRepository{querier: mock, logger: logger}
	postingID := uuid.New()

	query := `
		DELETE FROM postings
		WHERE id = \$1
		RETURNING source_account_id, destination_account_id, amount
	`

	t.Run("returns the reversal fields", func(t *testing.T) {
		source := uuid.New()
		destination := uuid.New()
		amount := decimal.RequireFromString("42")
		rows := pgxmock.NewRows([]string{"source_account_id", "destination_account_id", "amount"}).
			AddRow(source, destination, amount)
		mock.ExpectQuery(query).WithArgs(postingID).WillReturnRows(rows)

		rev, err := repo.DeleteReturning(ctx, postingID)
		require.NoError(t, err)
		assert.Equal(t, source, rev.SourceAccountID)
		assert.Equal(t, destination, rev.DestinationAccountID)
		assert.True(t, rev.Amount.Equal(amount))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(postingID).WillReturnError(pgx.ErrNoRows)

		rev, err := repo.DeleteReturning(ctx, postingID)
		assert.Nil(t, rev)
		var notFoundErr posting.ErrPostingNotFound
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, postingID, notFoundErr.PostingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
