// Package importer loads credit card CSV exports into the ledger. Every row
// becomes one transaction from a single source account to a per-title
// destination account, both created on demand.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/berry-ledger/internal/domain/account"
	"github.com/berry-ledger/internal/domain/posting"
	"github.com/berry-ledger/internal/ledger"
	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
)

// Column header aliases accepted in the CSV header row, lowercased
var (
	dateAliases     = []string{"date", "data"}
	titleAliases    = []string{"title", "description", "descricao", "descrição"}
	amountAliases   = []string{"amount", "valor"}
	categoryAliases = []string{"category", "categoria"}
)

// Importer reads CSV rows and creates ledger transactions through a worker pool
type Importer struct {
	ledgerService ledger.Service
	pool          *ants.Pool
	logger        *slog.Logger
}

// Result summarizes an import run
type Result struct {
	Imported int
	Failed   int
}

// NewImporter creates an importer backed by a worker pool of the given size
func NewImporter(logger *slog.Logger, ledgerService ledger.Service, poolSize int) (*Importer, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create importer worker pool: %w", err)
	}

	return &Importer{
		ledgerService: ledgerService,
		pool:          pool,
		logger:        logger,
	}, nil
}

// Close releases the worker pool
func (imp *Importer) Close() {
	imp.pool.Release()
}

// columns holds the resolved header positions of a CSV file
type columns struct {
	date     int
	title    int
	amount   int
	category int // -1 when absent
}

// resolveColumns maps the header row to column positions, accepting the known
// aliases for each field
func resolveColumns(header []string) (*columns, error) {
	cols := &columns{date: -1, title: -1, amount: -1, category: -1}

	find := func(aliases []string) int {
		for i, cell := range header {
			name := strings.ToLower(strings.TrimSpace(cell))
			for _, alias := range aliases {
				if name == alias {
					return i
				}
			}
		}
		return -1
	}

	cols.date = find(dateAliases)
	cols.title = find(titleAliases)
	cols.amount = find(amountAliases)
	cols.category = find(categoryAliases)

	if cols.date < 0 {
		return nil, fmt.Errorf("csv header is missing a date column (one of %s)", strings.Join(dateAliases, ", "))
	}
	if cols.title < 0 {
		return nil, fmt.Errorf("csv header is missing a title column (one of %s)", strings.Join(titleAliases, ", "))
	}
	if cols.amount < 0 {
		return nil, fmt.Errorf("csv header is missing an amount column (one of %s)", strings.Join(amountAliases, ", "))
	}
	return cols, nil
}

// parseDate accepts dd/mm/yyyy and yyyy-mm-dd
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "/") {
		return time.Parse("02/01/2006", raw)
	}
	return time.Parse("2006-01-02", raw)
}

// ImportFile imports every row of the CSV at path as a transaction out of the
// named source account. Row failures are logged and counted, not fatal; only
// unreadable input or a missing source account aborts the run.
func (imp *Importer) ImportFile(ctx context.Context, path, sourceAccountName string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	source, err := imp.ledgerService.GetOrCreateAccount(ctx, sourceAccountName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source account %q: %w", sourceAccountName, err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv rows: %w", err)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result Result
	)

	for i, row := range rows {
		rowNumber := i + 2 // header is row 1
		rowCopy := row

		wg.Add(1)
		submitErr := imp.pool.Submit(func() {
			defer wg.Done()

			err := imp.importRow(ctx, cols, rowCopy, source)

			mu.Lock()
			if err != nil {
				result.Failed++
			} else {
				result.Imported++
			}
			mu.Unlock()

			if err != nil {
				imp.logger.Warn("skipping csv row", "row", rowNumber, "error", err)
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Failed++
			mu.Unlock()
			imp.logger.Error("failed to submit csv row to worker pool", "row", rowNumber, "error", submitErr)
		}
	}

	wg.Wait()

	imp.logger.Info("csv import finished",
		"file", path,
		"source_account", source.Name,
		"imported", result.Imported,
		"failed", result.Failed,
	)
	return &result, nil
}

// importRow creates one transaction for a CSV row
func (imp *Importer) importRow(ctx context.Context, cols *columns, row []string, source *account.Account) error {
	need := cols.amount
	if cols.date > need {
		need = cols.date
	}
	if cols.title > need {
		need = cols.title
	}
	if len(row) <= need {
		return fmt.Errorf("row has %d columns, expected at least %d", len(row), need+1)
	}

	postingDate, err := parseDate(row[cols.date])
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", row[cols.date], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row[cols.amount]))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", row[cols.amount], err)
	}

	title := strings.TrimSpace(row[cols.title])

	var category *string
	if cols.category >= 0 && cols.category < len(row) {
		if c := strings.TrimSpace(row[cols.category]); c != "" {
			category = &c
		}
	}

	destination, err := imp.getOrCreateDestination(ctx, title)
	if err != nil {
		return fmt.Errorf("failed to resolve destination account %q: %w", title, err)
	}

	req, err := posting.NewCreateRequest(title, amount, source.ID, destination.ID, category, &postingDate)
	if err != nil {
		return err
	}

	if _, err := imp.ledgerService.CreateTransaction(ctx, req); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// getOrCreateDestination resolves the destination account for a row title.
// Concurrent workers can race on the same title, so a duplicate-name failure
// is retried as a plain lookup.
func (imp *Importer) getOrCreateDestination(ctx context.Context, title string) (*account.Account, error) {
	acc, err := imp.ledgerService.GetOrCreateAccount(ctx, title)
	if err == nil {
		return acc, nil
	}

	var duplicateErr account.ErrDuplicateAccountName
	if errors.As(err, &duplicateErr) {
		return imp.ledgerService.GetAccountByName(ctx, title)
	}
	return nil, err
}
