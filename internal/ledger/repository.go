package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyreledger/tyreledger/internal/shared"
)

// Repository stores ledger entries for both account types.
type Repository interface {
	List(ctx context.Context, accountType AccountType, accountKey string) ([]Entry, error)
	ListAll(ctx context.Context, accountType AccountType) ([]Entry, error)
	Insert(ctx context.Context, e Entry) error
	HasInvoice(ctx context.Context, accountType AccountType, invoiceNumber string) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the Postgres-backed ledger repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const entryColumns = `id, account_type, account_key, invoice_number, date, narration, debit, credit`

func (r *repository) List(ctx context.Context, accountType AccountType, accountKey string) ([]Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE account_type = $1 AND account_key = $2 ORDER BY date, id`, entryColumns)
	rows, err := r.pool.Query(ctx, query, accountType, accountKey)
	if err != nil {
		return nil, fmt.Errorf("ledger: list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AccountType, &e.AccountKey, &e.InvoiceNumber, &e.Date, &e.Narration, &e.Debit, &e.Credit); err != nil {
			return nil, fmt.Errorf("ledger: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) ListAll(ctx context.Context, accountType AccountType) ([]Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE account_type = $1 ORDER BY date, id`, entryColumns)
	rows, err := r.pool.Query(ctx, query, accountType)
	if err != nil {
		return nil, fmt.Errorf("ledger: list all entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AccountType, &e.AccountKey, &e.InvoiceNumber, &e.Date, &e.Narration, &e.Debit, &e.Credit); err != nil {
			return nil, fmt.Errorf("ledger: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) Insert(ctx context.Context, e Entry) error {
	const query = `
		INSERT INTO ledger_entries (id, account_type, account_key, invoice_number, date, narration, debit, credit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query, e.ID, e.AccountType, e.AccountKey, e.InvoiceNumber, e.Date, e.Narration, e.Debit, e.Credit)
	if err != nil {
		return shared.WrapStore("ledger: insert entry", err)
	}
	return nil
}

func (r *repository) HasInvoice(ctx context.Context, accountType AccountType, invoiceNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE account_type = $1 AND invoice_number = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, accountType, invoiceNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("ledger: has invoice: %w", err)
	}
	return exists, nil
}
