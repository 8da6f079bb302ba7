package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/platform/db"
	"github.com/tyreledger/tyreledger/internal/shared"
)

// Repository stores reconciliation details. A payment upsert and its ledger
// trace land in one transaction.
type Repository interface {
	ListDetails(ctx context.Context, accountType ledger.AccountType) ([]Detail, error)
	GetDetail(ctx context.Context, accountType ledger.AccountType, key, brand string) (*Detail, error)
	UpsertPayment(ctx context.Context, detail Detail, brandDetail *Detail, entry ledger.Entry) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the Postgres-backed accounts repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const detailColumns = `account_type, key, brand, total_paid, discount_amount, due, date, total_items, total_cost`

func (r *repository) ListDetails(ctx context.Context, accountType ledger.AccountType) ([]Detail, error) {
	query := fmt.Sprintf(`SELECT %s FROM account_details WHERE account_type = $1 ORDER BY key, brand`, detailColumns)
	rows, err := r.pool.Query(ctx, query, accountType)
	if err != nil {
		return nil, fmt.Errorf("accounts: list details: %w", err)
	}
	defer rows.Close()

	var details []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.AccountType, &d.Key, &d.Brand, &d.TotalPaid, &d.DiscountAmount, &d.Due, &d.Date, &d.TotalItems, &d.TotalCost); err != nil {
			return nil, fmt.Errorf("accounts: scan detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *repository) GetDetail(ctx context.Context, accountType ledger.AccountType, key, brand string) (*Detail, error) {
	query := fmt.Sprintf(`SELECT %s FROM account_details WHERE account_type = $1 AND key = $2 AND brand = $3`, detailColumns)
	var d Detail
	err := r.pool.QueryRow(ctx, query, accountType, key, brand).Scan(&d.AccountType, &d.Key, &d.Brand, &d.TotalPaid, &d.DiscountAmount, &d.Due, &d.Date, &d.TotalItems, &d.TotalCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("accounts: get detail: %w", err)
	}
	return &d, nil
}

func upsertDetailTx(ctx context.Context, tx pgx.Tx, d Detail) error {
	const query = `
		INSERT INTO account_details (account_type, key, brand, total_paid, discount_amount, due, date, total_items, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (account_type, key, brand) DO UPDATE SET
			total_paid = EXCLUDED.total_paid,
			discount_amount = EXCLUDED.discount_amount,
			due = EXCLUDED.due,
			date = EXCLUDED.date,
			total_items = EXCLUDED.total_items,
			total_cost = EXCLUDED.total_cost`
	_, err := tx.Exec(ctx, query, d.AccountType, d.Key, d.Brand, d.TotalPaid, d.DiscountAmount, d.Due, d.Date, d.TotalItems, d.TotalCost)
	return err
}

func (r *repository) UpsertPayment(ctx context.Context, detail Detail, brandDetail *Detail, entry ledger.Entry) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := upsertDetailTx(ctx, tx, detail); err != nil {
			return err
		}
		if brandDetail != nil {
			if err := upsertDetailTx(ctx, tx, *brandDetail); err != nil {
				return err
			}
		}
		const insertEntry = `
			INSERT INTO ledger_entries (id, account_type, account_key, invoice_number, date, narration, debit, credit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := tx.Exec(ctx, insertEntry, entry.ID, entry.AccountType, entry.AccountKey, entry.InvoiceNumber, entry.Date, entry.Narration, entry.Debit, entry.Credit)
		return err
	})
	if err != nil {
		return shared.WrapStore("accounts: upsert payment", err)
	}
	return nil
}
