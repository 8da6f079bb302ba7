package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyreledger/tyreledger/internal/shared"
)

// Repository is the trade collection store. The engine treats it as the
// external collaborator: full-collection snapshot reads plus create and
// overwrite-by-id writes.
type Repository interface {
	ListPurchases(ctx context.Context) ([]Purchase, error)
	ListSales(ctx context.Context) ([]Sale, error)
	ListReturns(ctx context.Context) ([]Return, error)
	GetSale(ctx context.Context, id string) (*Sale, error)
	CreatePurchase(ctx context.Context, p Purchase) error
	CreateSale(ctx context.Context, s Sale) error
	CreateReturn(ctx context.Context, r Return) error
	UpdatePurchase(ctx context.Context, p Purchase) error
	UpdateSale(ctx context.Context, s Sale) error
	ClearSaleDue(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the Postgres-backed trade repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListPurchases(ctx context.Context) ([]Purchase, error) {
	const query = `
		SELECT id, company, brand, model, size, unit_price, quantity, date, shop_stock
		FROM purchased_tyres
		ORDER BY date, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("trade: list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.Company, &p.Brand, &p.Model, &p.Size, &p.UnitPrice, &p.Quantity, &p.Date, &p.ShopStock); err != nil {
			return nil, fmt.Errorf("trade: scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (r *repository) ListSales(ctx context.Context) ([]Sale, error) {
	const query = `
		SELECT id, customer, company, brand, model, size, unit_price, quantity,
		       discount_percent, due, date, invoice_number
		FROM sold_tyres
		ORDER BY date, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("trade: list sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.Customer, &s.Company, &s.Brand, &s.Model, &s.Size, &s.UnitPrice, &s.Quantity, &s.DiscountPercent, &s.Due, &s.Date, &s.InvoiceNumber); err != nil {
			return nil, fmt.Errorf("trade: scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *repository) ListReturns(ctx context.Context) ([]Return, error) {
	const query = `
		SELECT id, customer, company, brand, model, size, original_unit_price,
		       original_quantity, return_unit_price, return_quantity, date, comment
		FROM returned_tyres
		ORDER BY date, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("trade: list returns: %w", err)
	}
	defer rows.Close()

	var returns []Return
	for rows.Next() {
		var rec Return
		if err := rows.Scan(&rec.ID, &rec.Customer, &rec.Company, &rec.Brand, &rec.Model, &rec.Size, &rec.OriginalUnitPrice, &rec.OriginalQuantity, &rec.ReturnUnitPrice, &rec.ReturnQuantity, &rec.Date, &rec.Comment); err != nil {
			return nil, fmt.Errorf("trade: scan return: %w", err)
		}
		returns = append(returns, rec)
	}
	return returns, rows.Err()
}

func (r *repository) GetSale(ctx context.Context, id string) (*Sale, error) {
	const query = `
		SELECT id, customer, company, brand, model, size, unit_price, quantity,
		       discount_percent, due, date, invoice_number
		FROM sold_tyres
		WHERE id = $1`
	var s Sale
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Customer, &s.Company, &s.Brand, &s.Model, &s.Size, &s.UnitPrice, &s.Quantity, &s.DiscountPercent, &s.Due, &s.Date, &s.InvoiceNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("trade: get sale: %w", err)
	}
	return &s, nil
}

func (r *repository) CreatePurchase(ctx context.Context, p Purchase) error {
	const query = `
		INSERT INTO purchased_tyres (id, company, brand, model, size, unit_price, quantity, date, shop_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query, p.ID, p.Company, p.Brand, p.Model, p.Size, p.UnitPrice, p.Quantity, p.Date, p.ShopStock)
	if err != nil {
		return shared.WrapStore("trade: create purchase", err)
	}
	return nil
}

func (r *repository) CreateSale(ctx context.Context, s Sale) error {
	const query = `
		INSERT INTO sold_tyres (id, customer, company, brand, model, size, unit_price,
		                        quantity, discount_percent, due, date, invoice_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.pool.Exec(ctx, query, s.ID, s.Customer, s.Company, s.Brand, s.Model, s.Size, s.UnitPrice, s.Quantity, s.DiscountPercent, s.Due, s.Date, s.InvoiceNumber)
	if err != nil {
		return shared.WrapStore("trade: create sale", err)
	}
	return nil
}

func (r *repository) CreateReturn(ctx context.Context, rec Return) error {
	const query = `
		INSERT INTO returned_tyres (id, customer, company, brand, model, size,
		                            original_unit_price, original_quantity,
		                            return_unit_price, return_quantity, date, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.pool.Exec(ctx, query, rec.ID, rec.Customer, rec.Company, rec.Brand, rec.Model, rec.Size, rec.OriginalUnitPrice, rec.OriginalQuantity, rec.ReturnUnitPrice, rec.ReturnQuantity, rec.Date, rec.Comment)
	if err != nil {
		return shared.WrapStore("trade: create return", err)
	}
	return nil
}

func (r *repository) UpdatePurchase(ctx context.Context, p Purchase) error {
	const query = `
		UPDATE purchased_tyres
		SET company = $2, brand = $3, model = $4, size = $5, unit_price = $6,
		    quantity = $7, date = $8, shop_stock = $9
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, p.ID, p.Company, p.Brand, p.Model, p.Size, p.UnitPrice, p.Quantity, p.Date, p.ShopStock)
	if err != nil {
		return shared.WrapStore("trade: update purchase", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateSale(ctx context.Context, s Sale) error {
	const query = `
		UPDATE sold_tyres
		SET customer = $2, company = $3, brand = $4, model = $5, size = $6,
		    unit_price = $7, quantity = $8, discount_percent = $9, due = $10,
		    date = $11, invoice_number = $12
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, s.ID, s.Customer, s.Company, s.Brand, s.Model, s.Size, s.UnitPrice, s.Quantity, s.DiscountPercent, s.Due, s.Date, s.InvoiceNumber)
	if err != nil {
		return shared.WrapStore("trade: update sale", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ClearSaleDue(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE sold_tyres SET due = 0 WHERE id = $1`, id)
	if err != nil {
		return shared.WrapStore("trade: clear sale due", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
