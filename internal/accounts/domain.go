package accounts

import "github.com/tyreledger/tyreledger/internal/ledger"

// FallbackKey groups transactions that carry no account name.
const FallbackKey = "N/A"

// BrandSummary accumulates one brand's share of an account.
type BrandSummary struct {
	TotalItems int      `json:"total_items"`
	TotalCost  float64  `json:"total_cost"`
	Sizes      []string `json:"sizes"`
	Dates      []string `json:"dates"`

	sizeSet map[string]struct{}
	dateSet map[string]struct{}
}

// Summary is the aggregated view of a company or customer account.
type Summary struct {
	Key        string                   `json:"key"`
	TotalItems int                      `json:"total_items"`
	TotalCost  float64                  `json:"total_cost"`
	Brands     map[string]*BrandSummary `json:"brands"`
}

// Detail is the manually reconciled payment record for an account, or for one
// brand of an account when Brand is set. Due is always recomputed, never
// trusted from input.
type Detail struct {
	AccountType    ledger.AccountType `json:"account_type" db:"account_type"`
	Key            string             `json:"key" db:"key"`
	Brand          string             `json:"brand" db:"brand"`
	TotalPaid      float64            `json:"total_paid" db:"total_paid"`
	DiscountAmount float64            `json:"discount_amount" db:"discount_amount"`
	Due            float64            `json:"due" db:"due"`
	Date           string             `json:"date" db:"date"`
	TotalItems     int                `json:"total_items" db:"total_items"`
	TotalCost      float64            `json:"total_cost" db:"total_cost"`
}

// Reconciled merges a Summary with its Detail into the presented account row.
type Reconciled struct {
	Key            string  `json:"key"`
	TotalItems     int     `json:"total_items"`
	TotalCost      float64 `json:"total_cost"`
	TotalPaid      float64 `json:"total_paid"`
	DiscountAmount float64 `json:"discount_amount"`
	Due            float64 `json:"due"`
}

// BrandReconciled is the brand-level reconciliation row. There is no discount
// term at brand level.
type BrandReconciled struct {
	Key        string  `json:"key"`
	Brand      string  `json:"brand"`
	TotalItems int     `json:"total_items"`
	TotalCost  float64 `json:"total_cost"`
	TotalPaid  float64 `json:"total_paid"`
	Due        float64 `json:"due"`
}
