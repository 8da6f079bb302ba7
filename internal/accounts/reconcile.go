package accounts

import (
	"sort"

	"github.com/shopspring/decimal"
)

// computeDue derives the outstanding balance, clamped to zero. Excess payment
// never shows as a credit balance; the clamp discards it from the due figure.
func computeDue(totalCost, totalPaid, discount float64) float64 {
	due := decimal.NewFromFloat(totalCost).
		Sub(decimal.NewFromFloat(totalPaid)).
		Sub(decimal.NewFromFloat(discount)).
		Round(2)
	if due.IsNegative() {
		return 0
	}
	return due.InexactFloat64()
}

// Reconcile merges aggregated summaries with account-level details. Accounts
// with no detail reconcile against zero paid and zero discount. Output is
// sorted by key.
func Reconcile(summaries map[string]*Summary, details []Detail) []Reconciled {
	byKey := make(map[string]Detail, len(details))
	for _, d := range details {
		if d.Brand != "" {
			continue
		}
		byKey[d.Key] = d
	}

	out := make([]Reconciled, 0, len(summaries))
	for key, sum := range summaries {
		d := byKey[key]
		out = append(out, Reconciled{
			Key:            key,
			TotalItems:     sum.TotalItems,
			TotalCost:      sum.TotalCost,
			TotalPaid:      d.TotalPaid,
			DiscountAmount: d.DiscountAmount,
			Due:            computeDue(sum.TotalCost, d.TotalPaid, d.DiscountAmount),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ReconcileBrands reconciles one account's brand summaries against its
// brand-level details, keyed by (account, brand).
func ReconcileBrands(sum *Summary, details []Detail) []BrandReconciled {
	byBrand := make(map[string]Detail, len(details))
	for _, d := range details {
		if d.Key != sum.Key || d.Brand == "" {
			continue
		}
		byBrand[d.Brand] = d
	}

	out := make([]BrandReconciled, 0, len(sum.Brands))
	for brand, b := range sum.Brands {
		d := byBrand[brand]
		out = append(out, BrandReconciled{
			Key:        sum.Key,
			Brand:      brand,
			TotalItems: b.TotalItems,
			TotalCost:  b.TotalCost,
			TotalPaid:  d.TotalPaid,
			Due:        computeDue(b.TotalCost, d.TotalPaid, 0),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Brand < out[j].Brand })
	return out
}
