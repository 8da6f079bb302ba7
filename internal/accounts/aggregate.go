package accounts

import (
	"sort"

	"github.com/tyreledger/tyreledger/internal/shared"
	"github.com/tyreledger/tyreledger/internal/trade"
)

// keyOr returns the account key, falling back for unnamed counterparties.
func keyOr(key string) string {
	if key == "" {
		return FallbackKey
	}
	return key
}

func (s *Summary) add(brand, size, date string, quantity int, unitPrice float64) {
	cost := unitPrice * float64(quantity)
	s.TotalItems += quantity
	s.TotalCost = shared.Round2(s.TotalCost + cost)

	b, ok := s.Brands[brand]
	if !ok {
		b = &BrandSummary{
			sizeSet: make(map[string]struct{}),
			dateSet: make(map[string]struct{}),
		}
		s.Brands[brand] = b
	}
	b.TotalItems += quantity
	b.TotalCost = shared.Round2(b.TotalCost + cost)
	if size != "" {
		b.sizeSet[size] = struct{}{}
	}
	if date != "" {
		b.dateSet[shared.Day(date)] = struct{}{}
	}
}

// finalize materialises the deduplicated sets as sorted slices so repeated
// aggregation of the same snapshot yields identical output.
func finalize(summaries map[string]*Summary) map[string]*Summary {
	for _, s := range summaries {
		for _, b := range s.Brands {
			b.Sizes = sortedKeys(b.sizeSet)
			b.Dates = sortedKeys(b.dateSet)
		}
	}
	return summaries
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func summaryFor(summaries map[string]*Summary, key string) *Summary {
	s, ok := summaries[key]
	if !ok {
		s = &Summary{Key: key, Brands: make(map[string]*BrandSummary)}
		summaries[key] = s
	}
	return s
}

// AggregatePurchases groups purchases by company. Pure over its input; keys
// never present in the input never appear in the output.
func AggregatePurchases(purchases []trade.Purchase) map[string]*Summary {
	summaries := make(map[string]*Summary)
	for _, p := range purchases {
		s := summaryFor(summaries, keyOr(p.Company))
		s.add(p.Brand, p.Size, p.Date, p.Quantity, p.UnitPrice)
	}
	return finalize(summaries)
}

// AggregateSales groups sales by customer, with unnamed customers pooled
// under the fallback key.
func AggregateSales(sales []trade.Sale) map[string]*Summary {
	summaries := make(map[string]*Summary)
	for _, s := range sales {
		sum := summaryFor(summaries, keyOr(s.Customer))
		sum.add(s.Brand, s.Size, s.Date, s.Quantity, s.UnitPrice)
	}
	return finalize(summaries)
}
