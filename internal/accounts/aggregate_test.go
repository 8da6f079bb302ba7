package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyreledger/tyreledger/internal/trade"
)

func TestAggregatePurchases(t *testing.T) {
	purchases := []trade.Purchase{
		{Company: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 5, Date: "2024-03-01"},
	}

	summaries := AggregatePurchases(purchases)
	require.Len(t, summaries, 1)

	acme := summaries["Acme"]
	require.NotNil(t, acme)
	require.Equal(t, 5, acme.TotalItems)
	require.Equal(t, float64(500), acme.TotalCost)

	brand := acme.Brands["X"]
	require.NotNil(t, brand)
	require.Equal(t, 5, brand.TotalItems)
	require.Equal(t, float64(500), brand.TotalCost)
	require.Equal(t, []string{"10"}, brand.Sizes)
	require.Equal(t, []string{"2024-03-01"}, brand.Dates)
}

func TestAggregateGroupsByBrandAndDedupesSets(t *testing.T) {
	purchases := []trade.Purchase{
		{Company: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 2, Date: "2024-03-01"},
		{Company: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 3, Date: "2024-03-01"},
		{Company: "Acme", Brand: "Y", Size: "12", UnitPrice: 50, Quantity: 1, Date: "2024-03-02"},
		{Company: "Bolt", Brand: "X", Size: "10", UnitPrice: 80, Quantity: 4, Date: "2024-03-03"},
	}

	summaries := AggregatePurchases(purchases)
	require.Len(t, summaries, 2)

	acme := summaries["Acme"]
	require.Equal(t, 6, acme.TotalItems)
	require.Equal(t, float64(550), acme.TotalCost)
	require.Len(t, acme.Brands, 2)
	require.Equal(t, []string{"10"}, acme.Brands["X"].Sizes)
	require.Equal(t, []string{"2024-03-01"}, acme.Brands["X"].Dates)
}

func TestAggregateSalesFallbackKey(t *testing.T) {
	sales := []trade.Sale{
		{Customer: "", Brand: "X", Size: "10", UnitPrice: 40, Quantity: 1, Date: "2024-03-01"},
		{Customer: "Basit", Brand: "X", Size: "10", UnitPrice: 40, Quantity: 2, Date: "2024-03-01"},
	}

	summaries := AggregateSales(sales)
	require.Len(t, summaries, 2)
	require.Contains(t, summaries, FallbackKey)
	require.Equal(t, 1, summaries[FallbackKey].TotalItems)
}

func TestAggregateIdempotent(t *testing.T) {
	purchases := []trade.Purchase{
		{Company: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 5, Date: "2024-03-01"},
		{Company: "Acme", Brand: "Y", Size: "12", UnitPrice: 55.5, Quantity: 3, Date: "2024-03-02"},
		{Company: "Bolt", Brand: "X", Size: "14", UnitPrice: 80, Quantity: 4, Date: "2024-03-03"},
	}

	first := AggregatePurchases(purchases)
	second := AggregatePurchases(purchases)
	require.Equal(t, first, second)
}

func TestAggregateEmptyInputYieldsNoRows(t *testing.T) {
	require.Empty(t, AggregatePurchases(nil))
	require.Empty(t, AggregateSales(nil))
}
