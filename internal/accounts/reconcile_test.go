package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyreledger/tyreledger/internal/ledger"
	"github.com/tyreledger/tyreledger/internal/trade"
)

func summariesFixture() map[string]*Summary {
	return AggregatePurchases([]trade.Purchase{
		{Company: "Acme", Brand: "X", Size: "10", UnitPrice: 100, Quantity: 5, Date: "2024-03-01"},
	})
}

func TestReconcileComputesDue(t *testing.T) {
	details := []Detail{
		{AccountType: ledger.AccountCompany, Key: "Acme", TotalPaid: 300, DiscountAmount: 50},
	}

	out := Reconcile(summariesFixture(), details)
	require.Len(t, out, 1)
	require.Equal(t, "Acme", out[0].Key)
	require.Equal(t, float64(150), out[0].Due)
}

func TestReconcileClampsNegativeDue(t *testing.T) {
	details := []Detail{
		{AccountType: ledger.AccountCompany, Key: "Acme", TotalPaid: 600},
	}

	out := Reconcile(summariesFixture(), details)
	require.Len(t, out, 1)
	require.Zero(t, out[0].Due)
}

func TestReconcileMissingDetailDefaultsToZeroPaid(t *testing.T) {
	out := Reconcile(summariesFixture(), nil)
	require.Len(t, out, 1)
	require.Zero(t, out[0].TotalPaid)
	require.Equal(t, float64(500), out[0].Due)
}

func TestReconcileIgnoresBrandDetailsAtAccountLevel(t *testing.T) {
	details := []Detail{
		{AccountType: ledger.AccountCompany, Key: "Acme", Brand: "X", TotalPaid: 400},
	}

	out := Reconcile(summariesFixture(), details)
	require.Len(t, out, 1)
	require.Zero(t, out[0].TotalPaid)
}

func TestReconcileDueNeverNegative(t *testing.T) {
	cases := []struct {
		name     string
		paid     float64
		discount float64
	}{
		{"exact", 500, 0},
		{"overpaid", 700, 0},
		{"discount overshoot", 300, 400},
		{"both overshoot", 600, 600},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Reconcile(summariesFixture(), []Detail{{Key: "Acme", TotalPaid: tc.paid, DiscountAmount: tc.discount}})
			require.GreaterOrEqual(t, out[0].Due, float64(0))
		})
	}
}

func TestReconcileBrandsHasNoDiscountTerm(t *testing.T) {
	sum := summariesFixture()["Acme"]
	details := []Detail{
		{Key: "Acme", Brand: "X", TotalPaid: 200, DiscountAmount: 100},
	}

	out := ReconcileBrands(sum, details)
	require.Len(t, out, 1)
	require.Equal(t, "X", out[0].Brand)
	// discount is ignored at brand level
	require.Equal(t, float64(300), out[0].Due)
}
