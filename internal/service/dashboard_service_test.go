package service

import (
	"context"
	"testing"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.NewProduct(t, f.db, f.tenant.ID, "Pen", "Stationery", "1", 100)
	c := testutil.NewContact(t, f.db, f.tenant.ID, "Alice", "0811", model.ContactCustomer)
	v := testutil.NewContact(t, f.db, f.tenant.ID, "Vic", "0822", model.ContactVendor)

	now := time.Date(2024, 7, 10, 15, 0, 0, 0, time.UTC)
	record := func(in RecordTransactionInput, at time.Time) {
		in.Date = &at
		_, err := f.ledger.RecordTransaction(ctx, f.tenant.ID, in)
		require.NoError(t, err)
	}
	record(sale(c.ID, p.ID, 4, "1"), now.Add(-time.Hour))
	record(purchase(v.ID, p.ID, 9, "1"), now.AddDate(0, 0, -2))
	record(sale(c.ID, p.ID, 1, "1"), now.AddDate(0, 0, -30))

	dashboard := NewDashboardService(f.products, f.transactions, 10).(*dashboardService)
	dashboard.now = func() time.Time { return now }

	data, err := dashboard.GetStockMovement(ctx, f.tenant.ID, 7)
	require.NoError(t, err)
	require.Len(t, data, 7)
	assert.Equal(t, "2024-07-04", data[0].Date)
	assert.Equal(t, model.StockMovementData{Date: "2024-07-08", Inbound: 9}, data[4])
	assert.Equal(t, model.StockMovementData{Date: "2024-07-10", Outbound: 4}, data[6])

	stats, err := dashboard.GetDashboardStats(ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, "104.00", stats.TotalValuation.StringFixed(2))
}
