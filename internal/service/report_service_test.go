package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/testutil"
	"go-inventory-ledger/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.NewProduct(t, f.db, f.tenant.ID, "Hammer", "Tools", "25.50", 4)
	testutil.NewProduct(t, f.db, f.tenant.ID, "Drill", "Tools", "120", 0)
	testutil.NewProduct(t, f.db, f.tenant.ID, "Pen", "Stationery", "1.10", 300)
	testutil.NewProduct(t, f.db, f.tenant.ID, "Pad", "Stationery", "2.35", 10)

	report, err := f.reports.InventoryReport(ctx, f.tenant.ID, InventoryFilter{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Summary.TotalProducts)
	assert.Equal(t, "455.50", report.Summary.TotalValue.StringFixed(2))
	assert.Equal(t, 3, report.Summary.LowStockItems)
	assert.Equal(t, 1, report.Summary.OutOfStockItems)

	names := make([]string, len(report.Products))
	sum := decimal.Zero
	for i, p := range report.Products {
		names[i] = p.Name
		sum = sum.Add(p.StockValue())
	}
	assert.Equal(t, []string{"Pad", "Pen", "Drill", "Hammer"}, names)
	assert.True(t, sum.Equal(report.Summary.TotalValue))

	require.Contains(t, report.CategoryBreakdown, "Tools")
	assert.Equal(t, 2, report.CategoryBreakdown["Tools"].Count)
	assert.Equal(t, 4, report.CategoryBreakdown["Tools"].TotalStock)
	assert.Equal(t, "102.00", report.CategoryBreakdown["Tools"].TotalValue.StringFixed(2))
	assert.Equal(t, "353.50", report.CategoryBreakdown["Stationery"].TotalValue.StringFixed(2))

	threshold := 10
	low, err := f.reports.InventoryReport(ctx, f.tenant.ID, InventoryFilter{Category: "tool", LowStockThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, 2, low.Summary.TotalProducts)
	assert.Equal(t, "102.00", low.Summary.TotalValue.StringFixed(2))
	assert.NotContains(t, low.CategoryBreakdown, "Stationery")

	negative := -1
	_, err = f.reports.InventoryReport(ctx, f.tenant.ID, InventoryFilter{LowStockThreshold: &negative})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	other := testutil.NewBusiness(t, f.db, "other@shop.test")
	empty, err := f.reports.InventoryReport(ctx, other.ID, InventoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, empty.Products)
	assert.True(t, empty.Summary.TotalValue.IsZero())
}

func TestTransactionsReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pen := testutil.NewProduct(t, f.db, f.tenant.ID, "Pen", "Stationery", "1", 100)
	pad := testutil.NewProduct(t, f.db, f.tenant.ID, "Pad", "Stationery", "2", 100)
	c := testutil.NewContact(t, f.db, f.tenant.ID, "Alice", "0811", model.ContactCustomer)
	v := testutil.NewContact(t, f.db, f.tenant.ID, "Vic", "0822", model.ContactVendor)

	day1 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	record := func(in RecordTransactionInput, at time.Time) {
		in.Date = &at
		_, err := f.ledger.RecordTransaction(ctx, f.tenant.ID, in)
		require.NoError(t, err)
	}
	record(sale(c.ID, pen.ID, 5, "1.50"), day1)
	record(sale(c.ID, pad.ID, 2, "2.25"), day1.Add(time.Hour))
	record(purchase(v.ID, pen.ID, 10, "0.80"), day2)
	record(sale(c.ID, pad.ID, 3, "2.25"), day2.Add(time.Hour))

	report, err := f.reports.TransactionsReport(ctx, f.tenant.ID, repository.TransactionFilter{})
	require.NoError(t, err)

	s := report.Summary
	assert.Equal(t, 4, s.TotalTransactions)
	assert.Equal(t, 3, s.TotalSales)
	assert.Equal(t, 1, s.TotalPurchases)
	assert.Equal(t, "18.75", s.TotalSalesAmount.StringFixed(2))
	assert.Equal(t, "8.00", s.TotalPurchaseAmount.StringFixed(2))
	assert.True(t, s.NetAmount.Equal(s.TotalSalesAmount.Sub(s.TotalPurchaseAmount)))

	require.Contains(t, report.DailyBreakdown, "2024-06-01")
	assert.Equal(t, 2, report.DailyBreakdown["2024-06-01"].Sales.Count)
	assert.Equal(t, "12.00", report.DailyBreakdown["2024-06-01"].Sales.Amount.StringFixed(2))
	assert.Equal(t, 1, report.DailyBreakdown["2024-06-02"].Purchases.Count)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Pen", report.TopProducts[0].Name)
	assert.Equal(t, 15, report.TopProducts[0].TotalQuantity)
	assert.Equal(t, 5, report.TopProducts[0].SalesQuantity)
	assert.Equal(t, 10, report.TopProducts[0].PurchaseQuantity)
	assert.Equal(t, 5, report.TopProducts[1].TotalQuantity)
	assert.Len(t, report.Transactions, 4)

	from := day2
	salesOnly, err := f.reports.TransactionsReport(ctx, f.tenant.ID, repository.TransactionFilter{Type: model.TxSale, From: &from})
	require.NoError(t, err)
	assert.Equal(t, 1, salesOnly.Summary.TotalTransactions)
	assert.Equal(t, "6.75", salesOnly.Summary.NetAmount.StringFixed(2))

	_, err = f.reports.TransactionsReport(ctx, f.tenant.ID, repository.TransactionFilter{Type: "refund"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestTopProductsTiesKeepFirstEncountered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := testutil.NewContact(t, f.db, f.tenant.ID, "Alice", "0811", model.ContactCustomer)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var newest string
	for i := 0; i < 12; i++ {
		p := testutil.NewProduct(t, f.db, f.tenant.ID, fmt.Sprintf("P%02d", i), "Misc", "1", 10)
		in := sale(c.ID, p.ID, 1, "1")
		at := base.AddDate(0, 0, i)
		in.Date = &at
		_, err := f.ledger.RecordTransaction(ctx, f.tenant.ID, in)
		require.NoError(t, err)
		newest = p.Name
	}

	report, err := f.reports.TransactionsReport(ctx, f.tenant.ID, repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, report.TopProducts, 10)
	assert.Equal(t, newest, report.TopProducts[0].Name, "ledger is read newest first")
	assert.Equal(t, "P02", report.TopProducts[9].Name)
}

func TestContactReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pen := testutil.NewProduct(t, f.db, f.tenant.ID, "Pen", "Stationery", "1", 100)
	c := testutil.NewContact(t, f.db, f.tenant.ID, "Alice", "0811", model.ContactCustomer)
	other := testutil.NewContact(t, f.db, f.tenant.ID, "Bob", "0812", model.ContactCustomer)
	v := testutil.NewContact(t, f.db, f.tenant.ID, "Vic", "0822", model.ContactVendor)

	for _, in := range []RecordTransactionInput{
		sale(c.ID, pen.ID, 2, "1.50"),
		sale(c.ID, pen.ID, 3, "1.50"),
		sale(other.ID, pen.ID, 1, "1.50"),
		purchase(v.ID, pen.ID, 50, "0.75"),
	} {
		_, err := f.ledger.RecordTransaction(ctx, f.tenant.ID, in)
		require.NoError(t, err)
	}

	report, err := f.reports.ContactReport(ctx, f.tenant.ID, c.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice", report.Contact.Name)
	assert.Equal(t, 2, report.Summary.TotalTransactions)
	assert.Equal(t, "7.50", report.Summary.TotalAmount.StringFixed(2))
	require.Len(t, report.ProductBreakdown, 1)
	assert.Equal(t, "Pen", report.ProductBreakdown[0].Name)
	assert.Equal(t, 5, report.ProductBreakdown[0].Quantity)

	vendorReport, err := f.reports.ContactReport(ctx, f.tenant.ID, v.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, vendorReport.Summary.TotalTransactions)
	assert.Equal(t, "37.50", vendorReport.Summary.TotalAmount.StringFixed(2))

	_, err = f.reports.ContactReport(ctx, f.tenant.ID, uuid.New(), nil, nil)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	tenant2 := testutil.NewBusiness(t, f.db, "other@shop.test")
	_, err = f.reports.ContactReport(ctx, tenant2.ID, c.ID, nil, nil)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
