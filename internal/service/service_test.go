package service

import (
	"context"
	"sync"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/testutil"
	"go-inventory-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recordingPublisher) Publish(_ uuid.UUID, e ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingPublisher) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type fixture struct {
	db           *gorm.DB
	tenant       *model.Business
	products     repository.ProductRepository
	contacts     repository.ContactRepository
	transactions repository.TransactionRepository
	events       *recordingPublisher
	ledger       LedgerService
	stock        StockService
	reports      ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:           db,
		tenant:       testutil.NewBusiness(t, db, "owner@shop.test"),
		products:     repository.NewProductRepo(db),
		contacts:     repository.NewContactRepo(db),
		transactions: repository.NewTransactionRepo(db),
		events:       &recordingPublisher{},
	}
	f.ledger = NewLedgerService(db, f.products, f.contacts, f.transactions, f.events, zap.NewNop())
	f.stock = NewStockService(f.products, f.events, zap.NewNop())
	f.reports = NewReportService(db, f.products, f.contacts, f.transactions, ReportOptions{}, zap.NewNop())
	return f
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), f.tenant.ID, id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) ledgerSize(t *testing.T) int {
	t.Helper()
	txs, err := f.transactions.FindAll(context.Background(), f.tenant.ID, repository.TransactionFilter{})
	require.NoError(t, err)
	return len(txs)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sale(customerID, productID uuid.UUID, qty int, unitPrice string) RecordTransactionInput {
	return RecordTransactionInput{
		Type:       model.TxSale,
		CustomerID: &customerID,
		LineItems:  []LineItemInput{{ProductID: productID, Quantity: qty, UnitPrice: price(unitPrice)}},
	}
}

func purchase(vendorID, productID uuid.UUID, qty int, unitPrice string) RecordTransactionInput {
	return RecordTransactionInput{
		Type:      model.TxPurchase,
		VendorID:  &vendorID,
		LineItems: []LineItemInput{{ProductID: productID, Quantity: qty, UnitPrice: price(unitPrice)}},
	}
}
