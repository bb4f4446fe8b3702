package main

import (
	"context"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo123"
)

// seedDemo registers a demo business with a small catalog and a few recorded
// transactions. It does nothing when the demo business already exists.
func seedDemo(
	ctx context.Context,
	log *zap.Logger,
	auth service.AuthService,
	catalog service.CatalogService,
	contacts service.ContactService,
	ledger service.LedgerService,
) {
	resp, err := auth.Register(ctx, service.RegisterInput{Name: "Demo Store", Email: demoEmail, Password: demoPassword})
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			log.Debug("demo business already seeded")
			return
		}
		log.Warn("failed to seed demo business", zap.Error(err))
		return
	}
	tenantID := resp.Business.ID

	products := []service.ProductInput{
		{Name: "Cordless Drill", Category: "Tools", Price: decimal.RequireFromString("89.90"), Stock: 12},
		{Name: "Hammer", Category: "Tools", Price: decimal.RequireFromString("14.50"), Stock: 40},
		{Name: "Wood Screws (100)", Category: "Fasteners", Price: decimal.RequireFromString("4.25"), Stock: 150},
		{Name: "Safety Glasses", Category: "Safety", Price: decimal.RequireFromString("7.00"), Stock: 6},
	}
	ids := make([]uuid.UUID, 0, len(products))
	for _, in := range products {
		p, err := catalog.CreateProduct(ctx, tenantID, in)
		if err != nil {
			log.Warn("failed to seed product", zap.String("name", in.Name), zap.Error(err))
			return
		}
		ids = append(ids, p.ID)
	}

	customer, err := contacts.CreateContact(ctx, tenantID, service.ContactInput{Name: "Acme Builders", Phone: "5550100", Type: model.ContactCustomer})
	if err != nil {
		log.Warn("failed to seed customer", zap.Error(err))
		return
	}
	vendor, err := contacts.CreateContact(ctx, tenantID, service.ContactInput{Name: "Hardware Supply Co", Phone: "5550199", Type: model.ContactVendor})
	if err != nil {
		log.Warn("failed to seed vendor", zap.Error(err))
		return
	}

	price := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	transactions := []service.RecordTransactionInput{
		{Type: model.TxPurchase, VendorID: &vendor.ID, LineItems: []service.LineItemInput{
			{ProductID: ids[0], Quantity: 5, UnitPrice: price("60.00")},
			{ProductID: ids[2], Quantity: 50, UnitPrice: price("2.10")},
		}},
		{Type: model.TxSale, CustomerID: &customer.ID, LineItems: []service.LineItemInput{
			{ProductID: ids[0], Quantity: 3, UnitPrice: price("89.90")},
			{ProductID: ids[1], Quantity: 4, UnitPrice: price("14.50")},
		}},
		{Type: model.TxSale, CustomerID: &customer.ID, LineItems: []service.LineItemInput{
			{ProductID: ids[3], Quantity: 2, UnitPrice: price("7.00")},
		}},
	}
	for _, in := range transactions {
		if _, err := ledger.RecordTransaction(ctx, tenantID, in); err != nil {
			log.Warn("failed to seed transaction", zap.Error(err))
			return
		}
	}

	log.Info("demo data seeded", zap.String("email", demoEmail), zap.String("tenant_id", tenantID.String()))
}
