package service

import (
	"context"
	"sort"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/apperr"
	"go-inventory-ledger/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dayLayout = "2006-01-02"

// InventoryFilter narrows the inventory report. A non-nil LowStockThreshold
// keeps only products with stock at or below it.
type InventoryFilter struct {
	Category          string
	LowStockThreshold *int
}

type ReportOptions struct {
	LowStockThreshold int
	TopProducts       int
}

// ReportService is the ReportingEngine. Every report reads one consistent
// snapshot and never writes.
type ReportService interface {
	InventoryReport(ctx context.Context, tenantID uuid.UUID, filter InventoryFilter) (*model.InventoryReport, error)
	TransactionsReport(ctx context.Context, tenantID uuid.UUID, filter repository.TransactionFilter) (*model.TransactionsReport, error)
	ContactReport(ctx context.Context, tenantID, contactID uuid.UUID, from, to *time.Time) (*model.ContactReport, error)
}

type reportService struct {
	db           *gorm.DB
	products     repository.ProductRepository
	contacts     repository.ContactRepository
	transactions repository.TransactionRepository
	opts         ReportOptions
	log          *zap.Logger
}

func NewReportService(
	db *gorm.DB,
	products repository.ProductRepository,
	contacts repository.ContactRepository,
	transactions repository.TransactionRepository,
	opts ReportOptions,
	log *zap.Logger,
) ReportService {
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = 10
	}
	if opts.TopProducts <= 0 {
		opts.TopProducts = 10
	}
	return &reportService{
		db:           db,
		products:     products,
		contacts:     contacts,
		transactions: transactions,
		opts:         opts,
		log:          log,
	}
}

// snapshot runs fn against repositories bound to one read-only transaction.
func (s *reportService) snapshot(ctx context.Context, name string, tenantID uuid.UUID, fn func(products repository.ProductRepository, contacts repository.ContactRepository, transactions repository.TransactionRepository) error) error {
	err := repository.RunInTx(ctx, s.db, database.SnapshotOptions(s.db), func(tx *gorm.DB) error {
		return fn(s.products.WithTx(tx), s.contacts.WithTx(tx), s.transactions.WithTx(tx))
	})
	if err != nil && apperr.KindOf(err) == apperr.KindInternal {
		s.log.Error("report failed", zap.String("report", name), zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return apperr.Internal(err)
	}
	return err
}

func (s *reportService) InventoryReport(ctx context.Context, tenantID uuid.UUID, filter InventoryFilter) (*model.InventoryReport, error) {
	if filter.LowStockThreshold != nil && *filter.LowStockThreshold < 0 {
		return nil, apperr.Validation("lowStockThreshold cannot be less than 0")
	}

	var list []model.Product
	err := s.snapshot(ctx, "inventory", tenantID, func(products repository.ProductRepository, _ repository.ContactRepository, _ repository.TransactionRepository) error {
		var err error
		list, err = products.ListForReport(ctx, tenantID, repository.ProductFilter{
			Category: filter.Category,
			MaxStock: filter.LowStockThreshold,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return buildInventoryReport(list, s.opts.LowStockThreshold), nil
}

func buildInventoryReport(products []model.Product, lowStockThreshold int) *model.InventoryReport {
	report := &model.InventoryReport{
		CategoryBreakdown: make(map[string]*model.CategoryStats),
		Products:          products,
	}
	if report.Products == nil {
		report.Products = []model.Product{}
	}

	total := decimal.Zero
	for i := range products {
		p := &products[i]
		value := p.StockValue()
		total = total.Add(value)
		if p.Stock <= lowStockThreshold {
			report.Summary.LowStockItems++
		}
		if p.Stock == 0 {
			report.Summary.OutOfStockItems++
		}

		stats, ok := report.CategoryBreakdown[p.Category]
		if !ok {
			stats = &model.CategoryStats{TotalValue: decimal.Zero}
			report.CategoryBreakdown[p.Category] = stats
		}
		stats.Count++
		stats.TotalStock += p.Stock
		stats.TotalValue = stats.TotalValue.Add(value)
	}
	for _, stats := range report.CategoryBreakdown {
		stats.TotalValue = model.Round2(stats.TotalValue)
	}

	report.Summary.TotalProducts = len(products)
	report.Summary.TotalValue = model.Round2(total)
	return report
}

func (s *reportService) TransactionsReport(ctx context.Context, tenantID uuid.UUID, filter repository.TransactionFilter) (*model.TransactionsReport, error) {
	if err := validateTransactionFilter(filter); err != nil {
		return nil, err
	}

	var (
		views []model.TransactionView
		txs   []model.Transaction
		l     *lookups
	)
	err := s.snapshot(ctx, "transactions", tenantID, func(products repository.ProductRepository, contacts repository.ContactRepository, transactions repository.TransactionRepository) error {
		var err error
		if txs, err = transactions.FindAll(ctx, tenantID, filter); err != nil {
			return err
		}
		views, l, err = resolver{products, contacts}.views(ctx, tenantID, txs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return buildTransactionsReport(txs, views, l, s.opts.TopProducts), nil
}

func buildTransactionsReport(txs []model.Transaction, views []model.TransactionView, l *lookups, topN int) *model.TransactionsReport {
	report := &model.TransactionsReport{
		DailyBreakdown: make(map[string]*model.DailyStats),
		TopProducts:    []model.ProductMovement{},
		Transactions:   views,
	}
	if report.Transactions == nil {
		report.Transactions = []model.TransactionView{}
	}

	sales, purchases := decimal.Zero, decimal.Zero
	movements := make(map[uuid.UUID]*model.ProductMovement)
	var order []uuid.UUID

	for i := range txs {
		tx := &txs[i]
		day := tx.Date.UTC().Format(dayLayout)
		daily, ok := report.DailyBreakdown[day]
		if !ok {
			daily = &model.DailyStats{
				Sales:     model.CountAmount{Amount: decimal.Zero},
				Purchases: model.CountAmount{Amount: decimal.Zero},
			}
			report.DailyBreakdown[day] = daily
		}

		if tx.Type == model.TxSale {
			report.Summary.TotalSales++
			sales = sales.Add(tx.TotalAmount)
			daily.Sales.Count++
			daily.Sales.Amount = daily.Sales.Amount.Add(tx.TotalAmount)
		} else {
			report.Summary.TotalPurchases++
			purchases = purchases.Add(tx.TotalAmount)
			daily.Purchases.Count++
			daily.Purchases.Amount = daily.Purchases.Amount.Add(tx.TotalAmount)
		}

		for j := range tx.LineItems {
			li := &tx.LineItems[j]
			m, ok := movements[li.ProductID]
			if !ok {
				m = &model.ProductMovement{ProductID: li.ProductID, TotalValue: decimal.Zero}
				if p, found := l.products[li.ProductID]; found {
					m.Name = p.Name
					m.Category = p.Category
				}
				movements[li.ProductID] = m
				order = append(order, li.ProductID)
			}
			m.TotalQuantity += li.Quantity
			m.TotalValue = m.TotalValue.Add(li.Subtotal())
			if tx.Type == model.TxSale {
				m.SalesQuantity += li.Quantity
			} else {
				m.PurchaseQuantity += li.Quantity
			}
		}
	}

	for _, daily := range report.DailyBreakdown {
		daily.Sales.Amount = model.Round2(daily.Sales.Amount)
		daily.Purchases.Amount = model.Round2(daily.Purchases.Amount)
	}

	report.Summary.TotalTransactions = len(txs)
	report.Summary.TotalSalesAmount = model.Round2(sales)
	report.Summary.TotalPurchaseAmount = model.Round2(purchases)
	report.Summary.NetAmount = report.Summary.TotalSalesAmount.Sub(report.Summary.TotalPurchaseAmount)

	ranked := make([]model.ProductMovement, 0, len(order))
	for _, id := range order {
		m := movements[id]
		m.TotalValue = model.Round2(m.TotalValue)
		ranked = append(ranked, *m)
	}
	// stable: equal quantities keep first-encountered order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalQuantity > ranked[j].TotalQuantity
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	report.TopProducts = ranked
	return report
}

func (s *reportService) ContactReport(ctx context.Context, tenantID, contactID uuid.UUID, from, to *time.Time) (*model.ContactReport, error) {
	filter := repository.TransactionFilter{From: from, To: to}
	if err := validateTransactionFilter(filter); err != nil {
		return nil, err
	}

	var (
		contact *model.Contact
		txs     []model.Transaction
		views   []model.TransactionView
		l       *lookups
	)
	err := s.snapshot(ctx, "contact", tenantID, func(products repository.ProductRepository, contacts repository.ContactRepository, transactions repository.TransactionRepository) error {
		var err error
		if contact, err = contacts.FindByID(ctx, tenantID, contactID); err != nil {
			return notFound(err, "Contact not found")
		}

		if contact.Type == model.ContactCustomer {
			filter.Type = model.TxSale
			filter.CustomerID = &contact.ID
		} else {
			filter.Type = model.TxPurchase
			filter.VendorID = &contact.ID
		}
		if txs, err = transactions.FindAll(ctx, tenantID, filter); err != nil {
			return err
		}
		views, l, err = resolver{products, contacts}.views(ctx, tenantID, txs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return buildContactReport(*contact, txs, views, l), nil
}

func buildContactReport(contact model.Contact, txs []model.Transaction, views []model.TransactionView, l *lookups) *model.ContactReport {
	report := &model.ContactReport{
		Contact:          contact,
		ProductBreakdown: []model.ContactProductStats{},
		Transactions:     views,
	}
	if report.Transactions == nil {
		report.Transactions = []model.TransactionView{}
	}

	total := decimal.Zero
	stats := make(map[uuid.UUID]*model.ContactProductStats)
	var order []uuid.UUID
	for i := range txs {
		total = total.Add(txs[i].TotalAmount)
		for j := range txs[i].LineItems {
			li := &txs[i].LineItems[j]
			st, ok := stats[li.ProductID]
			if !ok {
				st = &model.ContactProductStats{ProductID: li.ProductID, Amount: decimal.Zero}
				if p, found := l.products[li.ProductID]; found {
					st.Name = p.Name
				}
				stats[li.ProductID] = st
				order = append(order, li.ProductID)
			}
			st.Quantity += li.Quantity
			st.Amount = st.Amount.Add(li.Subtotal())
		}
	}
	for _, id := range order {
		st := stats[id]
		st.Amount = model.Round2(st.Amount)
		report.ProductBreakdown = append(report.ProductBreakdown, *st)
	}

	report.Summary.TotalTransactions = len(txs)
	report.Summary.TotalAmount = model.Round2(total)
	return report
}
