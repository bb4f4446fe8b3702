package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/apperr"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LineItemInput struct {
	ProductID uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Quantity  int              `json:"quantity" validate:"min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"required,dec_gte=0"`
}

// RecordTransactionInput is a sale or purchase request. Field order is the
// order in which violations are reported.
type RecordTransactionInput struct {
	Type       model.TransactionType `json:"type" validate:"required,oneof=sale purchase"`
	LineItems  []LineItemInput       `json:"line_items" validate:"required,min=1,dive"`
	CustomerID *uuid.UUID            `json:"customer_id"`
	VendorID   *uuid.UUID            `json:"vendor_id"`
	Date       *time.Time            `json:"date"`
}

// LedgerService is the TransactionLedger.
type LedgerService interface {
	RecordTransaction(ctx context.Context, tenantID uuid.UUID, in RecordTransactionInput) (*model.TransactionView, error)
	Query(ctx context.Context, tenantID uuid.UUID, filter repository.TransactionFilter, page repository.Page) (*ListResult[model.TransactionView], error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.TransactionView, error)
}

type ledgerService struct {
	db           *gorm.DB
	products     repository.ProductRepository
	contacts     repository.ContactRepository
	transactions repository.TransactionRepository
	events       EventPublisher
	log          *zap.Logger
	now          func() time.Time
}

func NewLedgerService(
	db *gorm.DB,
	products repository.ProductRepository,
	contacts repository.ContactRepository,
	transactions repository.TransactionRepository,
	events EventPublisher,
	log *zap.Logger,
) LedgerService {
	return &ledgerService{
		db:           db,
		products:     products,
		contacts:     contacts,
		transactions: transactions,
		events:       publisherOrNop(events),
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type stockDelta struct {
	productID uuid.UUID
	delta     int
}

func (s *ledgerService) RecordTransaction(ctx context.Context, tenantID uuid.UUID, in RecordTransactionInput) (*model.TransactionView, error) {
	// 1-2. type and line items
	if msg := validator.FirstError(&in); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}
	for i, item := range in.LineItems {
		if !hasCents(*item.UnitPrice) {
			return nil, apperr.Validation("line_items[%d].unit_price must have at most 2 decimal places", i)
		}
	}

	// 3. party
	party, err := s.resolveParty(ctx, tenantID, in)
	if err != nil {
		return nil, err
	}

	// 4. products
	ids := make([]uuid.UUID, 0, len(in.LineItems))
	for _, item := range in.LineItems {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, item := range in.LineItems {
		if _, ok := products[item.ProductID]; !ok {
			return nil, apperr.Validation("Product with ID %s not found", item.ProductID)
		}
	}

	// 5. stock, summed over repeated lines of the same product
	deltas := mergeDeltas(in.Type, in.LineItems)
	if in.Type == model.TxSale {
		for _, item := range in.LineItems {
			p := products[item.ProductID]
			required := -deltas[item.ProductID]
			if p.Stock < required {
				return nil, &apperr.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.Stock,
					Required:    required,
				}
			}
		}
	}

	// 6. total
	record := &model.Transaction{
		TenantID:  tenantID,
		Type:      in.Type,
		LineItems: make([]model.LineItem, len(in.LineItems)),
		Date:      s.now(),
	}
	if in.Date != nil && !in.Date.IsZero() {
		record.Date = in.Date.UTC()
	}
	if in.Type == model.TxSale {
		record.CustomerID = &party.ID
	} else {
		record.VendorID = &party.ID
	}
	for i, item := range in.LineItems {
		record.LineItems[i] = model.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: *item.UnitPrice,
		}
	}
	record.TotalAmount = model.SumLineItems(record.LineItems)

	ordered := orderDeltas(deltas)
	err = repository.RunInTx(ctx, s.db, nil, func(tx *gorm.DB) error {
		catalog := s.products.WithTx(tx)
		for _, d := range ordered {
			if _, err := applyStockDelta(ctx, catalog, tenantID, d.productID, d.delta); err != nil {
				if apperr.Is(err, apperr.KindNotFound) {
					return apperr.Validation("Product with ID %s not found", d.productID)
				}
				return err
			}
		}
		if err := s.transactions.WithTx(tx).Create(ctx, record); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.commitFailed(tenantID, ordered, err)
	}

	l := &lookups{products: products, contacts: map[uuid.UUID]model.Contact{party.ID: *party}}
	view := l.view(record)

	s.log.Info("transaction recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transaction_id", record.ID.String()),
		zap.String("type", string(record.Type)),
		zap.Int("line_items", len(record.LineItems)),
		zap.String("total_amount", record.TotalAmount.StringFixed(2)))

	s.events.Publish(tenantID, ws.Event{
		Type:    "stock_update",
		Action:  "transaction_recorded",
		Data:    view,
		Message: fmt.Sprintf("%s of %s recorded with %s", record.Type, view.TotalAmount.StringFixed(2), party.Name),
	})
	return &view, nil
}

func (s *ledgerService) resolveParty(ctx context.Context, tenantID uuid.UUID, in RecordTransactionInput) (*model.Contact, error) {
	partyID, otherID := in.CustomerID, in.VendorID
	partyField, otherField, label := "customer_id", "vendor_id", "Customer"
	if in.Type == model.TxPurchase {
		partyID, otherID = in.VendorID, in.CustomerID
		partyField, otherField, label = "vendor_id", "customer_id", "Vendor"
	}

	if partyID == nil || *partyID == uuid.Nil {
		return nil, apperr.Validation("%s is required for %s transactions", partyField, in.Type)
	}
	if otherID != nil && *otherID != uuid.Nil {
		return nil, apperr.Validation("%s must be empty for %s transactions", otherField, in.Type)
	}

	party, err := s.contacts.FindByIDAndType(ctx, tenantID, *partyID, in.Type.PartyType())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation("%s not found", label)
		}
		return nil, apperr.Internal(err)
	}
	return party, nil
}

// commitFailed classifies an error from the atomic commit. Business errors pass
// through; a rollback that itself failed leaves stock and ledger possibly out of
// step and is logged as a consistency incident.
func (s *ledgerService) commitFailed(tenantID uuid.UUID, deltas []stockDelta, err error) error {
	if errors.Is(err, repository.ErrRollbackFailed) {
		fields := []zap.Field{zap.String("tenant_id", tenantID.String()), zap.Error(err)}
		for _, d := range deltas {
			fields = append(fields, zap.Int("delta_"+d.productID.String(), d.delta))
		}
		s.log.Error("ledger consistency incident: rollback failed, stock requires reconciliation", fields...)
		return apperr.Internal(err)
	}

	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		s.log.Error("failed to commit transaction", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperr.Internal(err)
	}
	return err
}

func (s *ledgerService) Query(ctx context.Context, tenantID uuid.UUID, filter repository.TransactionFilter, page repository.Page) (*ListResult[model.TransactionView], error) {
	if err := validateTransactionFilter(filter); err != nil {
		return nil, err
	}
	page = normalizePage(page)

	txs, total, err := s.transactions.Find(ctx, tenantID, filter, page)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views, _, err := resolver{s.products, s.contacts}.views(ctx, tenantID, txs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &ListResult[model.TransactionView]{Items: views, Pagination: newPagination(page, total)}, nil
}

func (s *ledgerService) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.TransactionView, error) {
	tx, err := s.transactions.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Transaction not found")
	}
	views, _, err := resolver{s.products, s.contacts}.views(ctx, tenantID, []model.Transaction{*tx})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &views[0], nil
}

func mergeDeltas(txType model.TransactionType, items []LineItemInput) map[uuid.UUID]int {
	deltas := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		deltas[item.ProductID] += txType.StockSign() * item.Quantity
	}
	return deltas
}

// orderDeltas fixes the update order by product id so concurrent multi-line
// transactions lock rows in the same sequence.
func orderDeltas(deltas map[uuid.UUID]int) []stockDelta {
	ordered := make([]stockDelta, 0, len(deltas))
	for id, d := range deltas {
		ordered = append(ordered, stockDelta{productID: id, delta: d})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].productID.String() < ordered[j].productID.String()
	})
	return ordered
}

func validateTransactionFilter(f repository.TransactionFilter) error {
	if f.Type != "" && !f.Type.Valid() {
		return apperr.Validation("type must be one of: sale, purchase")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return apperr.Validation("startDate must not be after endDate")
	}
	return nil
}
