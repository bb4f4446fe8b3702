package repository

import (
	"context"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows ledger queries. From and To are inclusive.
type TransactionFilter struct {
	Type       model.TransactionType
	From       *time.Time
	To         *time.Time
	CustomerID *uuid.UUID
	VendorID   *uuid.UUID
}

// TransactionRepository is the append-only ledger store.
type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Create(ctx context.Context, transaction *model.Transaction) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Transaction, error)
	Find(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter, page Page) ([]model.Transaction, int64, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error)
	ReferencesProduct(ctx context.Context, tenantID, productID uuid.UUID) (bool, error)
	ReferencesContact(ctx context.Context, tenantID, contactID uuid.UUID) (bool, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

// Create inserts the entry and its line items, numbering items in request order.
func (r *transactionRepo) Create(ctx context.Context, transaction *model.Transaction) error {
	for i := range transaction.LineItems {
		transaction.LineItems[i].Position = i
	}
	return translate(r.db.WithContext(ctx).Create(transaction).Error)
}

func (r *transactionRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), preloadLineItems).
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &transaction, nil
}

func (r *transactionRepo) Find(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter, page Page) ([]model.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{}).Scopes(tenantScope(tenantID), transactionFilter(filter))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []model.Transaction
	err := query.Scopes(preloadLineItems, ledgerOrder, paginate(page)).Find(&transactions).Error
	return transactions, total, err
}

func (r *transactionRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), transactionFilter(filter), preloadLineItems, ledgerOrder).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) ReferencesProduct(ctx context.Context, tenantID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LineItem{}).
		Joins("JOIN transactions ON transactions.id = line_items.transaction_id").
		Where("transactions.tenant_id = ? AND line_items.product_id = ?", tenantID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *transactionRepo) ReferencesContact(ctx context.Context, tenantID, contactID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Scopes(tenantScope(tenantID)).
		Where("customer_id = ? OR vendor_id = ?", contactID, contactID).
		Count(&count).Error
	return count > 0, err
}

// ledgerOrder is newest first; created_at and id break ties so paging is stable.
func ledgerOrder(db *gorm.DB) *gorm.DB {
	return db.Order("date DESC").Order("created_at DESC").Order("id DESC")
}

func preloadLineItems(db *gorm.DB) *gorm.DB {
	return db.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func transactionFilter(f TransactionFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Type != "" {
			db = db.Where("type = ?", f.Type)
		}
		if f.From != nil {
			db = db.Where("date >= ?", f.From.UTC())
		}
		if f.To != nil {
			db = db.Where("date <= ?", f.To.UTC())
		}
		if f.CustomerID != nil {
			db = db.Where("customer_id = ?", *f.CustomerID)
		}
		if f.VendorID != nil {
			db = db.Where("vendor_id = ?", *f.VendorID)
		}
		return db
	}
}
