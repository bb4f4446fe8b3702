package repository

import (
	"context"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search   string // name or description, case-insensitive substring
	Category string // case-insensitive substring
	MaxStock *int   // stock <= MaxStock
}

// ProductRepository is the Catalog: products keyed by id + tenant.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]model.Product, error)
	ExistsInTenant(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ProductFilter, page Page) ([]model.Product, int64, error)
	ListForReport(ctx context.Context, tenantID uuid.UUID, filter ProductFilter) ([]model.Product, error)
	AdjustStock(ctx context.Context, tenantID, id uuid.UUID, delta int) (*model.Product, error)
	Stats(ctx context.Context, tenantID uuid.UUID, lowStockThreshold int) (*model.DashboardStats, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

// Update writes the descriptive fields. Stock is owned by AdjustStock.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(tenantScope(product.TenantID)).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"category":    product.Category,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Delete(&model.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	found := make(map[uuid.UUID]model.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r *productRepo) ExistsInTenant(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(tenantScope(tenantID)).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID, filter ProductFilter, page Page) ([]model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(tenantScope(tenantID), productFilter(filter))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	err := query.Scopes(paginate(page)).Order("created_at DESC").Order("id").Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListForReport(ctx context.Context, tenantID uuid.UUID, filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), productFilter(filter)).
		Order("category ASC").Order("name ASC").Order("id ASC").
		Find(&products).Error
	return products, err
}

// AdjustStock applies delta as one conditional UPDATE so concurrent callers
// can never drive stock below zero. No row matched means either the product
// is absent or the decrement does not fit; a follow-up read tells which.
func (r *productRepo) AdjustStock(ctx context.Context, tenantID, id uuid.UUID, delta int) (*model.Product, error) {
	db := r.db.WithContext(ctx)

	result := db.Model(&model.Product{}).
		Scopes(tenantScope(tenantID)).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	var product model.Product
	if err := db.Scopes(tenantScope(tenantID)).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if result.RowsAffected == 0 {
		return nil, &StockShortfall{Product: product, Requested: -delta}
	}
	return &product, nil
}

func (r *productRepo) Stats(ctx context.Context, tenantID uuid.UUID, lowStockThreshold int) (*model.DashboardStats, error) {
	var row struct {
		Total      int64
		LowStock   int64
		OutOfStock int64
	}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(tenantScope(tenantID)).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN stock <= ? THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(CASE WHEN stock = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock`, lowStockThreshold).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	// valuation is summed in Go to keep exact decimals on every driver
	var products []model.Product
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Select("price", "stock").Find(&products).Error; err != nil {
		return nil, err
	}
	valuation := decimal.Zero
	for i := range products {
		valuation = valuation.Add(products[i].StockValue())
	}

	return &model.DashboardStats{
		TotalProducts:   int(row.Total),
		LowStockCount:   int(row.LowStock),
		OutOfStockCount: int(row.OutOfStock),
		TotalValuation:  model.Round2(valuation),
	}, nil
}

func productFilter(f ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			pattern := likePattern(f.Search)
			db = db.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		if f.Category != "" {
			db = db.Where(`LOWER(category) LIKE ? ESCAPE '\'`, likePattern(f.Category))
		}
		if f.MaxStock != nil {
			db = db.Where("stock <= ?", *f.MaxStock)
		}
		return db
	}
}
