package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_product_tenant_category,priority:1;index:idx_product_tenant_name,priority:1" json:"tenant_id"`
	Name        string          `gorm:"type:varchar(100);not null;index:idx_product_tenant_name,priority:2" json:"name"`
	Description string          `gorm:"type:varchar(500)" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price"`
	Stock       int             `gorm:"not null;default:0;check:chk_product_stock_non_negative,stock >= 0" json:"stock"`
	Category    string          `gorm:"type:varchar(50);not null;index:idx_product_tenant_category,priority:2" json:"category"`
}

// StockValue is price × stock.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// ProductSummary is the slice of a product shown next to ledger entries.
type ProductSummary struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price}
}
