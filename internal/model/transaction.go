package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxSale     TransactionType = "sale"
	TxPurchase TransactionType = "purchase"
)

func (t TransactionType) Valid() bool {
	return t == TxSale || t == TxPurchase
}

// PartyType is the contact type a transaction of this type must reference.
func (t TransactionType) PartyType() ContactType {
	if t == TxSale {
		return ContactCustomer
	}
	return ContactVendor
}

// StockSign is -1 for sales and +1 for purchases.
func (t TransactionType) StockSign() int {
	if t == TxSale {
		return -1
	}
	return 1
}

// Transaction is an immutable ledger entry. There is no update or delete path.
type Transaction struct {
	BaseModel
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_tx_tenant_date,priority:1;index:idx_tx_tenant_type,priority:1" json:"tenant_id"`
	Type        TransactionType `gorm:"type:varchar(10);not null;index:idx_tx_tenant_type,priority:2" json:"type"`
	CustomerID  *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	VendorID    *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	LineItems   []LineItem      `gorm:"foreignKey:TransactionID;constraint:OnDelete:RESTRICT" json:"line_items"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	Date        time.Time       `gorm:"not null;index:idx_tx_tenant_date,priority:2" json:"date"`
}

// PartyID returns whichever of customer/vendor is populated.
func (t *Transaction) PartyID() uuid.UUID {
	if t.CustomerID != nil {
		return *t.CustomerID
	}
	if t.VendorID != nil {
		return *t.VendorID
	}
	return uuid.Nil
}

// LineItem is one (product, quantity, unit price) entry of a transaction.
type LineItem struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position      int             `gorm:"not null" json:"-"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
}

// Subtotal is quantity × unit price.
func (li *LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// SumLineItems returns Σ quantity × unit price, unrounded.
func SumLineItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}
	return total
}

// LineItemView is a line item with its product resolved.
type LineItemView struct {
	ProductID uuid.UUID       `json:"product_id"`
	Product   *ProductSummary `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// TransactionView is a ledger entry joined with party and product summaries for display.
type TransactionView struct {
	ID          uuid.UUID       `json:"id"`
	Type        TransactionType `json:"type"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	VendorID    *uuid.UUID      `json:"vendor_id,omitempty"`
	Customer    *PartySummary   `json:"customer,omitempty"`
	Vendor      *PartySummary   `json:"vendor,omitempty"`
	LineItems   []LineItemView  `json:"line_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
