package model

import "github.com/google/uuid"

type ContactType string

const (
	ContactCustomer ContactType = "customer"
	ContactVendor   ContactType = "vendor"
)

func (t ContactType) Valid() bool {
	return t == ContactCustomer || t == ContactVendor
}

// Contact is a customer or vendor of a business. Phone is unique per tenant.
type Contact struct {
	BaseModel
	TenantID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_contact_tenant_phone,priority:1;index:idx_contact_tenant_type,priority:1" json:"tenant_id"`
	Name     string      `gorm:"type:varchar(100);not null" json:"name"`
	Phone    string      `gorm:"type:varchar(15);not null;uniqueIndex:idx_contact_tenant_phone,priority:2" json:"phone"`
	Email    string      `gorm:"type:varchar(100)" json:"email"`
	Address  string      `gorm:"type:varchar(200)" json:"address"`
	Type     ContactType `gorm:"type:varchar(10);not null;index:idx_contact_tenant_type,priority:2" json:"type"`
}

// PartySummary is the slice of a contact shown next to ledger entries.
type PartySummary struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	Phone   string      `json:"phone"`
	Email   string      `json:"email,omitempty"`
	Address string      `json:"address,omitempty"`
	Type    ContactType `json:"type"`
}

func (c *Contact) Summary() *PartySummary {
	return &PartySummary{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Type:    c.Type,
	}
}
