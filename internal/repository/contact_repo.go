package repository

import (
	"context"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactFilter struct {
	Search string // name, phone or email
	Type   model.ContactType
}

// ContactRepository is the Directory: customers and vendors per tenant.
type ContactRepository interface {
	WithTx(tx *gorm.DB) ContactRepository
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Contact, error)
	FindByIDAndType(ctx context.Context, tenantID, id uuid.UUID, contactType model.ContactType) (*model.Contact, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]model.Contact, error)
	PhoneTaken(ctx context.Context, tenantID uuid.UUID, phone string, exceptID uuid.UUID) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ContactFilter, page Page) ([]model.Contact, int64, error)
}

type contactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) ContactRepository {
	return &contactRepo{db}
}

func (r *contactRepo) WithTx(tx *gorm.DB) ContactRepository {
	return &contactRepo{tx}
}

func (r *contactRepo) Create(ctx context.Context, contact *model.Contact) error {
	return translate(r.db.WithContext(ctx).Create(contact).Error)
}

func (r *contactRepo) Update(ctx context.Context, contact *model.Contact) error {
	result := r.db.WithContext(ctx).Model(&model.Contact{}).
		Scopes(tenantScope(contact.TenantID)).
		Where("id = ?", contact.ID).
		Updates(map[string]interface{}{
			"name":       contact.Name,
			"phone":      contact.Phone,
			"email":      contact.Email,
			"address":    contact.Address,
			"type":       contact.Type,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *contactRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Delete(&model.Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *contactRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).First(&contact, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

func (r *contactRepo) FindByIDAndType(ctx context.Context, tenantID, id uuid.UUID, contactType model.ContactType) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).
		Where("id = ? AND type = ?", id, contactType).
		First(&contact).Error
	if err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

func (r *contactRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]model.Contact, error) {
	found := make(map[uuid.UUID]model.Contact, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var contacts []model.Contact
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id IN ?", ids).Find(&contacts).Error; err != nil {
		return nil, err
	}
	for _, c := range contacts {
		found[c.ID] = c
	}
	return found, nil
}

// PhoneTaken reports whether another contact of the tenant already uses phone.
func (r *contactRepo) PhoneTaken(ctx context.Context, tenantID uuid.UUID, phone string, exceptID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Contact{}).Scopes(tenantScope(tenantID)).Where("phone = ?", phone)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *contactRepo) List(ctx context.Context, tenantID uuid.UUID, filter ContactFilter, page Page) ([]model.Contact, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Contact{}).Scopes(tenantScope(tenantID))
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []model.Contact
	err := query.Scopes(paginate(page)).Order("created_at DESC").Order("id").Find(&contacts).Error
	return contacts, total, err
}
