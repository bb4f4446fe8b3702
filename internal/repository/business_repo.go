package repository

import (
	"context"
	"strings"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *model.Business) error
	FindByEmail(ctx context.Context, email string) (*model.Business, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

type businessRepo struct {
	db *gorm.DB
}

func NewBusinessRepo(db *gorm.DB) BusinessRepository {
	return &businessRepo{db}
}

func (r *businessRepo) Create(ctx context.Context, business *model.Business) error {
	business.Email = normalizeEmail(business.Email)
	return translate(r.db.WithContext(ctx).Create(business).Error)
}

func (r *businessRepo) FindByEmail(ctx context.Context, email string) (*model.Business, error) {
	var business model.Business
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&business).Error; err != nil {
		return nil, translate(err)
	}
	return &business, nil
}

func (r *businessRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &business, nil
}

func (r *businessRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	result := r.db.WithContext(ctx).Model(&model.Business{}).Where("id = ?", id).
		Updates(map[string]interface{}{"password": hash, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
