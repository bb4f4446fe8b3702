package repository

import (
	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Business{},
		&model.Product{},
		&model.Contact{},
		&model.Transaction{},
		&model.LineItem{},
	)
}
