// Package testutil opens throwaway stores and seeds fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated sqlite store in the test's temp dir.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", filepath.Join(t.TempDir(), "ledger.db"))
	db, err := database.Open(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      dsn,
		LogLevel: gormlogger.Silent,
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func NewBusiness(t testing.TB, db *gorm.DB, email string) *model.Business {
	t.Helper()
	b := &model.Business{Name: "Business " + email, Email: email}
	require.NoError(t, b.SetPassword("secret123"))
	require.NoError(t, repository.NewBusinessRepo(db).Create(context.Background(), b))
	return b
}

func NewProduct(t testing.TB, db *gorm.DB, tenantID uuid.UUID, name, category string, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		TenantID: tenantID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: category,
	}
	require.NoError(t, repository.NewProductRepo(db).Create(context.Background(), p))
	return p
}

func NewContact(t testing.TB, db *gorm.DB, tenantID uuid.UUID, name, phone string, contactType model.ContactType) *model.Contact {
	t.Helper()
	c := &model.Contact{TenantID: tenantID, Name: name, Phone: phone, Type: contactType}
	require.NoError(t, repository.NewContactRepo(db).Create(context.Background(), c))
	return c
}
