package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/apperr"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price" validate:"dec_gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,max=50"`
}

// ProductUpdateInput has no stock: stock only moves through the StockService and the ledger.
type ProductUpdateInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price" validate:"dec_gte=0"`
	Category    string          `json:"category" validate:"required,max=50"`
}

// CatalogService manages products.
type CatalogService interface {
	CreateProduct(ctx context.Context, tenantID uuid.UUID, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, tenantID, id uuid.UUID, in ProductUpdateInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, tenantID, id uuid.UUID) error
	GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, tenantID uuid.UUID, filter repository.ProductFilter, page repository.Page) (*ListResult[model.Product], error)
}

type catalogService struct {
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	events       EventPublisher
	log          *zap.Logger
}

func NewCatalogService(products repository.ProductRepository, transactions repository.TransactionRepository, events EventPublisher, log *zap.Logger) CatalogService {
	return &catalogService{products: products, transactions: transactions, events: publisherOrNop(events), log: log}
}

func (s *catalogService) CreateProduct(ctx context.Context, tenantID uuid.UUID, in ProductInput) (*model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if msg := validator.FirstError(&in); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}
	if !hasCents(in.Price) {
		return nil, apperr.Validation("price must have at most 2 decimal places")
	}

	product := &model.Product{
		TenantID:    tenantID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
	}
	if err := s.products.Create(ctx, product); err != nil {
		s.log.Error("failed to create product", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return nil, apperr.Internal(err)
	}

	s.publish(tenantID, "product_created", product, fmt.Sprintf("Product '%s' created", product.Name))
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, tenantID, id uuid.UUID, in ProductUpdateInput) (*model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if msg := validator.FirstError(&in); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}
	if !hasCents(in.Price) {
		return nil, apperr.Validation("price must have at most 2 decimal places")
	}

	product := &model.Product{
		BaseModel:   model.BaseModel{ID: id},
		TenantID:    tenantID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, notFound(err, "Product not found")
	}

	updated, err := s.products.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	s.publish(tenantID, "product_updated", updated, fmt.Sprintf("Product '%s' updated", updated.Name))
	return updated, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, tenantID, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, tenantID, id)
	if err != nil {
		return notFound(err, "Product not found")
	}

	referenced, err := s.transactions.ReferencesProduct(ctx, tenantID, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if referenced {
		return apperr.Conflict("Cannot delete product '%s': it appears in recorded transactions", product.Name)
	}

	if err := s.products.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Product not found")
		}
		return apperr.Internal(err)
	}
	s.publish(tenantID, "product_deleted", product, fmt.Sprintf("Product '%s' deleted", product.Name))
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, tenantID uuid.UUID, filter repository.ProductFilter, page repository.Page) (*ListResult[model.Product], error) {
	page = normalizePage(page)
	products, total, err := s.products.List(ctx, tenantID, filter, page)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return &ListResult[model.Product]{Items: products, Pagination: newPagination(page, total)}, nil
}

func (s *catalogService) publish(tenantID uuid.UUID, action string, p *model.Product, msg string) {
	s.events.Publish(tenantID, ws.Event{
		Type:    "stock_update",
		Action:  action,
		Data:    stockPayload(p, 0),
		Message: msg,
	})
}
