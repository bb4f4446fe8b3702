package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/apperr"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StockIncrease = "increase"
	StockDecrease = "decrease"
)

type StockAdjustInput struct {
	Quantity  int    `json:"quantity" validate:"min=1"`
	Operation string `json:"operation" validate:"required,oneof=increase decrease"`
}

// StockService is the StockReconciler: the only path that changes Product.stock.
type StockService interface {
	Adjust(ctx context.Context, tenantID, productID uuid.UUID, delta int) (*model.Product, error)
	AdjustByOperation(ctx context.Context, tenantID, productID uuid.UUID, in StockAdjustInput) (*model.Product, error)
}

type stockService struct {
	products repository.ProductRepository
	events   EventPublisher
	log      *zap.Logger
}

func NewStockService(products repository.ProductRepository, events EventPublisher, log *zap.Logger) StockService {
	return &stockService{products: products, events: publisherOrNop(events), log: log}
}

func (s *stockService) AdjustByOperation(ctx context.Context, tenantID, productID uuid.UUID, in StockAdjustInput) (*model.Product, error) {
	if msg := validator.FirstError(&in); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}
	delta := in.Quantity
	if in.Operation == StockDecrease {
		delta = -delta
	}
	return s.Adjust(ctx, tenantID, productID, delta)
}

func (s *stockService) Adjust(ctx context.Context, tenantID, productID uuid.UUID, delta int) (*model.Product, error) {
	product, err := applyStockDelta(ctx, s.products, tenantID, productID, delta)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			s.log.Error("stock adjust failed",
				zap.String("tenant_id", tenantID.String()),
				zap.String("product_id", productID.String()),
				zap.Int("delta", delta),
				zap.Error(err))
		}
		return nil, err
	}

	s.events.Publish(tenantID, ws.Event{
		Type:    "stock_update",
		Action:  "stock_adjusted",
		Data:    stockPayload(product, delta),
		Message: fmt.Sprintf("Stock of '%s' is now %d", product.Name, product.Stock),
	})
	return product, nil
}

// applyStockDelta runs one conditional stock update against products, which may be
// bound to an open transaction, and translates the outcome into application errors.
func applyStockDelta(ctx context.Context, products repository.ProductRepository, tenantID, productID uuid.UUID, delta int) (*model.Product, error) {
	product, err := products.AdjustStock(ctx, tenantID, productID, delta)
	if err == nil {
		return product, nil
	}

	var shortfall *repository.StockShortfall
	switch {
	case errors.As(err, &shortfall):
		return nil, &apperr.InsufficientStockError{
			ProductID:   shortfall.Product.ID,
			ProductName: shortfall.Product.Name,
			Available:   shortfall.Product.Stock,
			Required:    shortfall.Requested,
		}
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperr.NotFound("Product not found")
	default:
		return nil, apperr.Internal(err)
	}
}

func stockPayload(p *model.Product, delta int) map[string]interface{} {
	return map[string]interface{}{
		"id":       p.ID,
		"name":     p.Name,
		"category": p.Category,
		"stock":    p.Stock,
		"delta":    delta,
	}
}
