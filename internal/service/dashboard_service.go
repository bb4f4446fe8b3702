package service

import (
	"context"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/apperr"

	"github.com/google/uuid"
)

const maxMovementDays = 366

type DashboardService interface {
	GetStockMovement(ctx context.Context, tenantID uuid.UUID, days int) ([]model.StockMovementData, error)
	GetDashboardStats(ctx context.Context, tenantID uuid.UUID) (*model.DashboardStats, error)
}

type dashboardService struct {
	products          repository.ProductRepository
	transactions      repository.TransactionRepository
	lowStockThreshold int
	now               func() time.Time
}

func NewDashboardService(products repository.ProductRepository, transactions repository.TransactionRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{
		products:          products,
		transactions:      transactions,
		lowStockThreshold: lowStockThreshold,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// GetStockMovement returns one entry per day, oldest first, ending today.
// Inbound is purchased quantity and outbound is sold quantity.
func (s *dashboardService) GetStockMovement(ctx context.Context, tenantID uuid.UUID, days int) ([]model.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	if days > maxMovementDays {
		days = maxMovementDays
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(days - 1))

	txs, err := s.transactions.FindAll(ctx, tenantID, repository.TransactionFilter{From: &from})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	data := make([]model.StockMovementData, days)
	index := make(map[string]int, days)
	for i := range data {
		day := from.AddDate(0, 0, i).Format(dayLayout)
		data[i].Date = day
		index[day] = i
	}
	for _, tx := range txs {
		i, ok := index[tx.Date.UTC().Format(dayLayout)]
		if !ok {
			continue
		}
		for _, li := range tx.LineItems {
			if tx.Type == model.TxPurchase {
				data[i].Inbound += li.Quantity
			} else {
				data[i].Outbound += li.Quantity
			}
		}
	}
	return data, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, tenantID uuid.UUID) (*model.DashboardStats, error) {
	stats, err := s.products.Stats(ctx, tenantID, s.lowStockThreshold)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return stats, nil
}
