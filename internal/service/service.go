package service

import (
	"errors"
	"math"

	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventPublisher receives committed changes for realtime delivery. *ws.Hub implements it.
type EventPublisher interface {
	Publish(tenantID uuid.UUID, event ws.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(uuid.UUID, ws.Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

const defaultPageLimit = 10

type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// ListResult is one page of a filtered listing.
type ListResult[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func normalizePage(p repository.Page) repository.Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageLimit
	}
	return p
}

func newPagination(p repository.Page, total int64) Pagination {
	return Pagination{
		Current: p.Page,
		Pages:   int(math.Ceil(float64(total) / float64(p.Limit))),
		Total:   total,
		Limit:   p.Limit,
	}
}

// hasCents reports whether d fits the two-decimal currency precision of the store.
func hasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// notFound maps repository.ErrNotFound to a NotFound error with msg, and anything else to Internal.
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("%s", msg)
	}
	return apperr.Internal(err)
}
