package handler

import (
	"errors"
	"strconv"
	"time"

	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorHandler renders errors that reach fiber (unknown routes, body limits, panics
// turned into errors) in the same shape as application errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message, "code": "http_error"})
	}
	return respondError(c, err)
}

func respondError(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"error": apperr.PublicMessage(err),
		"code":  apperr.KindOf(err),
	}
	var stockErr *apperr.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["details"] = fiber.Map{
			"product_id":   stockErr.ProductID,
			"product_name": stockErr.ProductName,
			"available":    stockErr.Available,
			"required":     stockErr.Required,
		}
	}
	return c.Status(apperr.Status(err)).JSON(body)
}

func invalidJSON(c *fiber.Ctx) error {
	return respondError(c, apperr.Validation("Invalid JSON"))
}

// Pager turns page/limit query parameters into a repository.Page.
type Pager struct {
	DefaultLimit int
	MaxLimit     int
}

func (p Pager) parse(c *fiber.Ctx) (repository.Page, error) {
	page, err := positiveInt(c, "page", 1)
	if err != nil {
		return repository.Page{}, err
	}
	limit, err := positiveInt(c, "limit", p.DefaultLimit)
	if err != nil {
		return repository.Page{}, err
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return repository.Page{Page: page, Limit: limit}, nil
}

func positiveInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.Validation("%s must be a positive integer", key)
	}
	return n, nil
}

func uuidParam(c *fiber.Ctx, key, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid %s ID", label)
	}
	return id, nil
}

func uuidQuery(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("%s must be a valid id", key)
	}
	return &id, nil
}

const dateOnly = "2006-01-02"

// parseDate accepts RFC 3339 or a bare date. A bare date used as an upper
// bound covers the whole UTC day.
func parseDate(raw, key string, upper bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.ParseInLocation(dateOnly, raw, time.UTC)
	if err != nil {
		return nil, apperr.Validation("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", key)
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = parseDate(c.Query("startDate"), "startDate", false); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate(c.Query("endDate"), "endDate", true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
