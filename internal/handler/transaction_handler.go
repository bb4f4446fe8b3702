package handler

import (
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	ledger service.LedgerService
	pager  Pager
}

func NewTransactionHandler(ledger service.LedgerService, pager Pager) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, pager: pager}
}

// CreateTransaction records a sale or purchase
// POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.RecordTransactionInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	view, err := h.ledger.RecordTransaction(c.UserContext(), middleware.TenantID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transaction recorded", "data": view})
}

// GetTransactions lists the ledger, newest first
// Query params: type, startDate, endDate, customerId, vendorId, page, limit
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	filter, err := transactionFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.pager.parse(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.ledger.Query(c.UserContext(), middleware.TenantID(c), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "transaction")
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.ledger.Get(c.UserContext(), middleware.TenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func transactionFilter(c *fiber.Ctx) (repository.TransactionFilter, error) {
	var (
		f   repository.TransactionFilter
		err error
	)
	f.Type = model.TransactionType(c.Query("type"))
	if f.From, f.To, err = dateRange(c); err != nil {
		return f, err
	}
	if f.CustomerID, err = uuidQuery(c, "customerId"); err != nil {
		return f, err
	}
	if f.VendorID, err = uuidQuery(c, "vendorId"); err != nil {
		return f, err
	}
	return f, nil
}
