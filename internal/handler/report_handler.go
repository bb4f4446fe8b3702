package handler

import (
	"strconv"

	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports           service.ReportService
	lowStockThreshold int
}

func NewReportHandler(reports service.ReportService, lowStockThreshold int) *ReportHandler {
	return &ReportHandler{reports: reports, lowStockThreshold: lowStockThreshold}
}

// GetInventoryReport
// Query params: category, lowStock=true, lowStockThreshold
func (h *ReportHandler) GetInventoryReport(c *fiber.Ctx) error {
	filter := service.InventoryFilter{Category: c.Query("category")}
	if raw := c.Query("lowStockThreshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return respondError(c, apperr.Validation("lowStockThreshold must be an integer"))
		}
		filter.LowStockThreshold = &n
	} else if c.QueryBool("lowStock") {
		threshold := h.lowStockThreshold
		filter.LowStockThreshold = &threshold
	}

	report, err := h.reports.InventoryReport(c.UserContext(), middleware.TenantID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetTransactionsReport
// Query params: type, startDate, endDate, customerId, vendorId
func (h *ReportHandler) GetTransactionsReport(c *fiber.Ctx) error {
	filter, err := transactionFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.reports.TransactionsReport(c.UserContext(), middleware.TenantID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetContactReport
// Query params: startDate, endDate
func (h *ReportHandler) GetContactReport(c *fiber.Ctx) error {
	contactID, err := uuidParam(c, "contactId", "contact")
	if err != nil {
		return respondError(c, err)
	}
	from, to, err := dateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.reports.ContactReport(c.UserContext(), middleware.TenantID(c), contactID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
