package handler

import (
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	catalog service.CatalogService
	stock   service.StockService
	pager   Pager
}

func NewProductHandler(catalog service.CatalogService, stock service.StockService, pager Pager) *ProductHandler {
	return &ProductHandler{catalog: catalog, stock: stock, pager: pager}
}

// GetProducts lists products
// Query params: search, category, page, limit
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	page, err := h.pager.parse(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := repository.ProductFilter{Search: c.Query("search"), Category: c.Query("category")}

	result, err := h.catalog.ListProducts(c.UserContext(), middleware.TenantID(c), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.catalog.GetProduct(c.UserContext(), middleware.TenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), middleware.TenantID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	var req service.ProductUpdateInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), middleware.TenantID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalog.DeleteProduct(c.UserContext(), middleware.TenantID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// AdjustStock increases or decreases stock
// PATCH /api/products/:id/stock {quantity, operation}
func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "product")
	if err != nil {
		return respondError(c, err)
	}
	var req service.StockAdjustInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.stock.AdjustByOperation(c.UserContext(), middleware.TenantID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock updated", "data": product})
}
