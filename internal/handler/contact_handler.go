package handler

import (
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	contacts service.ContactService
	pager    Pager
}

func NewContactHandler(contacts service.ContactService, pager Pager) *ContactHandler {
	return &ContactHandler{contacts: contacts, pager: pager}
}

// GetContacts lists customers and vendors
// Query params: search, type, page, limit
func (h *ContactHandler) GetContacts(c *fiber.Ctx) error {
	page, err := h.pager.parse(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := repository.ContactFilter{Search: c.Query("search"), Type: model.ContactType(c.Query("type"))}

	result, err := h.contacts.ListContacts(c.UserContext(), middleware.TenantID(c), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *ContactHandler) GetContact(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "contact")
	if err != nil {
		return respondError(c, err)
	}
	contact, err := h.contacts.GetContact(c.UserContext(), middleware.TenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(contact)
}

func (h *ContactHandler) CreateContact(c *fiber.Ctx) error {
	var req service.ContactInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	contact, err := h.contacts.CreateContact(c.UserContext(), middleware.TenantID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Contact created", "data": contact})
}

func (h *ContactHandler) UpdateContact(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "contact")
	if err != nil {
		return respondError(c, err)
	}
	var req service.ContactInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	contact, err := h.contacts.UpdateContact(c.UserContext(), middleware.TenantID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Contact updated", "data": contact})
}

func (h *ContactHandler) DeleteContact(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "contact")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.contacts.DeleteContact(c.UserContext(), middleware.TenantID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Contact deleted"})
}
