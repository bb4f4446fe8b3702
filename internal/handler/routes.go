package handler

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth         *AuthHandler
	Products     *ProductHandler
	Contacts     *ContactHandler
	Transactions *TransactionHandler
	Reports      *ReportHandler
	Dashboard    *DashboardHandler
	WS           *WSHandler
}

// SetupRoutes mounts the API under /api and the websocket under /ws.
// requireAuth guards everything except register and login.
func SetupRoutes(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/reset-password", h.Auth.ResetPassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)
	protected.Get("/auth/me", h.Auth.Me)

	protected.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)

	protected.Get("/products", h.Products.GetProducts)
	protected.Get("/products/:id", h.Products.GetProduct)
	protected.Post("/products", h.Products.CreateProduct)
	protected.Put("/products/:id", h.Products.UpdateProduct)
	protected.Delete("/products/:id", h.Products.DeleteProduct)
	protected.Patch("/products/:id/stock", h.Products.AdjustStock)

	protected.Get("/contacts", h.Contacts.GetContacts)
	protected.Get("/contacts/:id", h.Contacts.GetContact)
	protected.Post("/contacts", h.Contacts.CreateContact)
	protected.Put("/contacts/:id", h.Contacts.UpdateContact)
	protected.Delete("/contacts/:id", h.Contacts.DeleteContact)

	protected.Get("/transactions", h.Transactions.GetTransactions)
	protected.Get("/transactions/:id", h.Transactions.GetTransaction)
	protected.Post("/transactions", h.Transactions.CreateTransaction)

	protected.Get("/reports/inventory", h.Reports.GetInventoryReport)
	protected.Get("/reports/transactions", h.Reports.GetTransactionsReport)
	protected.Get("/reports/contact/:contactId", h.Reports.GetContactReport)

	// WebSocket Route
	app.Use("/ws", h.WS.Upgrade)
	app.Get("/ws", requireAuth, h.WS.Stream())
}
