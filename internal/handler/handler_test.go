package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/testutil"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()
	tokens := jwt.NewManager("handler-test-secret", "test", time.Hour)
	hub := ws.NewHub(log)

	products := repository.NewProductRepo(db)
	contacts := repository.NewContactRepo(db)
	transactions := repository.NewTransactionRepo(db)
	businesses := repository.NewBusinessRepo(db)
	pager := handler.Pager{DefaultLimit: 10, MaxLimit: 100}

	h := handler.Handlers{
		Auth:         handler.NewAuthHandler(service.NewAuthService(businesses, tokens, log)),
		Products:     handler.NewProductHandler(service.NewCatalogService(products, transactions, hub, log), service.NewStockService(products, hub, log), pager),
		Contacts:     handler.NewContactHandler(service.NewContactService(contacts, transactions, log), pager),
		Transactions: handler.NewTransactionHandler(service.NewLedgerService(db, products, contacts, transactions, hub, log), pager),
		Reports:      handler.NewReportHandler(service.NewReportService(db, products, contacts, transactions, service.ReportOptions{}, log), 10),
		Dashboard:    handler.NewDashboardHandler(service.NewDashboardService(products, transactions, 10)),
		WS:           handler.NewWSHandler(hub),
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	handler.SetupRoutes(app, h, middleware.RequireAuth(tokens, businesses))
	return app
}

func register(t *testing.T, app *fiber.App, email string) *apiClient {
	t.Helper()
	c := &apiClient{t: t, app: app}
	status, body := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Shop", "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, body)
	c.token = body["token"].(string)
	return c
}

func (c *apiClient) do(method, path string, payload interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func (c *apiClient) create(path string, payload interface{}) string {
	c.t.Helper()
	status, body := c.do(http.MethodPost, path, payload)
	require.Equal(c.t, http.StatusCreated, status, body)
	return body["data"].(map[string]interface{})["id"].(string)
}

func TestLedgerFlow(t *testing.T) {
	app := newApp(t)
	owner := register(t, app, "owner@shop.test")

	productID := owner.create("/api/products", map[string]interface{}{
		"name": "Widget", "category": "Tools", "price": 100, "stock": 10,
	})
	customerID := owner.create("/api/contacts", map[string]interface{}{
		"name": "Alice", "phone": "0811", "type": "customer",
	})
	vendorID := owner.create("/api/contacts", map[string]interface{}{
		"name": "Vic", "phone": "0822", "type": "vendor",
	})

	status, body := owner.do(http.MethodPost, "/api/transactions", map[string]interface{}{
		"type":        "sale",
		"customer_id": customerID,
		"line_items":  []map[string]interface{}{{"product_id": productID, "quantity": 4, "unit_price": 100}},
	})
	require.Equal(t, http.StatusCreated, status, body)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 400, data["total_amount"])
	assert.Equal(t, "Alice", data["customer"].(map[string]interface{})["name"])

	status, body = owner.do(http.MethodPost, "/api/transactions", map[string]interface{}{
		"type":        "sale",
		"customer_id": customerID,
		"line_items":  []map[string]interface{}{{"product_id": productID, "quantity": 10, "unit_price": 100}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "insufficient_stock", body["code"])
	assert.Equal(t, "Insufficient stock for product Widget. Available: 6, Required: 10", body["error"])
	details := body["details"].(map[string]interface{})
	assert.EqualValues(t, 6, details["available"])
	assert.EqualValues(t, 10, details["required"])

	status, body = owner.do(http.MethodPost, "/api/transactions", map[string]interface{}{
		"type":      "purchase",
		"vendor_id": vendorID,
		"line_items": []map[string]interface{}{{"product_id": productID, "quantity": 20, "unit_price": 90}},
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.EqualValues(t, 1800, body["data"].(map[string]interface{})["total_amount"])

	status, body = owner.do(http.MethodGet, "/api/products/"+productID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 26, body["stock"])

	status, body = owner.do(http.MethodGet, "/api/transactions?limit=1&page=2", nil)
	require.Equal(t, http.StatusOK, status)
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 2, pagination["current"])
	assert.EqualValues(t, 2, pagination["pages"])
	assert.EqualValues(t, 2, pagination["total"])
	assert.Len(t, body["items"], 1)

	status, body = owner.do(http.MethodGet, "/api/transactions?type=sale&customerId="+customerID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["pagination"].(map[string]interface{})["total"])

	status, body = owner.do(http.MethodGet, "/api/reports/transactions", nil)
	require.Equal(t, http.StatusOK, status)
	summary := body["summary"].(map[string]interface{})
	assert.EqualValues(t, 400, summary["total_sales_amount"])
	assert.EqualValues(t, 1800, summary["total_purchase_amount"])
	assert.EqualValues(t, -1400, summary["net_amount"])

	status, body = owner.do(http.MethodGet, "/api/reports/inventory?lowStock=true", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["products"])

	status, body = owner.do(http.MethodGet, "/api/reports/contact/"+customerID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["summary"].(map[string]interface{})["total_transactions"])

	status, body = owner.do(http.MethodPatch, "/api/products/"+productID+"/stock", map[string]interface{}{"quantity": 30, "operation": "decrease"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "insufficient_stock", body["code"])

	status, body = owner.do(http.MethodPatch, "/api/products/"+productID+"/stock", map[string]interface{}{"quantity": 6, "operation": "decrease"})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 20, body["data"].(map[string]interface{})["stock"])
}

func TestErrorMapping(t *testing.T) {
	app := newApp(t)
	owner := register(t, app, "owner@shop.test")
	intruder := register(t, app, "intruder@shop.test")

	customerID := owner.create("/api/contacts", map[string]interface{}{"name": "Alice", "phone": "0811", "type": "customer"})
	productID := owner.create("/api/products", map[string]interface{}{"name": "Widget", "category": "Tools", "price": 1, "stock": 1})

	tests := []struct {
		name    string
		client  *apiClient
		method  string
		path    string
		payload interface{}
		status  int
		code    string
	}{
		{"no token", &apiClient{t: t, app: app}, http.MethodGet, "/api/products", nil, http.StatusUnauthorized, "unauthorized"},
		{"bad token", &apiClient{t: t, app: app, token: "garbage"}, http.MethodGet, "/api/products", nil, http.StatusUnauthorized, "unauthorized"},
		{"duplicate phone", owner, http.MethodPost, "/api/contacts", map[string]interface{}{"name": "Bob", "phone": "0811", "type": "vendor"}, http.StatusConflict, "conflict"},
		{"same phone other tenant", intruder, http.MethodPost, "/api/contacts", map[string]interface{}{"name": "Bob", "phone": "0811", "type": "vendor"}, http.StatusCreated, ""},
		{"cross tenant product", intruder, http.MethodGet, "/api/products/" + productID, nil, http.StatusNotFound, "not_found"},
		{"cross tenant report", intruder, http.MethodGet, "/api/reports/contact/" + customerID, nil, http.StatusNotFound, "not_found"},
		{"bad id", owner, http.MethodGet, "/api/transactions/nope", nil, http.StatusBadRequest, "validation"},
		{"unknown transaction", owner, http.MethodGet, "/api/transactions/" + productID, nil, http.StatusNotFound, "not_found"},
		{"bad type filter", owner, http.MethodGet, "/api/transactions?type=refund", nil, http.StatusBadRequest, "validation"},
		{"bad date", owner, http.MethodGet, "/api/reports/transactions?startDate=yesterday", nil, http.StatusBadRequest, "validation"},
		{"bad page", owner, http.MethodGet, "/api/transactions?page=0", nil, http.StatusBadRequest, "validation"},
		{"foreign product in sale", intruder, http.MethodPost, "/api/transactions", map[string]interface{}{
			"type": "sale", "customer_id": customerID,
			"line_items": []map[string]interface{}{{"product_id": productID, "quantity": 1, "unit_price": 1}},
		}, http.StatusBadRequest, "validation"},
		{"delete unused product", owner, http.MethodDelete, "/api/products/" + productID, nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.client.t = t
			status, body := tt.client.do(tt.method, tt.path, tt.payload)
			assert.Equal(t, tt.status, status, fmt.Sprint(body))
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestDateOnlyEndDateIsInclusive(t *testing.T) {
	app := newApp(t)
	owner := register(t, app, "owner@shop.test")
	productID := owner.create("/api/products", map[string]interface{}{"name": "Widget", "category": "Tools", "price": 1, "stock": 10})
	customerID := owner.create("/api/contacts", map[string]interface{}{"name": "Alice", "phone": "0811", "type": "customer"})

	status, body := owner.do(http.MethodPost, "/api/transactions", map[string]interface{}{
		"type": "sale", "customer_id": customerID, "date": "2024-03-05T18:30:00Z",
		"line_items": []map[string]interface{}{{"product_id": productID, "quantity": 1, "unit_price": 1}},
	})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = owner.do(http.MethodGet, "/api/transactions?startDate=2024-03-05&endDate=2024-03-05", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["pagination"].(map[string]interface{})["total"])

	status, body = owner.do(http.MethodGet, "/api/transactions?endDate=2024-03-04", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["pagination"].(map[string]interface{})["total"])
}
