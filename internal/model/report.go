package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventorySummary struct {
	TotalProducts   int             `json:"total_products"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockItems   int             `json:"low_stock_items"`
	OutOfStockItems int             `json:"out_of_stock_items"`
}

type CategoryStats struct {
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
	TotalStock int             `json:"total_stock"`
}

type InventoryReport struct {
	Summary           InventorySummary          `json:"summary"`
	CategoryBreakdown map[string]*CategoryStats `json:"category_breakdown"`
	Products          []Product                 `json:"products"`
}

type TransactionsSummary struct {
	TotalTransactions   int             `json:"total_transactions"`
	TotalSales          int             `json:"total_sales"`
	TotalPurchases      int             `json:"total_purchases"`
	TotalSalesAmount    decimal.Decimal `json:"total_sales_amount"`
	TotalPurchaseAmount decimal.Decimal `json:"total_purchase_amount"`
	NetAmount           decimal.Decimal `json:"net_amount"`
}

type CountAmount struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type DailyStats struct {
	Sales     CountAmount `json:"sales"`
	Purchases CountAmount `json:"purchases"`
}

type ProductMovement struct {
	ProductID        uuid.UUID       `json:"product_id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	TotalQuantity    int             `json:"total_quantity"`
	TotalValue       decimal.Decimal `json:"total_value"`
	SalesQuantity    int             `json:"sales_quantity"`
	PurchaseQuantity int             `json:"purchase_quantity"`
}

type TransactionsReport struct {
	Summary        TransactionsSummary    `json:"summary"`
	DailyBreakdown map[string]*DailyStats `json:"daily_breakdown"`
	TopProducts    []ProductMovement      `json:"top_products"`
	Transactions   []TransactionView      `json:"transactions"`
}

type ContactSummary struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

type ContactProductStats struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

type ContactReport struct {
	Contact          Contact               `json:"contact"`
	Summary          ContactSummary        `json:"summary"`
	ProductBreakdown []ContactProductStats `json:"product_breakdown"`
	Transactions     []TransactionView     `json:"transactions"`
}

type DashboardStats struct {
	TotalProducts   int             `json:"total_products"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	TotalValuation  decimal.Decimal `json:"total_valuation"`
}

type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}
