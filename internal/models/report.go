package models

import "github.com/shopspring/decimal"

type ProductSummary struct {
	ID           int64           `json:"id" db:"id"`
	Code         string          `json:"code" db:"code"`
	Name         string          `json:"name" db:"name"`
	Brand        *string         `json:"brand,omitempty" db:"brand"`
	Cost         decimal.Decimal `json:"cost" db:"cost"`
	CategoryID   *int64          `json:"category_id,omitempty" db:"category_id"`
	CategoryName *string         `json:"category_name,omitempty" db:"category_name"`
	TotalStock   int             `json:"total_stock" db:"total_stock"`
}

// WarehouseStock is a stock row joined with its warehouse.
type WarehouseStock struct {
	WarehouseID       int64   `json:"warehouse_id" db:"warehouse_id"`
	WarehouseName     string  `json:"warehouse_name" db:"warehouse_name"`
	Location          *string `json:"location,omitempty" db:"location"`
	AvailableQuantity int     `json:"available_quantity" db:"available_quantity"`
}

type LowStockItem struct {
	ProductID   int64  `json:"product_id" db:"product_id"`
	ProductCode string `json:"product_code" db:"product_code"`
	ProductName string `json:"product_name" db:"product_name"`
	Quantity    int    `json:"quantity" db:"quantity"`
}

type DashboardStats struct {
	TotalProducts  int `json:"total_products" db:"total_products"`
	TotalStock     int `json:"total_stock" db:"total_stock"`
	LowStockCount  int `json:"low_stock_count" db:"low_stock_count"`
	CategoryCount  int `json:"category_count" db:"category_count"`
	WarehouseCount int `json:"warehouse_count" db:"warehouse_count"`
}

// Discrepancy is a (product, warehouse) pair whose stock quantity
// does not match the net sum of its ledger entries.
type Discrepancy struct {
	ProductID      int64 `json:"product_id" db:"product_id"`
	WarehouseID    int64 `json:"warehouse_id" db:"warehouse_id"`
	StockQuantity  int   `json:"stock_quantity" db:"stock_quantity"`
	LedgerQuantity int   `json:"ledger_quantity" db:"ledger_quantity"`
}
