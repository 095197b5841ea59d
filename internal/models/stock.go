package models

import "time"

type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

type TransactionSource string

const (
	SourceExcel  TransactionSource = "EXCEL"
	SourceManual TransactionSource = "MANUAL"
)

// Stock is the current quantity of a product held in one warehouse.
// It is derived from the stock_transactions ledger and never goes negative.
type Stock struct {
	ID          int64     `json:"id" db:"id"`
	ProductID   int64     `json:"product_id" db:"product_id"`
	WarehouseID int64     `json:"warehouse_id" db:"warehouse_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// StockTransaction is one immutable ledger entry.
type StockTransaction struct {
	ID              int64             `json:"id" db:"id"`
	ProductID       int64             `json:"product_id" db:"product_id"`
	WarehouseID     int64             `json:"warehouse_id" db:"warehouse_id"`
	Type            TransactionType   `json:"type" db:"type"`
	Quantity        int               `json:"quantity" db:"quantity"`
	TransactionDate time.Time         `json:"transaction_date" db:"transaction_date"`
	Source          TransactionSource `json:"source" db:"source"`
	ReferenceNo     *string           `json:"reference_no,omitempty" db:"reference_no"`
	Remarks         *string           `json:"remarks,omitempty" db:"remarks"`
	CreatedBy       *int64            `json:"created_by,omitempty" db:"created_by"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
}

// Signed returns the quantity with the sign of its movement type.
func (t StockTransaction) Signed() int {
	if t.Type == TransactionOut {
		return -t.Quantity
	}
	return t.Quantity
}
