package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type StockOutLineRequest struct {
	WarehouseID int64   `json:"warehouseId"`
	Quantity    float64 `json:"quantity"`
}

type StockOutRequest struct {
	ProductID       int64                 `json:"productId"`
	TransactionDate string                `json:"transactionDate"`
	ReferenceNo     *string               `json:"reference_no"`
	Remarks         *string               `json:"remarks"`
	Lines           []StockOutLineRequest `json:"lines"`
}

// numericField is a JSON number or a numeric string such as "12", which
// form based clients send.
type numericField string

func (n *numericField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if s, err := strconv.Unquote(string(b)); err == nil {
		*n = numericField(strings.TrimSpace(s))
		return nil
	}
	*n = numericField(b)
	return nil
}

func (n numericField) asInt() (int64, error) {
	if n == "" {
		return 0, nil
	}
	return strconv.ParseInt(string(n), 10, 64)
}

func (n numericField) asFloat() (float64, error) {
	if n == "" {
		return 0, nil
	}
	return strconv.ParseFloat(string(n), 64)
}

func (l *StockOutLineRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		WarehouseID numericField `json:"warehouseId"`
		Quantity    numericField `json:"quantity"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var err error
	if l.WarehouseID, err = raw.WarehouseID.asInt(); err != nil {
		return fmt.Errorf("warehouseId: %w", err)
	}
	if l.Quantity, err = raw.Quantity.asFloat(); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	return nil
}

func (r *StockOutRequest) UnmarshalJSON(b []byte) error {
	type plain StockOutRequest
	var raw struct {
		plain
		ProductID numericField `json:"productId"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = StockOutRequest(raw.plain)
	var err error
	if r.ProductID, err = raw.ProductID.asInt(); err != nil {
		return fmt.Errorf("productId: %w", err)
	}
	return nil
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ProductsSearchResult struct {
	Products   []models.ProductSummary `json:"products"`
	Pagination Pagination              `json:"pagination"`
}

type ProductDetailResponse struct {
	models.Product
	CategoryName *string                 `json:"category_name,omitempty"`
	Stocks       []models.WarehouseStock `json:"stocks"`
	TotalStock   int                     `json:"total_stock"`
}

type WarehousesForProductResult struct {
	ProductID  int64                   `json:"product_id"`
	Warehouses []models.WarehouseStock `json:"warehouses"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type TransactionResponse struct {
	ID              int64                    `json:"id"`
	ProductID       int64                    `json:"product_id"`
	WarehouseID     int64                    `json:"warehouse_id"`
	Type            models.TransactionType   `json:"type"`
	Quantity        int                      `json:"quantity"`
	TransactionDate string                   `json:"transaction_date"`
	Source          models.TransactionSource `json:"source"`
	ReferenceNo     *string                  `json:"reference_no,omitempty"`
	Remarks         *string                  `json:"remarks,omitempty"`
	CreatedBy       *int64                   `json:"created_by,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

type TransactionsSearchResult struct {
	Data []TransactionResponse `json:"data"`
	Meta Meta                  `json:"meta"`
}

func toTransactionResponse(t models.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		WarehouseID:     t.WarehouseID,
		Type:            t.Type,
		Quantity:        t.Quantity,
		TransactionDate: t.TransactionDate.Format(time.DateOnly),
		Source:          t.Source,
		ReferenceNo:     t.ReferenceNo,
		Remarks:         t.Remarks,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}

type ReconciliationResult struct {
	Consistent    bool                 `json:"consistent"`
	Discrepancies []models.Discrepancy `json:"discrepancies"`
}

type LowStockResult struct {
	Threshold int                   `json:"threshold"`
	Items     []models.LowStockItem `json:"items"`
}
