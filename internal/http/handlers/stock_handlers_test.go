package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-ledger/internal/inventory"
)

func TestGetWarehousesForProduct(t *testing.T) {
	env := setupTestEnv(t)
	products, warehouses := env.seed(t)

	w := env.get(fmt.Sprintf("/stock/product/%d/warehouses", products["HAM-1"]))
	expectStatus(t, w, http.StatusOK)
	var res handler.WarehousesForProductResult
	decodeEnvelope(t, w, &res)
	if len(res.Warehouses) != 1 || res.Warehouses[0].WarehouseID != warehouses["North"] || res.Warehouses[0].AvailableQuantity != 10 {
		t.Errorf("unexpected warehouses: %+v", res.Warehouses)
	}

	expectStatus(t, env.get("/stock/product/999/warehouses"), http.StatusNotFound)
	expectStatus(t, env.get("/stock/product/abc/warehouses"), http.StatusBadRequest)
}

func TestStockOut(t *testing.T) {
	env := setupTestEnv(t)
	products, warehouses := env.seed(t)
	ref := "SO-1"

	w := env.postJSON("/stock/out", handler.StockOutRequest{
		ProductID:       products["HAM-1"],
		TransactionDate: "2025-12-01",
		ReferenceNo:     &ref,
		Lines:           []handler.StockOutLineRequest{{WarehouseID: warehouses["North"], Quantity: 4}},
	}, nil)
	expectStatus(t, w, http.StatusCreated)

	var summary inventory.StockOutSummary
	decodeEnvelope(t, w, &summary)
	if summary.TotalLines != 1 || summary.TotalQuantityOut != 4 || summary.TransactionDate != "2025-12-01" {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if q, _ := env.stocks.Quantity(products["HAM-1"], warehouses["North"]); q != 6 {
		t.Errorf("expected 6 left, got %d", q)
	}
}

func TestStockOutFailures(t *testing.T) {
	env := setupTestEnv(t)
	products, warehouses := env.seed(t)
	north := warehouses["North"]

	tests := []struct {
		name   string
		req    handler.StockOutRequest
		status int
		code   string
	}{
		{
			name:   "insufficient stock",
			req:    handler.StockOutRequest{ProductID: products["HAM-1"], TransactionDate: "2025-12-01", Lines: []handler.StockOutLineRequest{{WarehouseID: north, Quantity: 11}}},
			status: http.StatusConflict,
			code:   "INSUFFICIENT_STOCK",
		},
		{
			name:   "unknown product",
			req:    handler.StockOutRequest{ProductID: 999, TransactionDate: "2025-12-01", Lines: []handler.StockOutLineRequest{{WarehouseID: north, Quantity: 1}}},
			status: http.StatusNotFound,
			code:   "PRODUCT_NOT_FOUND",
		},
		{
			name:   "no stock row",
			req:    handler.StockOutRequest{ProductID: products["SAW-1"], TransactionDate: "2025-12-01", Lines: []handler.StockOutLineRequest{{WarehouseID: 999, Quantity: 1}}},
			status: http.StatusBadRequest,
			code:   "NO_STOCK_ROW",
		},
		{
			name:   "no lines",
			req:    handler.StockOutRequest{ProductID: products["HAM-1"], TransactionDate: "2025-12-01"},
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "missing date",
			req:    handler.StockOutRequest{ProductID: products["HAM-1"], Lines: []handler.StockOutLineRequest{{WarehouseID: north, Quantity: 1}}},
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.postJSON("/stock/out", tt.req, nil)
			expectStatus(t, w, tt.status)
			if env := decodeEnvelope(t, w, nil); env.Code != tt.code {
				t.Errorf("expected %s, got %s", tt.code, env.Code)
			}
		})
	}

	if q, _ := env.stocks.Quantity(products["HAM-1"], north); q != 10 {
		t.Errorf("failed requests must not change stock, got %d", q)
	}
}

func TestStockOutMultiLineIsAllOrNothing(t *testing.T) {
	env := setupTestEnv(t)
	products, warehouses := env.seed(t)
	hammer := products["HAM-1"]

	extra := "name,code,cost,category_name,warehouse_name,quantity\nHammer,HAM-1,12.50,Tools,South,2\n"
	expectStatus(t, env.upload("extra.csv", []byte(extra)), http.StatusOK)

	w := env.get(fmt.Sprintf("/stock/product/%d/warehouses", hammer))
	expectStatus(t, w, http.StatusOK)
	var res handler.WarehousesForProductResult
	decodeEnvelope(t, w, &res)
	for _, s := range res.Warehouses {
		warehouses[s.WarehouseName] = s.WarehouseID
	}
	if len(res.Warehouses) != 2 {
		t.Fatalf("expected two warehouses, got %+v", res.Warehouses)
	}

	w = env.postJSON("/stock/out", handler.StockOutRequest{
		ProductID:       hammer,
		TransactionDate: "2025-12-01",
		Lines: []handler.StockOutLineRequest{
			{WarehouseID: warehouses["North"], Quantity: 5},
			{WarehouseID: warehouses["South"], Quantity: 3},
		},
	}, nil)
	expectStatus(t, w, http.StatusConflict)
	if env := decodeEnvelope(t, w, nil); env.Details["available"] != float64(2) {
		t.Errorf("expected available 2 in details, got %v", env.Details)
	}

	if q, _ := env.stocks.Quantity(hammer, warehouses["North"]); q != 10 {
		t.Errorf("North must be untouched by the failed request, got %d", q)
	}
	if q, _ := env.stocks.Quantity(hammer, warehouses["South"]); q != 2 {
		t.Errorf("South must be untouched by the failed request, got %d", q)
	}
}

func TestStockOutIdempotency(t *testing.T) {
	env := setupTestEnv(t)
	products, warehouses := env.seed(t)
	req := handler.StockOutRequest{
		ProductID:       products["HAM-1"],
		TransactionDate: "2025-12-01",
		Lines:           []handler.StockOutLineRequest{{WarehouseID: warehouses["North"], Quantity: 2}},
	}
	headers := map[string]string{handler.HeaderIdempotencyKey: "abc-123"}

	first := env.postJSON("/stock/out", req, headers)
	expectStatus(t, first, http.StatusCreated)
	firstBody := first.Body.String()

	second := env.postJSON("/stock/out", req, headers)
	expectStatus(t, second, http.StatusCreated)
	if second.Header().Get(handler.HeaderReplayed) != "true" {
		t.Error("expected replayed header on second request")
	}
	if second.Body.String() != firstBody {
		t.Errorf("expected identical replay body\nfirst:  %s\nsecond: %s", firstBody, second.Body.String())
	}

	if q, _ := env.stocks.Quantity(products["HAM-1"], warehouses["North"]); q != 8 {
		t.Errorf("expected one decrement to 8, got %d", q)
	}

	req.Lines[0].Quantity = 3
	w := env.postJSON("/stock/out", req, headers)
	expectStatus(t, w, http.StatusConflict)
}

func TestStockOutFailureReleasesIdempotencyKey(t *testing.T) {
	env := setupTestEnv(t)
	products, warehouses := env.seed(t)
	headers := map[string]string{handler.HeaderIdempotencyKey: "retry-me"}
	req := handler.StockOutRequest{
		ProductID:       products["HAM-1"],
		TransactionDate: "2025-12-01",
		Lines:           []handler.StockOutLineRequest{{WarehouseID: warehouses["North"], Quantity: 50}},
	}

	expectStatus(t, env.postJSON("/stock/out", req, headers), http.StatusConflict)

	// The key was released, so a corrected retry runs for real.
	req.Lines[0].Quantity = 1
	w := env.postJSON("/stock/out", req, headers)
	expectStatus(t, w, http.StatusCreated)
	if w.Header().Get(handler.HeaderReplayed) != "" {
		t.Error("failed responses must not be replayed")
	}
}

func TestStockOutAcceptsNumericStrings(t *testing.T) {
	env := setupTestEnv(t)
	products, warehouses := env.seed(t)

	w := env.postJSON("/stock/out", map[string]any{
		"productId":       fmt.Sprint(products["HAM-1"]),
		"transactionDate": "2025-12-01",
		"lines": []map[string]any{
			{"warehouseId": fmt.Sprint(warehouses["North"]), "quantity": "3"},
			{"warehouseId": "", "quantity": ""},
		},
	}, nil)
	expectStatus(t, w, http.StatusCreated)
	if q, _ := env.stocks.Quantity(products["HAM-1"], warehouses["North"]); q != 7 {
		t.Errorf("expected 7 left, got %d", q)
	}

	w = env.postJSON("/stock/out", map[string]any{
		"productId":       "abc",
		"transactionDate": "2025-12-01",
		"lines":           []map[string]any{{"warehouseId": warehouses["North"], "quantity": 1}},
	}, nil)
	expectStatus(t, w, http.StatusBadRequest)
}
