package handlers_test

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
)

func TestGetProductsPagination(t *testing.T) {
	env := setupTestEnv(t)
	env.seed(t)

	w := env.get("/products?page=2&limit=1")
	expectStatus(t, w, http.StatusOK)
	var res handler.ProductsSearchResult
	decodeEnvelope(t, w, &res)
	if res.Pagination.Total != 2 || res.Pagination.TotalPages != 2 || res.Pagination.Page != 2 {
		t.Errorf("unexpected pagination: %+v", res.Pagination)
	}
	if len(res.Products) != 1 {
		t.Fatalf("expected 1 product on page 2, got %d", len(res.Products))
	}

	w = env.get("/products?search=saw")
	expectStatus(t, w, http.StatusOK)
	decodeEnvelope(t, w, &res)
	if len(res.Products) != 1 || res.Products[0].Code != "SAW-1" || res.Products[0].TotalStock != 3 {
		t.Errorf("unexpected search result: %+v", res.Products)
	}

	expectStatus(t, env.get("/products?limit=0"), http.StatusBadRequest)
	expectStatus(t, env.get("/products?page=x"), http.StatusBadRequest)
}

func TestGetProductByID(t *testing.T) {
	env := setupTestEnv(t)
	products, _ := env.seed(t)

	w := env.get(fmt.Sprintf("/products/%d", products["HAM-1"]))
	expectStatus(t, w, http.StatusOK)
	var detail handler.ProductDetailResponse
	decodeEnvelope(t, w, &detail)
	if detail.Code != "HAM-1" || detail.TotalStock != 10 || len(detail.Stocks) != 1 {
		t.Errorf("unexpected product detail: %+v", detail)
	}
	if detail.CategoryName == nil || *detail.CategoryName != "Tools" {
		t.Errorf("expected category Tools, got %v", detail.CategoryName)
	}

	w = env.get("/products/999")
	expectStatus(t, w, http.StatusNotFound)
	if env := decodeEnvelope(t, w, nil); env.Code != "PRODUCT_NOT_FOUND" {
		t.Errorf("expected PRODUCT_NOT_FOUND, got %s", env.Code)
	}
}

func TestGetTransactions(t *testing.T) {
	env := setupTestEnv(t)
	products, warehouses := env.seed(t)
	hammer := products["HAM-1"]

	expectStatus(t, env.postJSON("/stock/out", handler.StockOutRequest{
		ProductID:       hammer,
		TransactionDate: "2025-12-05",
		Lines:           []handler.StockOutLineRequest{{WarehouseID: warehouses["North"], Quantity: 1}},
	}, nil), http.StatusCreated)

	w := env.get(fmt.Sprintf("/products/%d/transactions", hammer))
	expectStatus(t, w, http.StatusOK)
	var res handler.TransactionsSearchResult
	decodeEnvelope(t, w, &res)
	if res.Meta.TotalCount != 2 || len(res.Data) != 2 {
		t.Fatalf("expected 2 entries, got %+v", res)
	}
	if res.Data[0].Type != "OUT" || res.Data[0].TransactionDate != "2025-12-05" {
		t.Errorf("expected newest OUT entry first, got %+v", res.Data[0])
	}

	w = env.get(fmt.Sprintf("/products/%d/transactions?type=IN", hammer))
	expectStatus(t, w, http.StatusOK)
	decodeEnvelope(t, w, &res)
	if res.Meta.TotalCount != 1 || res.Data[0].Source != "EXCEL" {
		t.Errorf("expected one EXCEL IN entry, got %+v", res)
	}

	w = env.get(fmt.Sprintf("/products/%d/transactions?since=2025-12-01", hammer))
	expectStatus(t, w, http.StatusOK)
	decodeEnvelope(t, w, &res)
	if res.Meta.TotalCount != 1 {
		t.Errorf("expected one entry since 2025-12-01, got %d", res.Meta.TotalCount)
	}

	for _, q := range []string{"limit=0", "offset=-1", "type=MOVE", "since=yesterday", "since=2025-12-02&until=2025-12-01"} {
		expectStatus(t, env.get(fmt.Sprintf("/products/%d/transactions?%s", hammer, q)), http.StatusBadRequest)
	}
	expectStatus(t, env.get("/products/999/transactions"), http.StatusNotFound)
}

func TestExportTransactions(t *testing.T) {
	env := setupTestEnv(t)
	products, _ := env.seed(t)
	hammer := products["HAM-1"]

	w := env.get(fmt.Sprintf("/products/%d/transactions/export?format=csv", hammer))
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %s", ct)
	}
	want := fmt.Sprintf(`attachment; filename="product-%d-transactions.csv"`, hammer)
	if cd := w.Header().Get("Content-Disposition"); cd != want {
		t.Errorf("expected %s, got %s", want, cd)
	}
	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[1][3] != "IN" || records[1][4] != "10" {
		t.Errorf("unexpected export: %v", records)
	}

	w = env.get(fmt.Sprintf("/products/%d/transactions/export?format=json", hammer))
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `"type":"IN"`) {
		t.Errorf("unexpected json export: %s", w.Body.String())
	}

	expectStatus(t, env.get(fmt.Sprintf("/products/%d/transactions/export?format=xml", hammer)), http.StatusBadRequest)
}
