package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/router"
	"github.com/rogerio-castellano/inventory-ledger/internal/inventory"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/redissvc"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/rogerio-castellano/inventory-ledger/internal/upload"
)

type testEnv struct {
	router    http.Handler
	token     string
	store     *repo.MemoryStore
	stocks    *repo.InMemoryStockRepository
	ledger    *repo.InMemoryTransactionRepository
	uploadDir string
}

// envelope mirrors handler.Envelope with a raw payload.
type envelope struct {
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details map[string]any  `json:"details"`
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWithLimiter(t, rl.New(1000, 1000))
}

func setupTestEnvWithLimiter(t *testing.T, limiter *rl.Limiter) *testEnv {
	t.Helper()

	store := repo.NewMemoryStore()
	products := repo.NewInMemoryProductRepository(store)
	categories := repo.NewInMemoryCategoryRepository(store)
	warehouses := repo.NewInMemoryWarehouseRepository(store)
	stocks := repo.NewInMemoryStockRepository(store)
	transactions := repo.NewInMemoryTransactionRepository(store)
	users := repo.NewInMemoryUserRepository(store)
	ledger := inventory.NewLedger(store, stocks, transactions)

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	authService := auth.NewAuthService(users, tokens)
	uploadDir := t.TempDir()

	handler.SetProductRepo(products)
	handler.SetCategoryRepo(categories)
	handler.SetStockRepo(stocks)
	handler.SetTransactionRepo(transactions)
	handler.SetReportRepo(repo.NewInMemoryReportRepository(store))
	handler.SetImporter(inventory.NewImporter(store, products, categories, warehouses, ledger,
		inventory.ImporterConfig{AutoCreateReferences: true}))
	handler.SetStockOutService(inventory.NewStockOutService(store, products, stocks, ledger))
	handler.SetAuthService(authService)
	handler.SetUploadStore(upload.NewStore(uploadDir, 1<<20))
	handler.SetIdempotencyStore(redissvc.NewMemoryIdempotencyStore(time.Hour, time.Minute))
	handler.SetLowStockThreshold(10)
	handler.SetHealthCheck("database", func(context.Context) error { return nil })

	_, token, err := authService.Register(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}

	return &testEnv{
		router:    router.NewRouter(router.Config{Tokens: tokens, Limiter: limiter, Logger: logger.Nop()}),
		token:     token,
		store:     store,
		stocks:    stocks,
		ledger:    transactions,
		uploadDir: uploadDir,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	if req.Header.Get("Authorization") == "" && e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) postJSON(path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return e.do(req)
}

func (e *testEnv) upload(filename string, content []byte) *httptest.ResponseRecorder {
	body, contentType := multipartFile(content, filename)
	req := httptest.NewRequest(http.MethodPost, "/products/upload", body)
	req.Header.Set("Content-Type", contentType)
	return e.do(req)
}

func multipartFile(content []byte, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write(content)

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("error decoding response %q: %v", w.Body.String(), err)
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("error decoding data %s: %v", env.Data, err)
		}
	}
	return env
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

const seedCSV = `name,code,brand,cost,category_name,warehouse_name,quantity,grn_date
Hammer,HAM-1,Acme,12.50,Tools,North,10,2025-11-01
Chisel,CHS-1,Acme,,Tools,South,4,2025-11-02
Saw,SAW-1,,20,Tools,North,3,2025-11-03
`

// seed imports seedCSV, whose second row lacks a cost, and returns the product ids by code and warehouse ids by name.
func (e *testEnv) seed(t *testing.T) (map[string]int64, map[string]int64) {
	t.Helper()
	w := e.upload("seed.csv", []byte(seedCSV))
	expectStatus(t, w, http.StatusOK)

	products := map[string]int64{}
	warehouses := map[string]int64{}
	for _, code := range []string{"HAM-1", "SAW-1"} {
		w := e.get("/products?search=" + code)
		expectStatus(t, w, http.StatusOK)
		var res handler.ProductsSearchResult
		decodeEnvelope(t, w, &res)
		if len(res.Products) != 1 {
			t.Fatalf("expected one product for %s, got %d", code, len(res.Products))
		}
		products[code] = res.Products[0].ID

		w = e.get(fmt.Sprintf("/stock/product/%d/warehouses", res.Products[0].ID))
		expectStatus(t, w, http.StatusOK)
		var wh handler.WarehousesForProductResult
		decodeEnvelope(t, w, &wh)
		for _, s := range wh.Warehouses {
			warehouses[s.WarehouseName] = s.WarehouseID
		}
	}
	return products, warehouses
}
