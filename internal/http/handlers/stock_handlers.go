package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-ledger/internal/inventory"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/redissvc"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	maxStockOutBody = 1 << 20
)

// GetWarehousesForProductHandler godoc
// @Summary Warehouses holding a product
// @Description Lists every warehouse with a stock row for the product, ordered by name.
// @Tags stock
// @Produce json
// @Param productId path int true "Product ID"
// @Success 200 {object} Envelope{data=WarehousesForProductResult}
// @Failure 400 {object} Envelope "Invalid ID"
// @Failure 404 {object} Envelope "Product not found"
// @Router /stock/product/{productId}/warehouses [get]
// @Security BearerAuth
func GetWarehousesForProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "productId")
	if !ok {
		badRequest(w, r, "Invalid productId")
		return
	}

	if err := ensureProduct(r, id); err != nil {
		writeError(w, r, err)
		return
	}

	warehouses, err := stockRepo.ListByProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, fmt.Errorf("list stock for product %d: %w", id, err))
		return
	}

	writeOK(w, r, http.StatusOK, WarehousesForProductResult{ProductID: id, Warehouses: warehouses})
}

// StockOutHandler godoc
// @Summary Withdraw stock from one or more warehouses
// @Description All lines are applied or none. Repeating a request with the same Idempotency-Key replays the first successful response.
// @Tags stock
// @Accept json
// @Produce json
// @Param request body StockOutRequest true "Stock-out lines"
// @Param Idempotency-Key header string false "Client generated key"
// @Success 201 {object} Envelope{data=inventory.StockOutSummary}
// @Failure 400 {object} Envelope "Validation error or missing stock row"
// @Failure 404 {object} Envelope "Product not found"
// @Failure 409 {object} Envelope "Insufficient stock or key in use"
// @Failure 500 {object} Envelope "Internal error"
// @Router /stock/out [post]
// @Security BearerAuth
func StockOutHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxStockOutBody))
	if err != nil {
		badRequest(w, r, "invalid input")
		return
	}

	var req StockOutRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&req); err != nil {
		badRequest(w, r, "invalid input")
		return
	}

	actor := middleware.ActorID(r)
	key := strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey))
	var storeKey, fingerprint string
	if key != "" && idempotencyStore != nil {
		storeKey = fmt.Sprintf("stock-out:%d:%s", middleware.GetUserID(r), key)
		sum := sha256.Sum256(body)
		fingerprint = hex.EncodeToString(sum[:])

		replay, err := idempotencyStore.Acquire(ctx, storeKey, fingerprint)
		switch {
		case errors.Is(err, redissvc.ErrInProgress), errors.Is(err, redissvc.ErrKeyReuse):
			writeError(w, r, apperror.NewConflict(err.Error()))
			return
		case err != nil:
			writeError(w, r, fmt.Errorf("idempotency: %w", err))
			return
		case replay != nil:
			logger.Info(ctx, "replaying stock out", "idempotency_key", key)
			_ = writeRaw(w, replay.StatusCode, replay.Body, http.Header{HeaderReplayed: []string{"true"}})
			return
		}
	}

	lines := make([]inventory.StockOutLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = inventory.StockOutLine{WarehouseID: l.WarehouseID, Quantity: l.Quantity}
	}

	summary, err := stockOutService.StockOut(ctx, inventory.StockOutRequest{
		ProductID:       req.ProductID,
		TransactionDate: req.TransactionDate,
		ReferenceNo:     req.ReferenceNo,
		Remarks:         req.Remarks,
		Lines:           lines,
		ActorID:         actor,
	})
	if err != nil {
		if storeKey != "" {
			if rerr := idempotencyStore.Release(context.WithoutCancel(ctx), storeKey); rerr != nil {
				logger.Warn(ctx, "failed to release idempotency key", "error", rerr)
			}
		}
		writeError(w, r, err)
		return
	}

	out, err := json.Marshal(Envelope{Code: codeOK, Data: summary})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if storeKey != "" {
		replay := redissvc.Replay{StatusCode: http.StatusCreated, Body: out}
		if err := idempotencyStore.Complete(context.WithoutCancel(ctx), storeKey, fingerprint, replay); err != nil {
			logger.Warn(ctx, "failed to store idempotent response", "error", err)
		}
	}
	if err := writeRaw(w, http.StatusCreated, out); err != nil {
		logger.Error(ctx, "failed to write JSON response", "error", err)
	}
}
