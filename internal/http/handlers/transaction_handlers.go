package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	repo "github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// transactionFilter reads the history filters shared by list and export.
func transactionFilter(q url.Values) (repo.TransactionFilter, error) {
	var tf repo.TransactionFilter
	var err error

	if tf.Since, err = queryDate(q, "since"); err != nil {
		return tf, err
	}
	if tf.Until, err = queryDate(q, "until"); err != nil {
		return tf, err
	}
	if tf.Since != nil && tf.Until != nil && tf.Until.Before(*tf.Since) {
		return tf, fmt.Errorf("until must not be before since")
	}
	if tf.WarehouseID, err = queryInt64(q, "warehouse_id"); err != nil {
		return tf, err
	}
	if s := q.Get("type"); s != "" {
		t := models.TransactionType(strings.ToUpper(s))
		if t != models.TransactionIn && t != models.TransactionOut {
			return tf, fmt.Errorf("type must be IN or OUT")
		}
		tf.Type = &t
	}
	return tf, nil
}

// GetTransactionsHandler godoc
// @Summary Get product ledger entries
// @Tags transactions
// @Produce json
// @Param id path int true "Product ID"
// @Param since query string false "Filter entries from this date (YYYY-MM-DD or RFC3339)"
// @Param until query string false "Filter entries until this date (YYYY-MM-DD or RFC3339)"
// @Param warehouse_id query int false "Warehouse ID"
// @Param type query string false "IN or OUT"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} Envelope{data=TransactionsSearchResult}
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 404 {object} Envelope "Product not found"
// @Failure 500 {object} Envelope "Internal error"
// @Router /products/{id}/transactions [get]
// @Security BearerAuth
func GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, r, "invalid product ID")
		return
	}

	if err := ensureProduct(r, id); err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	tf, err := transactionFilter(q)
	if err != nil {
		logger.Debug(r.Context(), "invalid transaction filter", "error", err)
		badRequest(w, r, err.Error())
		return
	}
	if tf.Limit, err = queryInt(q, "limit", 1); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	if tf.Offset, err = queryInt(q, "offset", 0); err != nil {
		badRequest(w, r, err.Error())
		return
	}

	transactions, total, err := transactionRepo.ListByProduct(r.Context(), id, tf)
	if err != nil {
		writeError(w, r, fmt.Errorf("could not retrieve transactions for product %d: %w", id, err))
		return
	}

	response := TransactionsSearchResult{
		Data: make([]TransactionResponse, len(transactions)),
		Meta: Meta{TotalCount: total},
	}
	for i, t := range transactions {
		response.Data[i] = toTransactionResponse(t)
	}

	writeOK(w, r, http.StatusOK, response)
}

// ExportTransactionsHandler godoc
// @Summary Export product ledger entries
// @Tags transactions
// @Produce text/csv, application/json
// @Param id path int true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from date"
// @Param until query string false "Filter until date"
// @Param warehouse_id query int false "Warehouse ID"
// @Param type query string false "IN or OUT"
// @Success 200 {file} file
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 404 {object} Envelope "Product not found"
// @Failure 500 {object} Envelope "Internal error"
// @Router /products/{id}/transactions/export [get]
// @Security BearerAuth
func ExportTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, r, "invalid product ID")
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format != "csv" && format != "json" {
		badRequest(w, r, "format must be 'csv' or 'json'")
		return
	}

	if err := ensureProduct(r, id); err != nil {
		writeError(w, r, err)
		return
	}

	tf, err := transactionFilter(q)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	transactions, err := allTransactions(r, id, tf)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("product-%d-transactions.%s", id, format)
	switch format {
	case "json":
		data := make([]TransactionResponse, len(transactions))
		for i, t := range transactions {
			data[i] = toTransactionResponse(t)
		}
		headers := http.Header{"Content-Disposition": []string{fmt.Sprintf(`attachment; filename="%s"`, filename)}}
		if err := writeJSON(w, http.StatusOK, data, headers); err != nil {
			logger.Error(r.Context(), "failed to write export", "error", err)
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "warehouse_id", "type", "quantity",
			"transaction_date", "source", "reference_no", "remarks", "created_by", "created_at"})
		for _, t := range transactions {
			_ = csvWriter.Write([]string{
				strconv.FormatInt(t.ID, 10),
				strconv.FormatInt(t.ProductID, 10),
				strconv.FormatInt(t.WarehouseID, 10),
				string(t.Type),
				strconv.Itoa(t.Quantity),
				t.TransactionDate.Format(time.DateOnly),
				string(t.Source),
				deref(t.ReferenceNo),
				deref(t.Remarks),
				optionalID(t.CreatedBy),
				t.CreatedAt.Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			logger.Error(r.Context(), "failed to write export", "error", err)
		}
	}
}

// allTransactions pages through the whole filtered ledger.
func allTransactions(r *http.Request, productID int64, tf repo.TransactionFilter) ([]models.StockTransaction, error) {
	var out []models.StockTransaction
	offset, limit := 0, 100
	tf.Limit = &limit
	for {
		tf.Offset = &offset
		page, total, err := transactionRepo.ListByProduct(r.Context(), productID, tf)
		if err != nil {
			return nil, fmt.Errorf("could not retrieve transactions for product %d: %w", productID, err)
		}
		out = append(out, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			return out, nil
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

