package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	repo "github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

const defaultPageSize = 10

// GetProductsHandler godoc
// @Summary List products
// @Description Paginated product list with category and stock summed over every warehouse.
// @Tags products
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size (max 100)"
// @Param search query string false "Matches name or code"
// @Success 200 {object} Envelope{data=ProductsSearchResult}
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 500 {object} Envelope "Internal error"
// @Router /products [get]
// @Security BearerAuth
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt(q, "page", 1)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	limit, err := queryInt(q, "limit", 1)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	p, l := 1, defaultPageSize
	if page != nil {
		p = *page
	}
	if limit != nil {
		l = min(*limit, 100)
	}
	offset := (p - 1) * l

	products, total, err := productRepo.List(r.Context(), repo.ProductFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Offset: &offset,
		Limit:  &l,
	})
	if err != nil {
		writeError(w, r, fmt.Errorf("list products: %w", err))
		return
	}

	writeOK(w, r, http.StatusOK, ProductsSearchResult{
		Products: products,
		Pagination: Pagination{
			Total:      total,
			Page:       p,
			Limit:      l,
			TotalPages: (total + l - 1) / l,
		},
	})
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Description Product details with stock per warehouse.
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} Envelope{data=ProductDetailResponse}
// @Failure 400 {object} Envelope "Invalid ID"
// @Failure 404 {object} Envelope "Not found"
// @Failure 500 {object} Envelope "Internal error"
// @Router /products/{id} [get]
// @Security BearerAuth
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		badRequest(w, r, "invalid product ID")
		return
	}

	product, err := productRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, r, apperror.NewProductNotFound(id))
			return
		}
		writeError(w, r, fmt.Errorf("get product %d: %w", id, err))
		return
	}

	stocks, err := stockRepo.ListByProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, fmt.Errorf("list stock for product %d: %w", id, err))
		return
	}

	resp := ProductDetailResponse{Product: product, Stocks: stocks}
	for _, s := range stocks {
		resp.TotalStock += s.AvailableQuantity
	}
	if product.CategoryID != nil {
		names, err := categoryRepo.Names(r.Context())
		if err != nil {
			writeError(w, r, fmt.Errorf("load categories: %w", err))
			return
		}
		if name, ok := names[*product.CategoryID]; ok {
			resp.CategoryName = &name
		}
	}

	writeOK(w, r, http.StatusOK, resp)
}

// ensureProduct maps a missing product to PRODUCT_NOT_FOUND.
func ensureProduct(r *http.Request, id int64) error {
	if _, err := productRepo.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return apperror.NewProductNotFound(id)
		}
		return fmt.Errorf("get product %d: %w", id, err)
	}
	return nil
}
