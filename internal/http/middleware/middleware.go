// Package middleware holds the chi middlewares shared by every route.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
)

// writeError writes the failure envelope used by the handlers package.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":  appErr.Code,
		"error": appErr.Message,
	})
}
