package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/spreadsheet"
	"github.com/rogerio-castellano/inventory-ledger/internal/upload"
)

const multipartMemory = 8 << 20

func tooLarge(limit int64) *apperror.AppError {
	appErr := apperror.NewValidation("uploaded file is too large").WithDetail("max_bytes", limit)
	appErr.HTTPStatus = http.StatusRequestEntityTooLarge
	return appErr
}

// UploadProductsHandler godoc
// @Summary Import products and stock from a spreadsheet
// @Description Rows are applied in one transaction. Rows with validation errors are reported and skipped.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet (.xlsx or .csv)"
// @Success 200 {object} Envelope{data=inventory.ImportSummary}
// @Failure 400 {object} Envelope "Invalid file"
// @Failure 413 {object} Envelope "File too large"
// @Failure 500 {object} Envelope "Internal error"
// @Router /products/upload [post]
// @Security BearerAuth
func UploadProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := uploadStore.MaxBytes()
	if limit > 0 {
		// room for the multipart envelope around the file
		r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, tooLarge(limit))
			return
		}
		badRequest(w, r, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, r, "missing file")
		return
	}
	defer file.Close()

	if !spreadsheet.Supported(header.Filename) {
		badRequest(w, r, spreadsheet.ErrUnsupportedFormat.Error())
		return
	}

	stored, err := uploadStore.Save(file, header.Filename)
	if err != nil {
		if errors.Is(err, upload.ErrTooLarge) {
			writeError(w, r, tooLarge(limit))
			return
		}
		writeError(w, r, err)
		return
	}
	defer stored.Remove(ctx)

	rows, err := spreadsheet.ReadFile(stored.Path)
	if err != nil {
		logger.Warn(ctx, "unreadable upload", "file", stored.Name, "error", err)
		badRequest(w, r, "could not read file: "+err.Error())
		return
	}

	summary, err := importer.Import(ctx, rows, middleware.ActorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, r, http.StatusOK, summary)
}
