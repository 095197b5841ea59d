package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
)

const codeOK = "OK"

// Envelope wraps every JSON response.
type Envelope struct {
	Code    string         `json:"code"`
	Data    any            `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}
	return writeRaw(w, status, out, headers...)
}

func writeRaw(w http.ResponseWriter, status int, out []byte, headers ...http.Header) error {
	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func writeOK(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, Envelope{Code: codeOK, Data: data}); err != nil {
		logger.Error(r.Context(), "failed to write JSON response", "error", err)
	}
}

// writeError maps err to its status. Anything that is not an AppError is
// logged and reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.Wrap(err)
	if appErr.Code == apperror.CodeInternal {
		logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	body := Envelope{Code: appErr.Code, Error: appErr.Message, Details: appErr.Details}
	if err := writeJSON(w, appErr.HTTPStatus, body); err != nil {
		logger.Error(r.Context(), "failed to write JSON response", "error", err)
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, apperror.NewValidation(message))
}

// idParam reads a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
