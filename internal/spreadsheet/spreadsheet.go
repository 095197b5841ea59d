// Package spreadsheet turns uploaded .xlsx and .csv files into import rows.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rogerio-castellano/inventory-ledger/internal/inventory"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")
	ErrEmpty             = errors.New("file has no header row")
)

// Supported reports whether filename has an extension ReadFile understands.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}

// ReadFile reads path, picking the format from its extension.
func ReadFile(path string) ([]inventory.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(f)
	case ".csv":
		return ReadCSV(f)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ReadXLSX reads the first sheet. The first row is the header; blank rows
// below it are kept so row numbers match the sheet. Cells are read as stored,
// not as displayed, so "#,##0.00" numbers keep their plain form and date cells
// arrive as serial day numbers.
func ReadXLSX(r io.Reader) ([]inventory.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}

	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return toRows(records)
}

// ReadCSV reads comma separated records with a header line.
func ReadCSV(r io.Reader) ([]inventory.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return toRows(records)
}

func toRows(records [][]string) ([]inventory.Row, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = HeaderKey(h)
	}

	rows := make([]inventory.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(inventory.Row, len(header))
		for i, key := range header {
			if key == "" || i >= len(rec) {
				continue
			}
			row[key] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// HeaderKey maps "Category Name" and " category_name " to the same key.
func HeaderKey(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(h)), "_")
}
