package inventory

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Columns of an import dataset.
const (
	ColName          = "name"
	ColCode          = "code"
	ColBrand         = "brand"
	ColDescription   = "description"
	ColCost          = "cost"
	ColCategoryName  = "category_name"
	ColWarehouseName = "warehouse_name"
	ColQuantity      = "quantity"
	ColGRNDate       = "grn_date"
	ColImageURL      = "image_url"
	ColRemarks       = "remarks"
)

// Row is one raw dataset row keyed by column name.
type Row map[string]string

func (r Row) get(col string) string {
	return strings.TrimSpace(r[col])
}

func (r Row) optional(col string) *string {
	if v := r.get(col); v != "" {
		return &v
	}
	return nil
}

// IsBlank reports whether every cell is empty after trimming.
func (r Row) IsBlank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ValidatedRow is a row that passed normalization. Quantity is kept raw and
// parsed by the importer once the product has been written.
type ValidatedRow struct {
	Name          string
	Code          string
	Brand         *string
	Description   *string
	Cost          decimal.Decimal
	CategoryName  string
	WarehouseName *string
	Quantity      *string
	GRNDate       *time.Time
	ImageURL      *string
	Remarks       *string
}

// HasStock reports whether the row carries a stock line.
func (v ValidatedRow) HasStock() bool {
	return v.WarehouseName != nil && v.Quantity != nil
}

// RowResult is the outcome of NormalizeRow. Exactly one of Blank, Row and
// Errors is set. LastName is the carry-down name for the next row.
type RowResult struct {
	Blank    bool
	Row      *ValidatedRow
	Code     string
	Errors   []string
	LastName string
}

// NormalizeRow trims, validates and converts one raw row. lastName is the
// most recent non-blank name, used for variant rows that only give a code.
func NormalizeRow(raw Row, lastName string) RowResult {
	if raw.IsBlank() {
		return RowResult{Blank: true, LastName: lastName}
	}

	name := raw.get(ColName)
	code := raw.get(ColCode)
	if name != "" {
		lastName = name
	} else if code != "" && lastName != "" {
		name = lastName
	}

	res := RowResult{Code: code, LastName: lastName}
	var errs []string

	costRaw := raw.get(ColCost)
	category := raw.get(ColCategoryName)
	for _, req := range []struct{ col, val string }{
		{ColName, name},
		{ColCode, code},
		{ColCost, costRaw},
		{ColCategoryName, category},
	} {
		if req.val == "" {
			errs = append(errs, fmt.Sprintf("%s is required", req.col))
		}
	}

	brand := raw.optional(ColBrand)
	warehouse := raw.optional(ColWarehouseName)
	for _, f := range []struct {
		col string
		val *string
		max int
	}{
		{ColName, &name, maxNameLen},
		{ColCode, &code, maxCodeLen},
		{ColBrand, brand, maxShortTextLen},
		{ColCategoryName, &category, maxShortTextLen},
		{ColWarehouseName, warehouse, maxShortTextLen},
	} {
		if f.val != nil && utf8.RuneCountInString(*f.val) > f.max {
			errs = append(errs, fmt.Sprintf("%s must be at most %d characters", f.col, f.max))
		}
	}

	quantity := raw.optional(ColQuantity)
	if (warehouse == nil) != (quantity == nil) {
		errs = append(errs, "warehouse_name and quantity must be provided together")
	}

	var grnDate *time.Time
	if v := raw.get(ColGRNDate); v != "" {
		d, err := ParseDayFirstDate(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid grn_date %q", v))
		} else {
			grnDate = &d
		}
	}

	var cost decimal.Decimal
	if costRaw != "" {
		c, err := decimal.NewFromString(costRaw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("invalid cost %q", costRaw))
		case c.IsNegative():
			errs = append(errs, "cost must not be negative")
		case c.Round(2).GreaterThan(maxCost):
			errs = append(errs, fmt.Sprintf("cost %q exceeds %s", costRaw, maxCost))
		default:
			cost = c.Round(2)
		}
	}

	if len(errs) > 0 {
		res.Errors = errs
		return res
	}

	res.Row = &ValidatedRow{
		Name:          name,
		Code:          code,
		Brand:         brand,
		Description:   raw.optional(ColDescription),
		Cost:          cost,
		CategoryName:  category,
		WarehouseName: warehouse,
		Quantity:      quantity,
		GRNDate:       grnDate,
		ImageURL:      raw.optional(ColImageURL),
		Remarks:       raw.optional(ColRemarks),
	}
	return res
}

// ParseQuantity accepts positive whole numbers, including forms like "12.0"
// that spreadsheets produce for integer cells.
func ParseQuantity(raw string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", raw)
	}
	if !d.IsInteger() || !d.IsPositive() {
		return 0, fmt.Errorf("quantity must be a positive whole number, got %q", raw)
	}
	if !d.LessThanOrEqual(decimal.NewFromInt(maxQuantity)) {
		return 0, fmt.Errorf("quantity %q is too large", raw)
	}
	return int(d.IntPart()), nil
}

// maxCost fits the NUMERIC(10,2) cost column.
var maxCost = decimal.RequireFromString("99999999.99")

// Column widths of the products, categories and warehouses tables.
const (
	maxCodeLen      = 100
	maxNameLen      = 150
	maxShortTextLen = 100
)

// maxQuantity is the largest value of the INTEGER quantity column.
const maxQuantity = 1<<31 - 1
