package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

var tracer = otel.Tracer("inventory-ledger/inventory")

// headerRows is added to a data row's index to give its spreadsheet row number.
const headerRows = 2

// RowError reports why a row, or its stock line, was not applied.
type RowError struct {
	Row    int      `json:"row"`
	Code   string   `json:"code"`
	Errors []string `json:"errors"`
}

type ImportSummary struct {
	Processed       int        `json:"processed"`
	CreatedProducts int        `json:"created_products"`
	UpdatedProducts int        `json:"updated_products"`
	StockCreated    int        `json:"stock_created"`
	StockUpdated    int        `json:"stock_updated"`
	Skipped         int        `json:"skipped"`
	Errors          []RowError `json:"errors"`
}

// RowOutcome is the effect of one row. A skipped row had no effect at all.
// A row whose stock line failed keeps its product change and carries Error.
type RowOutcome struct {
	Blank          bool
	Skipped        bool
	ProductCreated bool
	ProductUpdated bool
	StockCreated   bool
	StockUpdated   bool
	Error          *RowError
}

func (s ImportSummary) add(o RowOutcome) ImportSummary {
	if o.Blank {
		return s
	}
	s.Processed++
	if o.Skipped {
		s.Skipped++
	}
	if o.ProductCreated {
		s.CreatedProducts++
	}
	if o.ProductUpdated {
		s.UpdatedProducts++
	}
	if o.StockCreated {
		s.StockCreated++
	}
	if o.StockUpdated {
		s.StockUpdated++
	}
	if o.Error != nil {
		s.Errors = append(s.Errors, *o.Error)
	}
	return s
}

type ImporterConfig struct {
	AutoCreateReferences bool
}

// Importer applies a dataset of product rows. Each call to Import is one
// unit of work: row-level problems are reported in the summary, anything
// else rolls the whole import back.
type Importer struct {
	tx         repo.TxManager
	products   repo.ProductRepository
	categories repo.ReferenceRepository
	warehouses repo.ReferenceRepository
	ledger     *Ledger
	cfg        ImporterConfig
	now        func() time.Time
}

func NewImporter(
	tx repo.TxManager,
	products repo.ProductRepository,
	categories repo.ReferenceRepository,
	warehouses repo.ReferenceRepository,
	ledger *Ledger,
	cfg ImporterConfig,
) *Importer {
	return &Importer{
		tx:         tx,
		products:   products,
		categories: categories,
		warehouses: warehouses,
		ledger:     ledger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// importState is the per-call context threaded through the rows.
type importState struct {
	categories *Resolver
	warehouses *Resolver
	lastName   string
	actorID    *int64
	today      time.Time
}

func (im *Importer) Import(ctx context.Context, rows []Row, actorID *int64) (ImportSummary, error) {
	ctx, span := tracer.Start(ctx, "inventory.import")
	defer span.End()
	span.SetAttributes(attribute.Int("import.rows", len(rows)))

	summary := ImportSummary{Errors: []RowError{}}
	err := im.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		st, err := im.newState(ctx, actorID)
		if err != nil {
			return err
		}

		acc := ImportSummary{Errors: []RowError{}}
		for i, raw := range rows {
			outcome, err := im.processRow(ctx, st, i, raw)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+headerRows, err)
			}
			acc = acc.add(outcome)
		}
		summary = acc
		return nil
	})
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, "import rolled back", "rows", len(rows), "error", err)
		return ImportSummary{}, err
	}

	logger.Info(ctx, "import finished",
		"processed", summary.Processed,
		"created_products", summary.CreatedProducts,
		"updated_products", summary.UpdatedProducts,
		"stock_created", summary.StockCreated,
		"stock_updated", summary.StockUpdated,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

func (im *Importer) newState(ctx context.Context, actorID *int64) (*importState, error) {
	categories, err := NewResolver(ctx, im.categories, im.cfg.AutoCreateReferences)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	warehouses, err := NewResolver(ctx, im.warehouses, im.cfg.AutoCreateReferences)
	if err != nil {
		return nil, fmt.Errorf("warehouses: %w", err)
	}
	return &importState{
		categories: categories,
		warehouses: warehouses,
		actorID:    actorID,
		today:      dateOnly(im.now()),
	}, nil
}

// processRow applies one row. The returned error is reserved for failures
// that must abort the import.
func (im *Importer) processRow(ctx context.Context, st *importState, index int, raw Row) (RowOutcome, error) {
	rowNum := index + headerRows

	norm := NormalizeRow(raw, st.lastName)
	st.lastName = norm.LastName
	if norm.Blank {
		return RowOutcome{Blank: true}, nil
	}
	if len(norm.Errors) > 0 {
		return skipped(rowNum, norm.Code, norm.Errors...), nil
	}
	row := norm.Row

	categoryID, ok, err := st.categories.Resolve(ctx, row.CategoryName)
	if err != nil {
		return RowOutcome{}, err
	}
	if !ok {
		return skipped(rowNum, row.Code, fmt.Sprintf("category %q not found", row.CategoryName)), nil
	}

	var out RowOutcome
	existing, err := im.products.GetByCode(ctx, row.Code)
	switch {
	case err == nil:
		if _, err := im.products.Update(ctx, mergeProduct(existing, row, categoryID)); err != nil {
			return RowOutcome{}, fmt.Errorf("update product %q: %w", row.Code, err)
		}
		out.ProductUpdated = true
	case errors.Is(err, repo.ErrProductNotFound):
		existing, err = im.products.Create(ctx, newProduct(row, categoryID))
		if err != nil {
			return RowOutcome{}, fmt.Errorf("create product %q: %w", row.Code, err)
		}
		out.ProductCreated = true
	default:
		return RowOutcome{}, fmt.Errorf("find product %q: %w", row.Code, err)
	}

	if !row.HasStock() {
		return out, nil
	}

	stockErr, err := im.applyStock(ctx, st, existing.ID, row, &out)
	if err != nil {
		return RowOutcome{}, err
	}
	if stockErr != "" {
		out.Error = &RowError{Row: rowNum, Code: row.Code, Errors: []string{stockErr}}
	}
	return out, nil
}

// applyStock records the row's IN movement. A non-empty message is a
// row-level failure of the stock line only.
func (im *Importer) applyStock(ctx context.Context, st *importState, productID int64, row *ValidatedRow, out *RowOutcome) (string, error) {
	warehouseID, ok, err := st.warehouses.Resolve(ctx, *row.WarehouseName)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("warehouse %q not found", *row.WarehouseName), nil
	}

	qty, err := ParseQuantity(*row.Quantity)
	if err != nil {
		return err.Error(), nil
	}

	date := st.today
	if row.GRNDate != nil {
		date = *row.GRNDate
	}

	res, err := im.ledger.ApplyMovement(ctx, Movement{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Type:        models.TransactionIn,
		Quantity:    qty,
		Date:        date,
		Source:      models.SourceExcel,
		ActorID:     st.actorID,
	})
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeValidation {
			return appErr.Message, nil
		}
		return "", err
	}

	out.StockCreated = res.StockCreated
	out.StockUpdated = !res.StockCreated
	return "", nil
}

func skipped(rowNum int, code string, errs ...string) RowOutcome {
	return RowOutcome{Skipped: true, Error: &RowError{Row: rowNum, Code: code, Errors: errs}}
}

func newProduct(row *ValidatedRow, categoryID int64) models.Product {
	return models.Product{
		Code:        row.Code,
		Name:        row.Name,
		Brand:       row.Brand,
		Description: row.Description,
		Cost:        row.Cost,
		CategoryID:  &categoryID,
		GRNDate:     row.GRNDate,
		ImageURL:    row.ImageURL,
		Remarks:     row.Remarks,
	}
}

// mergeProduct overwrites the core fields unconditionally and the receipt
// fields only when the row supplies them.
func mergeProduct(p models.Product, row *ValidatedRow, categoryID int64) models.Product {
	p.Name = row.Name
	p.Brand = row.Brand
	p.Description = row.Description
	p.Cost = row.Cost
	p.CategoryID = &categoryID
	if row.GRNDate != nil {
		p.GRNDate = row.GRNDate
	}
	if row.ImageURL != nil {
		p.ImageURL = row.ImageURL
	}
	if row.Remarks != nil {
		p.Remarks = row.Remarks
	}
	return p
}
