package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// maxReferenceLen is the width of stock_transactions.reference_no.
const maxReferenceLen = 100

type StockOutLine struct {
	WarehouseID int64
	Quantity    float64
}

type StockOutRequest struct {
	ProductID       int64
	TransactionDate string
	ReferenceNo     *string
	Remarks         *string
	Lines           []StockOutLine
	ActorID         *int64
}

type StockOutEntry struct {
	ID          int64                  `json:"id"`
	WarehouseID int64                  `json:"warehouse_id"`
	Quantity    int                    `json:"quantity"`
	Type        models.TransactionType `json:"type"`
}

type StockOutSummary struct {
	ProductID        int64           `json:"product_id"`
	TransactionDate  string          `json:"transaction_date"`
	TotalLines       int             `json:"total_lines"`
	TotalQuantityOut int             `json:"total_quantity_out"`
	Transactions     []StockOutEntry `json:"transactions"`
}

type StockOutService struct {
	tx       repo.TxManager
	products repo.ProductRepository
	stocks   repo.StockRepository
	ledger   *Ledger
}

func NewStockOutService(tx repo.TxManager, products repo.ProductRepository, stocks repo.StockRepository, ledger *Ledger) *StockOutService {
	return &StockOutService{tx: tx, products: products, stocks: stocks, ledger: ledger}
}

type cleanLine struct {
	warehouseID int64
	quantity    int
}

// StockOut withdraws every line or none. Any returned error is an
// *apperror.AppError.
func (s *StockOutService) StockOut(ctx context.Context, req StockOutRequest) (StockOutSummary, error) {
	ctx, span := tracer.Start(ctx, "inventory.stock_out")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", req.ProductID), attribute.Int("stock_out.lines", len(req.Lines)))

	date, lines, err := validateStockOut(req)
	if err != nil {
		return StockOutSummary{}, err
	}

	var summary StockOutSummary
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.products.GetByID(ctx, req.ProductID); err != nil {
			if errors.Is(err, repo.ErrProductNotFound) {
				return apperror.NewProductNotFound(req.ProductID)
			}
			return fmt.Errorf("find product: %w", err)
		}

		locked, err := s.stocks.LockForProduct(ctx, req.ProductID, warehouseIDs(lines))
		if err != nil {
			return err
		}

		// validate every line before the first write
		requested := map[int64]int{}
		for _, l := range lines {
			stock, ok := locked[l.warehouseID]
			if !ok {
				return apperror.NewNoStockRow(req.ProductID, l.warehouseID)
			}
			requested[l.warehouseID] += l.quantity
			if requested[l.warehouseID] > stock.Quantity {
				return apperror.NewInsufficientStock(l.warehouseID, requested[l.warehouseID], stock.Quantity)
			}
		}

		summary = StockOutSummary{
			ProductID:       req.ProductID,
			TransactionDate: date.Format(time.DateOnly),
			Transactions:    make([]StockOutEntry, 0, len(lines)),
		}
		for _, l := range lines {
			res, err := s.ledger.applyToLocked(ctx, locked[l.warehouseID], Movement{
				ProductID:   req.ProductID,
				WarehouseID: l.warehouseID,
				Type:        models.TransactionOut,
				Quantity:    l.quantity,
				Date:        date,
				Source:      models.SourceManual,
				ReferenceNo: req.ReferenceNo,
				Remarks:     req.Remarks,
				ActorID:     req.ActorID,
			})
			if err != nil {
				return err
			}
			locked[l.warehouseID] = res.Stock

			summary.TotalLines++
			summary.TotalQuantityOut += res.Transaction.Quantity
			summary.Transactions = append(summary.Transactions, StockOutEntry{
				ID:          res.Transaction.ID,
				WarehouseID: res.Transaction.WarehouseID,
				Quantity:    res.Transaction.Quantity,
				Type:        res.Transaction.Type,
			})
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		appErr := apperror.Wrap(err)
		if appErr.Code == apperror.CodeInternal {
			logger.Error(ctx, "stock out failed", "product_id", req.ProductID, "error", err)
		}
		return StockOutSummary{}, appErr
	}

	logger.Info(ctx, "stock out recorded",
		"product_id", summary.ProductID,
		"lines", summary.TotalLines,
		"quantity", summary.TotalQuantityOut,
	)
	return summary, nil
}

// validateStockOut checks the request shape and drops lines without a
// positive warehouse id or quantity.
func validateStockOut(req StockOutRequest) (date time.Time, lines []cleanLine, err error) {
	if req.ProductID <= 0 {
		return date, nil, apperror.NewValidation("Invalid productId")
	}
	if strings.TrimSpace(req.TransactionDate) == "" {
		return date, nil, apperror.NewValidation("transactionDate is required")
	}
	if req.ReferenceNo != nil && utf8.RuneCountInString(*req.ReferenceNo) > maxReferenceLen {
		return date, nil, apperror.NewValidation(fmt.Sprintf("reference_no must be at most %d characters", maxReferenceLen))
	}
	d, perr := ParseDate(req.TransactionDate)
	if perr != nil {
		return date, nil, apperror.NewValidation("Invalid transactionDate format")
	}
	date = d
	if len(req.Lines) == 0 {
		return date, nil, apperror.NewValidation("At least one stock-out line is required")
	}

	for _, l := range req.Lines {
		if l.WarehouseID <= 0 || !(l.Quantity > 0) {
			continue
		}
		if l.Quantity != math.Trunc(l.Quantity) || l.Quantity > maxQuantity {
			return date, nil, apperror.NewValidation("quantity must be a whole number").
				WithDetail("warehouse_id", l.WarehouseID)
		}
		lines = append(lines, cleanLine{warehouseID: l.WarehouseID, quantity: int(l.Quantity)})
	}
	if len(lines) == 0 {
		return date, nil, apperror.NewValidation("No valid warehouse/quantity lines provided")
	}
	return date, lines, nil
}

func warehouseIDs(lines []cleanLine) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if !slices.Contains(ids, l.warehouseID) {
			ids = append(ids, l.warehouseID)
		}
	}
	slices.Sort(ids)
	return ids
}
