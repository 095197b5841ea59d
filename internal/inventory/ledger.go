package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/apperror"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// Movement is one change to the stock of a (product, warehouse) pair.
type Movement struct {
	ProductID   int64
	WarehouseID int64
	Type        models.TransactionType
	Quantity    int
	Date        time.Time
	Source      models.TransactionSource
	ReferenceNo *string
	Remarks     *string
	ActorID     *int64
}

type MovementResult struct {
	Stock        models.Stock
	Transaction  models.StockTransaction
	StockCreated bool
}

// Ledger applies movements. Every quantity change is written together with
// exactly one ledger entry in the same unit of work.
type Ledger struct {
	tx           repo.TxManager
	stocks       repo.StockRepository
	transactions repo.TransactionRepository
}

func NewLedger(tx repo.TxManager, stocks repo.StockRepository, transactions repo.TransactionRepository) *Ledger {
	return &Ledger{tx: tx, stocks: stocks, transactions: transactions}
}

// ApplyMovement locks the pair and applies m. IN movements create the stock
// row on first use. OUT movements fail with NO_STOCK_ROW when the pair has no
// row and with INSUFFICIENT_STOCK when the quantity would go negative. When
// ctx already carries a unit of work, the movement joins it.
func (l *Ledger) ApplyMovement(ctx context.Context, m Movement) (MovementResult, error) {
	// Checked before locking so a refused IN never leaves a fresh empty row.
	if err := checkMovementQuantity(m); err != nil {
		return MovementResult{}, err
	}

	var res MovementResult
	err := l.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var (
			stock   models.Stock
			created bool
			err     error
		)
		switch m.Type {
		case models.TransactionIn:
			stock, created, err = l.stocks.LockOrCreate(ctx, m.ProductID, m.WarehouseID)
			if err != nil {
				return fmt.Errorf("lock stock: %w", err)
			}
		case models.TransactionOut:
			locked, err := l.stocks.LockForProduct(ctx, m.ProductID, []int64{m.WarehouseID})
			if err != nil {
				return fmt.Errorf("lock stock: %w", err)
			}
			var ok bool
			if stock, ok = locked[m.WarehouseID]; !ok {
				return apperror.NewNoStockRow(m.ProductID, m.WarehouseID)
			}
		default:
			return apperror.NewValidation(fmt.Sprintf("unknown movement type %q", m.Type))
		}

		res, err = l.applyToLocked(ctx, stock, m)
		res.StockCreated = created
		return err
	})
	if err != nil {
		return MovementResult{}, err
	}
	return res, nil
}

// applyToLocked writes m against a stock row the caller holds locked.
func (l *Ledger) applyToLocked(ctx context.Context, stock models.Stock, m Movement) (MovementResult, error) {
	if err := checkMovementQuantity(m); err != nil {
		return MovementResult{}, err
	}

	next := stock.Quantity + m.Quantity
	if m.Type == models.TransactionOut {
		next = stock.Quantity - m.Quantity
	}
	if next < 0 {
		return MovementResult{}, apperror.NewInsufficientStock(m.WarehouseID, m.Quantity, stock.Quantity)
	}
	if next > maxQuantity {
		return MovementResult{}, exceedsMaxStock(m)
	}

	updated, err := l.stocks.SetQuantity(ctx, stock.ID, next)
	if err != nil {
		return MovementResult{}, fmt.Errorf("update stock: %w", err)
	}

	entry, err := l.transactions.Append(ctx, models.StockTransaction{
		ProductID:       m.ProductID,
		WarehouseID:     m.WarehouseID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		TransactionDate: m.Date,
		Source:          m.Source,
		ReferenceNo:     m.ReferenceNo,
		Remarks:         m.Remarks,
		CreatedBy:       m.ActorID,
	})
	if err != nil {
		return MovementResult{}, fmt.Errorf("append ledger entry: %w", err)
	}

	return MovementResult{Stock: updated, Transaction: entry}, nil
}

func checkMovementQuantity(m Movement) error {
	if m.Quantity <= 0 {
		return apperror.NewValidation("quantity must be greater than zero")
	}
	if m.Quantity > maxQuantity {
		return exceedsMaxStock(m)
	}
	return nil
}

func exceedsMaxStock(m Movement) *apperror.AppError {
	return apperror.NewValidation("quantity would exceed the maximum stock level").
		WithDetail("warehouse_id", m.WarehouseID)
}
