package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

const stocksTable = "stocks"

var stockColumns = []string{"id", "product_id", "warehouse_id", "quantity", "created_at", "updated_at"}

type PostgresStockRepository struct {
	tx      *PostgresTxManager
	builder squirrel.StatementBuilderType
}

func NewPostgresStockRepository(tx *PostgresTxManager) *PostgresStockRepository {
	return &PostgresStockRepository{
		tx:      tx,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PostgresStockRepository) LockOrCreate(ctx context.Context, productID, warehouseID int64) (models.Stock, bool, error) {
	sql, args, err := r.insertIfMissing(productID, warehouseID).ToSql()
	if err != nil {
		return models.Stock{}, false, fmt.Errorf("build insert: %w", err)
	}

	// A concurrent insert of the same pair blocks on the unique index until
	// the other unit of work ends, then does nothing.
	created := true
	var id int64
	if err := r.tx.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return models.Stock{}, false, fmt.Errorf("insert stock: %w", err)
		}
		created = false
	}

	locked, err := r.LockForProduct(ctx, productID, []int64{warehouseID})
	if err != nil {
		return models.Stock{}, false, err
	}
	stock, ok := locked[warehouseID]
	if !ok {
		return models.Stock{}, false, ErrStockNotFound
	}
	return stock, created, nil
}

func (r *PostgresStockRepository) insertIfMissing(productID, warehouseID int64) squirrel.InsertBuilder {
	return r.builder.Insert(stocksTable).
		Columns("product_id", "warehouse_id", "quantity").
		Values(productID, warehouseID, 0).
		Suffix("ON CONFLICT (product_id, warehouse_id) DO NOTHING RETURNING id")
}

func (r *PostgresStockRepository) LockForProduct(ctx context.Context, productID int64, warehouseIDs []int64) (map[int64]models.Stock, error) {
	if len(warehouseIDs) == 0 {
		return map[int64]models.Stock{}, nil
	}

	sql, args, err := r.lockQuery(productID, warehouseIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []models.Stock
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("lock stock rows: %w", err)
	}

	locked := make(map[int64]models.Stock, len(rows))
	for _, s := range rows {
		locked[s.WarehouseID] = s
	}
	return locked, nil
}

// lockQuery orders by warehouse id so concurrent requests lock rows in the same order.
func (r *PostgresStockRepository) lockQuery(productID int64, warehouseIDs []int64) squirrel.SelectBuilder {
	return r.builder.Select(stockColumns...).
		From(stocksTable).
		Where(squirrel.Eq{"product_id": productID, "warehouse_id": warehouseIDs}).
		OrderBy("warehouse_id").
		Suffix("FOR UPDATE")
}

func (r *PostgresStockRepository) SetQuantity(ctx context.Context, stockID int64, quantity int) (models.Stock, error) {
	sql, args, err := r.builder.Update(stocksTable).
		Set("quantity", quantity).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": stockID}).
		Suffix("RETURNING id, product_id, warehouse_id, quantity, created_at, updated_at").
		ToSql()
	if err != nil {
		return models.Stock{}, fmt.Errorf("build update: %w", err)
	}

	var s models.Stock
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return models.Stock{}, ErrStockNotFound
		}
		return models.Stock{}, fmt.Errorf("update stock: %w", err)
	}
	return s, nil
}

func (r *PostgresStockRepository) ListByProduct(ctx context.Context, productID int64) ([]models.WarehouseStock, error) {
	sql, args, err := r.builder.Select(
		"s.warehouse_id",
		"w.name AS warehouse_name",
		"w.location",
		"s.quantity AS available_quantity",
	).
		From(stocksTable + " s").
		Join(warehousesTable + " w ON w.id = s.warehouse_id").
		Where(squirrel.Eq{"s.product_id": productID}).
		OrderBy("w.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := []models.WarehouseStock{}
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select stock by warehouse: %w", err)
	}
	return rows, nil
}
