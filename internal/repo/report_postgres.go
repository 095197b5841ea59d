package repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type PostgresReportRepository struct {
	tx      *PostgresTxManager
	builder squirrel.StatementBuilderType
}

func NewPostgresReportRepository(tx *PostgresTxManager) *PostgresReportRepository {
	return &PostgresReportRepository{
		tx:      tx,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PostgresReportRepository) LowStock(ctx context.Context, threshold int) ([]models.LowStockItem, error) {
	sql, args, err := r.lowStockQuery(threshold).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []models.LowStockItem{}
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select low stock: %w", err)
	}
	return items, nil
}

func (r *PostgresReportRepository) lowStockQuery(threshold int) squirrel.SelectBuilder {
	return r.builder.Select(
		"p.id AS product_id",
		"p.code AS product_code",
		"p.name AS product_name",
		"SUM(s.quantity) AS quantity",
	).
		From(stocksTable + " s").
		Join(productsTable + " p ON p.id = s.product_id").
		Where(squirrel.Lt{"s.quantity": threshold}).
		GroupBy("p.id", "p.code", "p.name").
		OrderBy("quantity ASC", "p.id")
}

func (r *PostgresReportRepository) Dashboard(ctx context.Context, threshold int) (models.DashboardStats, error) {
	var m models.DashboardStats
	q := r.tx.GetQuerier(ctx)

	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&m.TotalProducts); err != nil {
		return m, fmt.Errorf("count products: %w", err)
	}
	if err := q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM stocks`).Scan(&m.TotalStock); err != nil {
		return m, fmt.Errorf("sum stock: %w", err)
	}
	if err := q.QueryRow(ctx, `SELECT COUNT(DISTINCT product_id) FROM stocks WHERE quantity < $1`, threshold).Scan(&m.LowStockCount); err != nil {
		return m, fmt.Errorf("count low stock: %w", err)
	}
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&m.CategoryCount); err != nil {
		return m, fmt.Errorf("count categories: %w", err)
	}
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM warehouses`).Scan(&m.WarehouseCount); err != nil {
		return m, fmt.Errorf("count warehouses: %w", err)
	}
	return m, nil
}

const discrepanciesQuery = `
	SELECT s.product_id, s.warehouse_id, s.quantity AS stock_quantity,
	       COALESCE(l.net, 0) AS ledger_quantity
	FROM stocks s
	LEFT JOIN (
		SELECT product_id, warehouse_id,
		       SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END) AS net
		FROM stock_transactions
		GROUP BY product_id, warehouse_id
	) l ON l.product_id = s.product_id AND l.warehouse_id = s.warehouse_id
	WHERE s.quantity <> COALESCE(l.net, 0)
	ORDER BY s.product_id, s.warehouse_id
`

func (r *PostgresReportRepository) Discrepancies(ctx context.Context) ([]models.Discrepancy, error) {
	rows := []models.Discrepancy{}
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &rows, discrepanciesQuery); err != nil {
		return nil, fmt.Errorf("select discrepancies: %w", err)
	}
	return rows, nil
}
