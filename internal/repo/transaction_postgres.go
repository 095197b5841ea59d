package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

const transactionsTable = "stock_transactions"

var transactionColumns = []string{
	"id", "product_id", "warehouse_id", "type", "quantity", "transaction_date",
	"source", "reference_no", "remarks", "created_by", "created_at",
}

type PostgresTransactionRepository struct {
	tx      *PostgresTxManager
	builder squirrel.StatementBuilderType
}

func NewPostgresTransactionRepository(tx *PostgresTxManager) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{
		tx:      tx,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts a new ledger entry
func (r *PostgresTransactionRepository) Append(ctx context.Context, t models.StockTransaction) (models.StockTransaction, error) {
	sql, args, err := r.builder.Insert(transactionsTable).
		Columns("product_id", "warehouse_id", "type", "quantity", "transaction_date",
			"source", "reference_no", "remarks", "created_by").
		Values(t.ProductID, t.WarehouseID, string(t.Type), t.Quantity, t.TransactionDate,
			string(t.Source), t.ReferenceNo, t.Remarks, t.CreatedBy).
		Suffix("RETURNING " + strings.Join(transactionColumns, ", ")).
		ToSql()
	if err != nil {
		return models.StockTransaction{}, fmt.Errorf("build insert: %w", err)
	}

	var created models.StockTransaction
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &created, sql, args...); err != nil {
		return models.StockTransaction{}, fmt.Errorf("failed to insert stock transaction: %w", err)
	}
	return created, nil
}

// ListByProduct returns the ledger of one product, newest first.
func (r *PostgresTransactionRepository) ListByProduct(ctx context.Context, productID int64, tf TransactionFilter) ([]models.StockTransaction, int, error) {
	if tf.Offset != nil && *tf.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	total, err := r.getTotal(ctx, productID, tf)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	if tf.Limit != nil && *tf.Limit == 0 {
		return []models.StockTransaction{}, total, nil
	}
	if tf.Offset != nil && *tf.Offset >= total {
		return []models.StockTransaction{}, total, nil
	}

	sql, args, err := r.listQuery(productID, tf).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	transactions := []models.StockTransaction{}
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &transactions, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	return transactions, total, nil
}

func (r *PostgresTransactionRepository) getTotal(ctx context.Context, productID int64, tf TransactionFilter) (int, error) {
	sql, args, err := r.builder.Select("COUNT(*)").
		From(transactionsTable).
		Where(transactionWhere(productID, tf)).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.tx.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresTransactionRepository) listQuery(productID int64, tf TransactionFilter) squirrel.SelectBuilder {
	limit := defaultLimit
	if tf.Limit != nil && *tf.Limit > 0 {
		limit = min(*tf.Limit, defaultLimit)
	}

	q := r.builder.Select(transactionColumns...).
		From(transactionsTable).
		Where(transactionWhere(productID, tf)).
		OrderBy("transaction_date DESC", "id DESC").
		Limit(uint64(limit))

	if tf.Offset != nil && *tf.Offset > 0 {
		q = q.Offset(uint64(*tf.Offset))
	}
	return q
}

func transactionWhere(productID int64, tf TransactionFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"product_id": productID}}
	if tf.WarehouseID != nil {
		where = append(where, squirrel.Eq{"warehouse_id": *tf.WarehouseID})
	}
	if tf.Type != nil {
		where = append(where, squirrel.Eq{"type": string(*tf.Type)})
	}
	if tf.Since != nil {
		where = append(where, squirrel.GtOrEq{"transaction_date": *tf.Since})
	}
	if tf.Until != nil {
		where = append(where, squirrel.LtOrEq{"transaction_date": *tf.Until})
	}
	return where
}
