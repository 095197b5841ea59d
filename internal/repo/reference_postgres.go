package repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

const (
	categoriesTable = "categories"
	warehousesTable = "warehouses"
)

type namedRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// pgReferenceTable implements the name lookups shared by categories and warehouses.
type pgReferenceTable struct {
	tx      *PostgresTxManager
	builder squirrel.StatementBuilderType
	table   string
}

func (t pgReferenceTable) Names(ctx context.Context) (map[int64]string, error) {
	sql, args, err := t.builder.Select("id", "name").From(t.table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []namedRow
	if err := pgxscan.Select(ctx, t.tx.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", t.table, err)
	}

	names := make(map[int64]string, len(rows))
	for _, r := range rows {
		names[r.ID] = r.Name
	}
	return names, nil
}

func (t pgReferenceTable) CreateNamed(ctx context.Context, name string) (int64, error) {
	sql, args, err := t.builder.Insert(t.table).
		Columns("name").
		Values(name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := t.tx.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", t.table, err)
	}
	return id, nil
}

type PostgresCategoryRepository struct {
	pgReferenceTable
}

func NewPostgresCategoryRepository(tx *PostgresTxManager) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pgReferenceTable{
		tx:      tx,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		table:   categoriesTable,
	}}
}

func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	sql, args, err := r.builder.Select("id", "name", "created_at").
		From(categoriesTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []models.Category
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return categories, nil
}

type PostgresWarehouseRepository struct {
	pgReferenceTable
}

func NewPostgresWarehouseRepository(tx *PostgresTxManager) *PostgresWarehouseRepository {
	return &PostgresWarehouseRepository{pgReferenceTable{
		tx:      tx,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		table:   warehousesTable,
	}}
}

func (r *PostgresWarehouseRepository) List(ctx context.Context) ([]models.Warehouse, error) {
	sql, args, err := r.builder.Select("id", "name", "location", "created_at").
		From(warehousesTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var warehouses []models.Warehouse
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &warehouses, sql, args...); err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}
	return warehouses, nil
}
