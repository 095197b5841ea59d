package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

const productsTable = "products"

var productColumns = []string{
	"id", "code", "name", "brand", "description", "cost", "category_id",
	"grn_date", "image_url", "remarks", "created_at", "updated_at",
}

type PostgresProductRepository struct {
	tx      *PostgresTxManager
	builder squirrel.StatementBuilderType
}

func NewPostgresProductRepository(tx *PostgresTxManager) *PostgresProductRepository {
	return &PostgresProductRepository{
		tx:      tx,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (models.Product, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *PostgresProductRepository) GetByCode(ctx context.Context, code string) (models.Product, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code})
}

func (r *PostgresProductRepository) getOne(ctx context.Context, where squirrel.Eq) (models.Product, error) {
	sql, args, err := r.builder.Select(productColumns...).From(productsTable).Where(where).ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("build query: %w", err)
	}

	var p models.Product
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	sql, args, err := r.builder.Insert(productsTable).
		Columns("code", "name", "brand", "description", "cost", "category_id", "grn_date", "image_url", "remarks").
		Values(p.Code, p.Name, p.Brand, p.Description, p.Cost, p.CategoryID, p.GRNDate, p.ImageURL, p.Remarks).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("build insert: %w", err)
	}

	var created models.Product
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &created, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return created, nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	sql, args, err := r.builder.Update(productsTable).
		SetMap(map[string]any{
			"name":        p.Name,
			"brand":       p.Brand,
			"description": p.Description,
			"cost":        p.Cost,
			"category_id": p.CategoryID,
			"grn_date":    p.GRNDate,
			"image_url":   p.ImageURL,
			"remarks":     p.Remarks,
			"updated_at":  squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("build update: %w", err)
	}

	var updated models.Product
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &updated, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

func (r *PostgresProductRepository) List(ctx context.Context, pf ProductFilter) ([]models.ProductSummary, int, error) {
	countSQL, countArgs, err := applySearch(r.builder.Select("COUNT(*)").From(productsTable+" p"), pf.Search).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := r.tx.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	if pf.Offset != nil && *pf.Offset >= total {
		return []models.ProductSummary{}, total, nil
	}

	sql, args, err := r.listQuery(pf).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	products := []models.ProductSummary{}
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select products: %w", err)
	}
	return products, total, nil
}

// applySearch adds a case-insensitive match on name or code.
func applySearch(q squirrel.SelectBuilder, search string) squirrel.SelectBuilder {
	if search == "" {
		return q
	}
	pattern := "%" + search + "%"
	return q.Where(squirrel.Or{squirrel.ILike{"p.name": pattern}, squirrel.ILike{"p.code": pattern}})
}

func (r *PostgresProductRepository) listQuery(pf ProductFilter) squirrel.SelectBuilder {
	limit := defaultLimit
	if pf.Limit != nil && *pf.Limit > 0 {
		limit = min(*pf.Limit, defaultLimit)
	}

	q := r.builder.Select(
		"p.id", "p.code", "p.name", "p.brand", "p.cost", "p.category_id",
		"c.name AS category_name",
		"COALESCE(SUM(s.quantity), 0) AS total_stock",
	).
		From(productsTable + " p").
		LeftJoin(categoriesTable + " c ON c.id = p.category_id").
		LeftJoin(stocksTable + " s ON s.product_id = p.id")
	q = applySearch(q, pf.Search).
		GroupBy("p.id", "c.name").
		OrderBy("p.id").
		Limit(uint64(limit))

	if pf.Offset != nil && *pf.Offset > 0 {
		q = q.Offset(uint64(*pf.Offset))
	}
	return q
}
