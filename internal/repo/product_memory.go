package repo

import (
	"context"
	"slices"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type InMemoryProductRepository struct {
	store *MemoryStore
}

func NewInMemoryProductRepository(store *MemoryStore) *InMemoryProductRepository {
	return &InMemoryProductRepository{store: store}
}

func (r *InMemoryProductRepository) GetByID(ctx context.Context, id int64) (models.Product, error) {
	return r.find(func(p models.Product) bool { return p.ID == id })
}

func (r *InMemoryProductRepository) GetByCode(ctx context.Context, code string) (models.Product, error) {
	return r.find(func(p models.Product) bool { return p.Code == code })
}

func (r *InMemoryProductRepository) find(match func(models.Product) bool) (models.Product, error) {
	var (
		found models.Product
		ok    bool
	)
	r.store.read(func() {
		i := slices.IndexFunc(r.store.products, match)
		if i >= 0 {
			found, ok = r.store.products[i], true
		}
	})
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return found, nil
}

func (r *InMemoryProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	var err error
	r.store.write(ctx, func() {
		if slices.ContainsFunc(r.store.products, func(e models.Product) bool { return e.Code == p.Code }) {
			err = ErrDuplicatedValueUnique
			return
		}
		p.ID = nextID(r.store.products, func(e models.Product) int64 { return e.ID })
		p.CreatedAt = r.store.now()
		p.UpdatedAt = p.CreatedAt
		r.store.products = append(r.store.products, p)
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *InMemoryProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	var err error
	r.store.write(ctx, func() {
		i := slices.IndexFunc(r.store.products, func(e models.Product) bool { return e.ID == p.ID })
		if i < 0 {
			err = ErrProductNotFound
			return
		}
		p.Code = r.store.products[i].Code
		p.CreatedAt = r.store.products[i].CreatedAt
		p.UpdatedAt = r.store.now()
		r.store.products[i] = p
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *InMemoryProductRepository) List(ctx context.Context, pf ProductFilter) ([]models.ProductSummary, int, error) {
	filtered := []models.ProductSummary{}
	search := strings.ToLower(pf.Search)

	r.store.read(func() {
		categories := namesOf(r.store.categories,
			func(c models.Category) int64 { return c.ID },
			func(c models.Category) string { return c.Name })

		for _, p := range r.store.products {
			if search != "" &&
				!strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Code), search) {
				continue
			}
			summary := models.ProductSummary{
				ID:         p.ID,
				Code:       p.Code,
				Name:       p.Name,
				Brand:      p.Brand,
				Cost:       p.Cost,
				CategoryID: p.CategoryID,
			}
			if p.CategoryID != nil {
				if name, ok := categories[*p.CategoryID]; ok {
					summary.CategoryName = &name
				}
			}
			for _, s := range r.store.stocks {
				if s.ProductID == p.ID {
					summary.TotalStock += s.Quantity
				}
			}
			filtered = append(filtered, summary)
		}
	})

	start := 0
	if pf.Offset != nil {
		start = clamp(*pf.Offset, 0, len(filtered))
	}

	limit := defaultLimit
	if pf.Limit != nil && *pf.Limit > 0 {
		limit = min(*pf.Limit, defaultLimit)
	}
	end := clamp(start+limit, start, len(filtered))

	return filtered[start:end], len(filtered), nil
}
