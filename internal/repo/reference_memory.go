package repo

import (
	"context"
	"slices"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type InMemoryCategoryRepository struct {
	store *MemoryStore
}

func NewInMemoryCategoryRepository(store *MemoryStore) *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{store: store}
}

func (r *InMemoryCategoryRepository) Names(ctx context.Context) (map[int64]string, error) {
	var names map[int64]string
	r.store.read(func() {
		names = namesOf(r.store.categories,
			func(c models.Category) int64 { return c.ID },
			func(c models.Category) string { return c.Name })
	})
	return names, nil
}

func (r *InMemoryCategoryRepository) CreateNamed(ctx context.Context, name string) (int64, error) {
	var id int64
	r.store.write(ctx, func() {
		id = nextID(r.store.categories, func(c models.Category) int64 { return c.ID })
		r.store.categories = append(r.store.categories, models.Category{ID: id, Name: name, CreatedAt: r.store.now()})
	})
	return id, nil
}

func (r *InMemoryCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	r.store.read(func() {
		out = slices.Clone(r.store.categories)
	})
	slices.SortFunc(out, func(a, b models.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

type InMemoryWarehouseRepository struct {
	store *MemoryStore
}

func NewInMemoryWarehouseRepository(store *MemoryStore) *InMemoryWarehouseRepository {
	return &InMemoryWarehouseRepository{store: store}
}

func (r *InMemoryWarehouseRepository) Names(ctx context.Context) (map[int64]string, error) {
	var names map[int64]string
	r.store.read(func() {
		names = namesOf(r.store.warehouses,
			func(w models.Warehouse) int64 { return w.ID },
			func(w models.Warehouse) string { return w.Name })
	})
	return names, nil
}

func (r *InMemoryWarehouseRepository) CreateNamed(ctx context.Context, name string) (int64, error) {
	var id int64
	r.store.write(ctx, func() {
		id = nextID(r.store.warehouses, func(w models.Warehouse) int64 { return w.ID })
		r.store.warehouses = append(r.store.warehouses, models.Warehouse{ID: id, Name: name, CreatedAt: r.store.now()})
	})
	return id, nil
}

func (r *InMemoryWarehouseRepository) List(ctx context.Context) ([]models.Warehouse, error) {
	var out []models.Warehouse
	r.store.read(func() {
		out = slices.Clone(r.store.warehouses)
	})
	slices.SortFunc(out, func(a, b models.Warehouse) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
