package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

type countingRefs struct {
	repo.ReferenceRepository
	creates int
}

func (c *countingRefs) CreateNamed(ctx context.Context, name string) (int64, error) {
	c.creates++
	return c.ReferenceRepository.CreateNamed(ctx, name)
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	categories := repo.NewInMemoryCategoryRepository(store)
	toolsID, err := categories.CreateNamed(ctx, "Tools")
	require.NoError(t, err)

	refs := &countingRefs{ReferenceRepository: categories}
	r, err := NewResolver(ctx, refs, true)
	require.NoError(t, err)

	t.Run("case insensitive match on preloaded name", func(t *testing.T) {
		for _, name := range []string{"Tools", "tools", "  TOOLS "} {
			id, ok, err := r.Resolve(ctx, name)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, toolsID, id)
		}
		assert.Zero(t, refs.creates)
	})

	t.Run("missing name created once with trimmed spelling", func(t *testing.T) {
		first, ok, err := r.Resolve(ctx, "  Garden Supplies ")
		require.NoError(t, err)
		require.True(t, ok)

		second, _, err := r.Resolve(ctx, "garden supplies")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, refs.creates)

		names, err := categories.Names(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Garden Supplies", names[first])
	})

	t.Run("blank name", func(t *testing.T) {
		_, ok, err := r.Resolve(ctx, "   ")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestResolverWithoutAutoCreate(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	warehouses := repo.NewInMemoryWarehouseRepository(store)

	r, err := NewResolver(ctx, warehouses, false)
	require.NoError(t, err)

	_, ok, err := r.Resolve(ctx, "North")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := warehouses.Names(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

type failingRefs struct{ repo.ReferenceRepository }

func (failingRefs) Names(context.Context) (map[int64]string, error) {
	return nil, errors.New("connection refused")
}

func TestResolverPreloadFailure(t *testing.T) {
	_, err := NewResolver(context.Background(), failingRefs{}, true)
	assert.ErrorContains(t, err, "connection refused")
}
