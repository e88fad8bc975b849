package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ShriHariStore/internal/catalog"
	"ShriHariStore/internal/kvstore"
)

func testProduct(id string, price float64) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    price,
		Category: catalog.CategorySarees,
		InStock:  true,
	}
}

func newCartStore(t *testing.T) (*Store, *kvstore.MemStore) {
	t.Helper()

	kv := kvstore.NewMemStore()
	s, err := NewStore(context.Background(), kv, zap.NewNop())
	require.NoError(t, err)
	return s, kv
}

func TestStore_AddAndTotals(t *testing.T) {
	s, _ := newCartStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, testProduct("p1", 100), 2, "M", "Red"))
	require.NoError(t, s.Add(ctx, testProduct("p2", 250), 1, "", ""))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, s.TotalItems())
	assert.Equal(t, 450.0, s.TotalPrice())
}

func TestStore_AddMergesSameLine(t *testing.T) {
	s, _ := newCartStore(t)
	ctx := context.Background()

	p := testProduct("p1", 100)
	require.NoError(t, s.Add(ctx, p, 1, "M", "Red"))
	require.NoError(t, s.Add(ctx, p, 2, "M", "Red"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	// a different size is a separate line
	require.NoError(t, s.Add(ctx, p, 1, "L", "Red"))
	assert.Len(t, s.Items(), 2)
}

func TestStore_AddClampsQuantity(t *testing.T) {
	s, _ := newCartStore(t)

	require.NoError(t, s.Add(context.Background(), testProduct("p1", 100), 0, "", ""))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestStore_UpdateQuantity(t *testing.T) {
	s, _ := newCartStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, testProduct("p1", 100), 2, "M", ""))

	require.NoError(t, s.UpdateQuantity(ctx, "p1", 5, "M", ""))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	// quantity below one removes the line
	require.NoError(t, s.UpdateQuantity(ctx, "p1", 0, "M", ""))
	assert.Empty(t, s.Items())
}

func TestStore_Remove(t *testing.T) {
	s, _ := newCartStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, testProduct("p1", 100), 1, "M", "Red"))
	require.NoError(t, s.Add(ctx, testProduct("p1", 100), 1, "L", "Red"))

	require.NoError(t, s.Remove(ctx, "p1", "M", "Red"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "L", items[0].SelectedSize)

	// removing a line that does not exist is a no-op
	require.NoError(t, s.Remove(ctx, "p9", "", ""))
	assert.Len(t, s.Items(), 1)
}

func TestStore_Clear(t *testing.T) {
	s, _ := newCartStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, testProduct("p1", 100), 1, "", ""))
	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItems())
}

func TestStore_SurvivesReload(t *testing.T) {
	s, kv := newCartStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, testProduct("p1", 199), 2, "M", "Blue"))

	s2, err := NewStore(ctx, kv, zap.NewNop())
	require.NoError(t, err)

	items := s2.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Blue", items[0].SelectedColor)
	assert.Equal(t, 398.0, s2.TotalPrice())
}

func TestStore_UnreadableCartStartsEmpty(t *testing.T) {
	kv := kvstore.NewMemStore()
	require.NoError(t, kv.Set(context.Background(), keyCart, "[broken"))

	s, err := NewStore(context.Background(), kv, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, s.Items())
}
