package service

import (
	"context"
	"testing"

	"storefront-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem_MergesByCompositeKey(t *testing.T) {
	items := AddItem(nil, model.CartItem{ProductID: "p1", Color: "Black", Size: "M", Price: 2500, Quantity: 1})
	items = AddItem(items, model.CartItem{ProductID: "p1", Color: "Black", Size: "M", Price: 2500, Quantity: 2})

	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddItem_DifferentVariantStaysSeparate(t *testing.T) {
	items := AddItem(nil, model.CartItem{ProductID: "p1", Color: "Black", Size: "M", Quantity: 1})
	items = AddItem(items, model.CartItem{ProductID: "p1", Color: "Black", Size: "L", Quantity: 1})

	assert.Len(t, items, 2)
}

func TestSetItemQuantity_ZeroRemoves(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}

	items = SetItemQuantity(items, model.CartItem{ProductID: "p1"}.Key(), 0)

	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}

func TestRemoveItem_LeavesInputIntact(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p3", Quantity: 4},
	}

	out := RemoveItem(items, model.CartItem{ProductID: "p1"}.Key())

	require.Len(t, out, 2)
	assert.Equal(t, "p2", out[0].ProductID)
	// the caller's slice keeps its contents
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "p2", items[1].ProductID)
	assert.Equal(t, "p3", items[2].ProductID)
}

func TestCartTotals(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "p1", Price: 2500, Quantity: 2},
		{ProductID: "p2", Price: 1800, Quantity: 1},
	}

	assert.Equal(t, 3, ItemCount(items))
	assert.Equal(t, int64(6800), Subtotal(items))
}

func TestMergeCarts_UnionLocalWins(t *testing.T) {
	server := []model.CartItem{
		{ProductID: "p1", Color: "Black", Size: "M", Quantity: 1},
		{ProductID: "p2", Quantity: 4},
	}
	local := []model.CartItem{
		{ProductID: "p1", Color: "Black", Size: "M", Quantity: 3},
		{ProductID: "p3", Quantity: 1},
	}

	merged := MergeCarts(server, local)

	require.Len(t, merged, 3)
	byKey := make(map[string]model.CartItem)
	for _, item := range merged {
		byKey[item.Key()] = item
	}
	assert.Equal(t, 3, byKey[local[0].Key()].Quantity) // local wins the tie
	assert.Equal(t, 4, byKey[server[1].Key()].Quantity)
	assert.Equal(t, 1, byKey[local[1].Key()].Quantity)
}

func TestCartService_MergeWritesBack(t *testing.T) {
	cartRepo := newFakeCartRepo()
	svc := NewCartService(cartRepo)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "user-1", []model.CartItem{
		{ProductID: "p1", Price: 2500, Quantity: 2},
	}))

	merged, err := svc.Merge(ctx, "user-1", []model.CartItem{
		{ProductID: "p1", Price: 2500, Quantity: 5},
		{ProductID: "p2", Price: 1800, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Len(t, merged, 2)

	stored, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 5, stored[0].Quantity)
}

func TestCartService_PutDropsInvalidLines(t *testing.T) {
	cartRepo := newFakeCartRepo()
	svc := NewCartService(cartRepo)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "user-1", []model.CartItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "", Quantity: 1},
		{ProductID: "p2", Quantity: 0},
	}))

	stored, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "p1", stored[0].ProductID)
}
