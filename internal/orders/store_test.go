package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/kvstore"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/orders"
)

func TestStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	store := orders.NewStore(kvstore.NewMemory())

	list, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.Append(ctx, "2024-11-24", domain.Order{ID: "o1", CustomerName: "Jane"}))
	require.NoError(t, store.Append(ctx, "2024-11-24", domain.Order{ID: "o2", CustomerName: "Bob"}))
	require.NoError(t, store.Append(ctx, "2024-11-25", domain.Order{ID: "o3"}))

	list, err = store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o1", list[0].ID)
	assert.Equal(t, "o2", list[1].ID)

	// partitions do not bleed into each other
	other, err := store.List(ctx, "2024-11-25")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "o3", other[0].ID)
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := orders.NewStore(kvstore.NewMemory())
	require.NoError(t, store.Append(ctx, "2024-11-24", domain.Order{ID: "o1", Amount: "10"}))

	updated, err := store.Update(ctx, "2024-11-24", "o1", func(o *domain.Order) {
		o.Amount = "25"
	})
	require.NoError(t, err)
	assert.Equal(t, "25", updated.Amount)

	list, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, "25", list[0].Amount)
}

func TestStoreUpdateCheckedVetoLeavesPartitionUntouched(t *testing.T) {
	ctx := context.Background()
	store := orders.NewStore(kvstore.NewMemory())
	require.NoError(t, store.Append(ctx, "2024-11-24", domain.Order{ID: "o1", Amount: "10"}))

	veto := errors.New("rejected")
	_, err := store.UpdateChecked(ctx, "2024-11-24", "o1", func(o *domain.Order) error {
		o.Amount = "999"
		return veto
	})
	require.ErrorIs(t, err, veto)

	// the vetoed mutation was not written back
	list, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, "10", list[0].Amount)
}

func TestStoreUpdateMissingLeavesPartitionUntouched(t *testing.T) {
	ctx := context.Background()
	store := orders.NewStore(kvstore.NewMemory())
	require.NoError(t, store.Append(ctx, "2024-11-24", domain.Order{ID: "o1", Amount: "10"}))

	before, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)

	_, err = store.Update(ctx, "2024-11-24", "nope", func(o *domain.Order) {
		o.Amount = "999"
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	after, err := store.List(ctx, "2024-11-24")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
