package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
)

func TestMergeAddInsertsAndMerges(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	store := mustCreateTestStore(t, conn, user.ID)
	product := mustCreateTestProduct(t, conn, store.ID, 10)

	merged, err := repo.MergeAdd(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	require.True(t, merged)

	merged, err = repo.MergeAdd(ctx, user.ID, product.ID, 4)
	require.NoError(t, err)
	require.True(t, merged)

	var items []models.CartItem
	require.NoError(t, conn.Where("user_id = ?", user.ID).Find(&items).Error)
	require.Len(t, items, 1, "adds for the same product must merge into one line")
	assert.Equal(t, 7, items[0].Quantity)
}

func TestMergeAddGuardsPostMergeTotal(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	store := mustCreateTestStore(t, conn, user.ID)
	product := mustCreateTestProduct(t, conn, store.ID, 5)

	merged, err := repo.MergeAdd(ctx, user.ID, product.ID, 4)
	require.NoError(t, err)
	require.True(t, merged)

	// 4 + 2 exceeds the stock of 5: the guarded upsert must reject the merge
	// and leave the existing line untouched.
	merged, err = repo.MergeAdd(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, merged)

	var item models.CartItem
	require.NoError(t, conn.First(&item, "user_id = ?", user.ID).Error)
	assert.Equal(t, 4, item.Quantity)
}

func TestMergeAddRejectsMissingProduct(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	store := mustCreateTestStore(t, conn, user.ID)
	product := mustCreateTestProduct(t, conn, store.ID, 5)
	require.NoError(t, conn.Delete(&models.Product{}, "id = ?", product.ID).Error)

	merged, err := repo.MergeAdd(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	assert.False(t, merged)
}

func TestSetQuantityGuardsStock(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	store := mustCreateTestStore(t, conn, user.ID)
	product := mustCreateTestProduct(t, conn, store.ID, 5)

	merged, err := repo.MergeAdd(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.True(t, merged)

	var item models.CartItem
	require.NoError(t, conn.First(&item, "user_id = ?", user.ID).Error)

	ok, err := repo.SetQuantity(ctx, item.ID, user.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetQuantity(ctx, item.ID, user.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok, "absolute quantity above stock must be rejected")

	require.NoError(t, conn.First(&item, "id = ?", item.ID).Error)
	assert.Equal(t, 5, item.Quantity)
}

func TestSetQuantityScopedToUser(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	owner := mustCreateTestUser(t, conn)
	other := mustCreateTestUser(t, conn)
	store := mustCreateTestStore(t, conn, owner.ID)
	product := mustCreateTestProduct(t, conn, store.ID, 10)

	merged, err := repo.MergeAdd(ctx, owner.ID, product.ID, 2)
	require.NoError(t, err)
	require.True(t, merged)

	var item models.CartItem
	require.NoError(t, conn.First(&item, "user_id = ?", owner.ID).Error)

	ok, err := repo.SetQuantity(ctx, item.ID, other.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok, "another user's item id must not be writable")
}

func TestDeleteItemAndClear(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	store := mustCreateTestStore(t, conn, user.ID)
	first := mustCreateTestProduct(t, conn, store.ID, 10)
	second := mustCreateTestProduct(t, conn, store.ID, 10)

	_, err := repo.MergeAdd(ctx, user.ID, first.ID, 1)
	require.NoError(t, err)
	_, err = repo.MergeAdd(ctx, user.ID, second.ID, 2)
	require.NoError(t, err)

	var item models.CartItem
	require.NoError(t, conn.First(&item, "user_id = ? AND product_id = ?", user.ID, first.ID).Error)

	removed, err := repo.DeleteItem(ctx, item.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteItem(ctx, item.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete has nothing to remove")

	require.NoError(t, repo.DeleteAllForUser(ctx, user.ID))

	var count int64
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListItemsWithProductsKeepsOrphans(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn)
	store := mustCreateTestStore(t, conn, user.ID)
	kept := mustCreateTestProduct(t, conn, store.ID, 10)
	dropped := mustCreateTestProduct(t, conn, store.ID, 10)

	_, err := repo.MergeAdd(ctx, user.ID, kept.ID, 1)
	require.NoError(t, err)
	_, err = repo.MergeAdd(ctx, user.ID, dropped.ID, 2)
	require.NoError(t, err)

	require.NoError(t, conn.Delete(&models.Product{}, "id = ?", dropped.ID).Error)

	items, err := repo.ListItemsWithProducts(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2, "the orphaned line must survive the product delete")

	var orphan *models.CartItem
	for i := range items {
		if items[i].ProductID == dropped.ID {
			orphan = &items[i]
		}
	}
	require.NotNil(t, orphan)
	assert.Nil(t, orphan.Product)
}
