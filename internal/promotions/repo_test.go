package promotions

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(&models.Promotion{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return conn
}

func TestFindActiveByCodeNormalizesInput(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	promo := models.Promotion{
		Code:            "SUMMER20",
		DiscountPercent: decimal.NewFromInt(20),
		IsActive:        true,
	}
	require.NoError(t, conn.Create(&promo).Error)

	found, err := repo.FindActiveByCode(ctx, "  summer20 ")
	require.NoError(t, err)
	assert.Equal(t, promo.ID, found.ID)
	assert.True(t, found.DiscountPercent.Equal(decimal.NewFromInt(20)))
}

func TestFindActiveByCodeSkipsInactive(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	promo := models.Promotion{
		Code:            "EXPIRED10",
		DiscountPercent: decimal.NewFromInt(10),
		IsActive:        false,
	}
	require.NoError(t, conn.Create(&promo).Error)

	_, err := repo.FindActiveByCode(ctx, "EXPIRED10")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindByIDReturnsInactiveRows(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	promo := models.Promotion{
		Code:            "PAUSED5",
		DiscountPercent: decimal.NewFromInt(5),
		IsActive:        false,
	}
	require.NoError(t, conn.Create(&promo).Error)

	found, err := repo.FindByID(ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAUSED5", found.Code)
	assert.False(t, found.IsActive)
}
