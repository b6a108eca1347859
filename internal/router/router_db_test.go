package router

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/config"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/infra"
	"github.com/gsagg03-cmyk/erpx/internal/model"
	"github.com/gsagg03-cmyk/erpx/internal/service"
	"github.com/gsagg03-cmyk/erpx/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteServices wires the real repositories over a migrated SQLite file
// with foreign keys enforced. Redis is absent: the cache degrades to misses.
func newSQLiteServices(t *testing.T) (*Services, *gorm.DB, authz.Actor) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    2,
		PDFStoragePath:     t.TempDir(),
		Timezone:           "UTC",
	}
	svcs := NewServices(cfg, db, nil, worker.NewDispatcher(nil))

	reg, err := svcs.Auth.RegisterOwner(context.Background(), dto.RegisterOwnerRequest{
		BusinessName: "Rahim Traders", Name: "Rahim", Username: "rahim", Password: "password1",
	})
	require.NoError(t, err)
	owner := authz.Actor{
		BusinessID: uuid.MustParse(reg.User.BusinessID),
		UserID:     uuid.MustParse(reg.User.ID),
		Role:       authz.RoleOwner,
	}
	return svcs, db, owner
}

func TestProductDelete_EmptiedProductKeepsStockLedger(t *testing.T) {
	svcs, db, owner := newSQLiteServices(t)
	ctx := context.Background()

	p, err := svcs.Products.Create(ctx, owner, dto.CreateProductRequest{
		Name: "Rice 5kg", SKU: "RICE-5", PurchasePrice: decimal.NewFromInt(400), SellPrice: decimal.NewFromInt(450), OpeningStock: 3,
	})
	require.NoError(t, err)
	id := uuid.MustParse(p.ID)

	_, err = svcs.Inventory.AdjustStock(ctx, owner, id, dto.AdjustStockRequest{Direction: "decrease", Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, svcs.Products.Delete(ctx, owner, id))

	_, err = svcs.Products.Get(ctx, owner, id)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))

	var entries int64
	require.NoError(t, db.Model(&model.StockEntry{}).Where("product_id = ?", id).Count(&entries).Error)
	assert.EqualValues(t, 2, entries)

	// The SKU is free again once the product is gone.
	_, err = svcs.Products.Create(ctx, owner, dto.CreateProductRequest{
		Name: "Rice 5kg", SKU: "RICE-5", PurchasePrice: decimal.NewFromInt(400), SellPrice: decimal.NewFromInt(450),
	})
	assert.NoError(t, err)
}

func TestProductDelete_StockedProductRejectedOnRealSchema(t *testing.T) {
	svcs, _, owner := newSQLiteServices(t)
	ctx := context.Background()

	p, err := svcs.Products.Create(ctx, owner, dto.CreateProductRequest{
		Name: "Oil 1L", SKU: "OIL-1", PurchasePrice: decimal.NewFromInt(150), SellPrice: decimal.NewFromInt(170), OpeningStock: 1,
	})
	require.NoError(t, err)

	err = svcs.Products.Delete(ctx, owner, uuid.MustParse(p.ID))
	assert.Equal(t, service.KindValidation, service.KindOf(err))
	var se *service.Error
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, service.ReasonHasStock)
}
