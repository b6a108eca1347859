package repository

import (
	"context"

	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockEntryRepository is append-only: there is no update or delete.
type StockEntryRepository interface {
	CreateTx(tx *gorm.DB, e *model.StockEntry) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockEntry, int64, error)
}

type stockEntryRepo struct{ db *gorm.DB }

func NewStockEntryRepository(db *gorm.DB) StockEntryRepository { return &stockEntryRepo{db: db} }

func (r *stockEntryRepo) CreateTx(tx *gorm.DB, e *model.StockEntry) error {
	return tx.Create(e).Error
}

func (r *stockEntryRepo) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockEntry, int64, error) {
	var entries []model.StockEntry
	var total int64
	q := r.db.WithContext(ctx).Model(&model.StockEntry{}).Where("product_id = ?", productID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}
