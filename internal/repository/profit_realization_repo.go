package repository

import (
	"context"

	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfitRealizationRepository is append-only: there is no update or delete.
type ProfitRealizationRepository interface {
	CreateTx(tx *gorm.DB, r *model.ProfitRealization) error
	// SumProfitBySaleTx is read inside the payment transaction, after the sale row lock.
	SumProfitBySaleTx(tx *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProfitRealization, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]model.ProfitRealization, error)
}

type profitRealizationRepo struct{ db *gorm.DB }

func NewProfitRealizationRepository(db *gorm.DB) ProfitRealizationRepository {
	return &profitRealizationRepo{db: db}
}

func (r *profitRealizationRepo) CreateTx(tx *gorm.DB, pr *model.ProfitRealization) error {
	return tx.Omit(clause.Associations).Create(pr).Error
}

func (r *profitRealizationRepo) SumProfitBySaleTx(tx *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := tx.Model(&model.ProfitRealization{}).
		Select("COALESCE(SUM(profit_amount), 0) AS total").
		Where("sale_id = ?", saleID).
		Scan(&row).Error
	return row.Total, err
}

func (r *profitRealizationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProfitRealization, error) {
	var pr model.ProfitRealization
	err := r.db.WithContext(ctx).
		Preload("Sale.Product").Preload("Sale.User").
		First(&pr, "id = ?", id).Error
	return &pr, err
}

func (r *profitRealizationRepo) ListBySale(ctx context.Context, saleID uuid.UUID) ([]model.ProfitRealization, error) {
	var out []model.ProfitRealization
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("payment_date ASC").Find(&out).Error
	return out, err
}
