package repository

import (
	"context"

	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	// UpdatePaymentTx persists paid_amount and due_amount.
	UpdatePaymentTx(tx *gorm.DB, s *model.Sale) error
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	// List returns a business's sales, narrowed to one seller when userID is set.
	List(ctx context.Context, businessID uuid.UUID, userID *uuid.UUID, page, limit int) ([]model.Sale, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit(clause.Associations).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("User").
		Preload("Realizations", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date ASC") }).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) UpdatePaymentTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Model(&model.Sale{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"paid_amount": s.PaidAmount,
		"due_amount":  s.DueAmount,
	}).Error
}

func (r *saleRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

func (r *saleRepo) List(ctx context.Context, businessID uuid.UUID, userID *uuid.UUID, page, limit int) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("business_id = ?", businessID)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Product").Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sales).Error
	return sales, total, err
}
