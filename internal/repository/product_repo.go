package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockUnderflow is returned when a stock delta would take a product below zero.
var ErrStockUnderflow = errors.New("stock would go negative")

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, businessID uuid.UUID, sku string) (*model.Product, error)
	// SKUExists checks uniqueness within a business, ignoring excludeID when set.
	SKUExists(ctx context.Context, businessID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, businessID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)

	// Used inside transactions; callers must pass the tx instance
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	UpdateDetailsTx(tx *gorm.DB, p *model.Product) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	// UpdateStockTx applies delta atomically; ErrStockUnderflow when the result would be negative.
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindBySKU(ctx context.Context, businessID uuid.UUID, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("business_id = ? AND sku = ?", businessID, sku).First(&p).Error
	return &p, err
}

func (r *productRepo) SKUExists(ctx context.Context, businessID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("business_id = ? AND sku = ?", businessID, sku)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *productRepo) List(ctx context.Context, businessID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("business_id = ?", businessID)
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) UpdateDetailsTx(tx *gorm.DB, p *model.Product) error {
	return tx.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":           p.Name,
		"sku":            p.SKU,
		"purchase_price": p.PurchasePrice,
		"sell_price":     p.SellPrice,
	}).Error
}

func (r *productRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND current_stock + ? >= 0", id, delta).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockUnderflow
	}
	return nil
}

func (r *productRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}
