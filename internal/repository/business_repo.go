package repository

import (
	"context"

	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	CreateTx(tx *gorm.DB, b *model.Business) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
	DB() *gorm.DB
}

type businessRepo struct{ db *gorm.DB }

func NewBusinessRepository(db *gorm.DB) BusinessRepository { return &businessRepo{db: db} }

func (r *businessRepo) DB() *gorm.DB { return r.db }

func (r *businessRepo) CreateTx(tx *gorm.DB, b *model.Business) error {
	return tx.Create(b).Error
}

func (r *businessRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var b model.Business
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}
