package repository

import (
	"context"

	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	CreateTx(tx *gorm.DB, u *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// ListByBusiness lists a business's users; createdBy narrows to one creator.
	ListByBusiness(ctx context.Context, businessID uuid.UUID, createdBy *uuid.UUID) ([]model.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) CreateTx(tx *gorm.DB, u *model.User) error {
	return tx.Create(u).Error
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	// Accept login by username OR email (case-insensitive email match)
	err := r.db.WithContext(ctx).
		Where("(username = ? OR LOWER(email) = LOWER(?)) AND active = ?", username, username, true).
		First(&u).Error
	return &u, err
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *userRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *userRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, createdBy *uuid.UUID) ([]model.User, error) {
	var users []model.User
	q := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if createdBy != nil {
		q = q.Where("created_by = ?", *createdBy)
	}
	err := q.Order("role ASC, name ASC").Find(&users).Error
	return users, err
}
