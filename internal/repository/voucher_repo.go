package repository

import (
	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoucherSequenceRepository hands out per-day sequence values.
type VoucherSequenceRepository interface {
	// NextTx returns the next value for (business, prefix, day), starting at 1.
	// The counter row stays locked until tx ends, so concurrent issuers queue.
	NextTx(tx *gorm.DB, businessID uuid.UUID, prefix, day string) (int, error)
}

type voucherSequenceRepo struct{}

func NewVoucherSequenceRepository() VoucherSequenceRepository { return &voucherSequenceRepo{} }

func (r *voucherSequenceRepo) NextTx(tx *gorm.DB, businessID uuid.UUID, prefix, day string) (int, error) {
	seed := model.VoucherSequence{BusinessID: businessID, Prefix: prefix, Day: day}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}

	var seq model.VoucherSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND prefix = ? AND day = ?", businessID, prefix, day).
		First(&seq).Error
	if err != nil {
		return 0, err
	}

	seq.LastValue++
	err = tx.Model(&model.VoucherSequence{}).
		Where("business_id = ? AND prefix = ? AND day = ?", businessID, prefix, day).
		Update("last_value", seq.LastValue).Error
	return seq.LastValue, err
}
