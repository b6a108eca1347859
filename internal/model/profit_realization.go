package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProfitRealization is one payment against a sale's due balance and the slice
// of the sale's profit it realizes. Rows are append-only.
type ProfitRealization struct {
	ID                   uuid.UUID       `gorm:"type:char(36);primaryKey"`
	BusinessID           uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex:idx_realizations_business_voucher,priority:1"`
	PaymentVoucherNumber string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_realizations_business_voucher,priority:2"`
	SaleID               uuid.UUID       `gorm:"type:char(36);not null;index"`
	PaymentAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProfitAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentDate          time.Time       `gorm:"not null;index"`
	RecordedBy           uuid.UUID       `gorm:"type:char(36);not null"`
	CreatedAt            time.Time

	Sale *Sale `gorm:"foreignKey:SaleID"`
}

func (r *ProfitRealization) BeforeCreate(*gorm.DB) error { ensureID(&r.ID); return nil }

func (r *ProfitRealization) BeforeUpdate(*gorm.DB) error { return ErrImmutable }
