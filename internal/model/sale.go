package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a single-product sale. DueAmount is always TotalAmount - PaidAmount,
// and PaidAmount is the running sum of the sale's profit realizations.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey"`
	BusinessID    uuid.UUID       `gorm:"type:char(36);not null;index;uniqueIndex:idx_sales_business_voucher,priority:1"`
	VoucherNumber string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_sales_business_voucher,priority:2"`
	ProductID     uuid.UUID       `gorm:"type:char(36);not null;index"`
	UserID        uuid.UUID       `gorm:"type:char(36);not null;index"`
	Quantity      int             `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Profit        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;index"`
	CustomerName  string          `gorm:"type:varchar(255)"`
	CustomerPhone string          `gorm:"type:varchar(32);index"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time

	Product      *Product            `gorm:"foreignKey:ProductID"`
	User         *User               `gorm:"foreignKey:UserID"`
	Realizations []ProfitRealization `gorm:"foreignKey:SaleID"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }

// ApplyPayment moves amount from due to paid.
func (s *Sale) ApplyPayment(amount decimal.Decimal) {
	s.PaidAmount = s.PaidAmount.Add(amount)
	s.DueAmount = s.TotalAmount.Sub(s.PaidAmount)
}
