package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a dated cash outflow, independent of sales.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey"`
	BusinessID  uuid.UUID       `gorm:"type:char(36);not null;index"`
	Category    string          `gorm:"type:varchar(64);not null"`
	Description string          `gorm:"type:varchar(500)"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpenseDate time.Time       `gorm:"not null;index"`
	RecordedBy  uuid.UUID       `gorm:"type:char(36);not null"`
	CreatedAt   time.Time
}

func (e *Expense) BeforeCreate(*gorm.DB) error { ensureID(&e.ID); return nil }
