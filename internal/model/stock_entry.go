package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock entry kinds.
const (
	StockReceive        = "receive"
	StockAdjustIncrease = "adjust_increase"
	StockAdjustDecrease = "adjust_decrease"
)

// StockEntry records one change of a product's stock. Rows are append-only
// and outlive the product: there is no foreign key to products, so deleting
// an emptied product keeps its history.
type StockEntry struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey"`
	BusinessID    uuid.UUID       `gorm:"type:char(36);not null;index"`
	ProductID     uuid.UUID       `gorm:"type:char(36);not null;index"`
	Kind          string          `gorm:"type:varchar(20);not null"`
	Quantity      int             `gorm:"not null"` // positive = in, negative = correction out
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockBefore   int             `gorm:"not null"`
	StockAfter    int             `gorm:"not null"`
	Note          string
	AddedBy       uuid.UUID `gorm:"type:char(36);not null"`
	CreatedAt     time.Time
}

func (e *StockEntry) BeforeCreate(*gorm.DB) error { ensureID(&e.ID); return nil }

// BeforeUpdate keeps the ledger append-only.
func (e *StockEntry) BeforeUpdate(*gorm.DB) error { return ErrImmutable }
