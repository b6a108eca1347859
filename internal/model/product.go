package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a stocked item. CurrentStock never goes below zero and only
// changes through stock entries or sales.
type Product struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey"`
	BusinessID    uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex:idx_products_business_sku,priority:1"`
	SKU           string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex:idx_products_business_sku,priority:2"`
	Name          string          `gorm:"type:varchar(255);index;not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CurrentStock  int             `gorm:"not null;default:0"`
	CreatedBy     uuid.UUID       `gorm:"type:char(36);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Product) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }

// StockValue is current stock valued at purchase price.
func (p *Product) StockValue() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}
