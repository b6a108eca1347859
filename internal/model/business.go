package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is the tenant boundary. Every product, user, sale and expense
// belongs to exactly one business.
type Business struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"not null"`
	Email     *string   // voucher emails are sent here when set
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Business) BeforeCreate(*gorm.DB) error { ensureID(&b.ID); return nil }
