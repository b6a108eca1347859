package model

import (
	"errors"

	"github.com/google/uuid"
)

// ErrImmutable is returned by hooks of append-only ledgers.
var ErrImmutable = errors.New("ledger rows are immutable")

// VoucherSequence is the per-day counter behind voucher numbers.
// The row is locked FOR UPDATE while a number is issued.
type VoucherSequence struct {
	BusinessID uuid.UUID `gorm:"type:char(36);primaryKey"`
	Prefix     string    `gorm:"type:varchar(8);primaryKey"`
	Day        string    `gorm:"type:char(8);primaryKey"` // YYYYMMDD
	LastValue  int       `gorm:"not null;default:0"`
}
