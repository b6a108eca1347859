package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User stores accounts with role-based access.
// Role: "owner" | "manager" | "salesman"
type User struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	BusinessID   uuid.UUID `gorm:"type:char(36);not null;index"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	// CreatedBy is the owner for managers and the manager for salesmen; nil for owners.
	CreatedBy *uuid.UUID `gorm:"type:char(36);index"`
	Active    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Business *Business `gorm:"foreignKey:BusinessID"`
}

func (u *User) BeforeCreate(*gorm.DB) error { ensureID(&u.ID); return nil }
