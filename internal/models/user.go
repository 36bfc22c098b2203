package models

import (
	"time"
)

type User struct {
	TelegramID   int64   `gorm:"primaryKey"`
	Username     string  `gorm:"size:255"`
	FirstName    string  `gorm:"size:255"`
	LastName     string  `gorm:"size:255"`
	Balance      float64 `gorm:"not null;default:0"`
	ReferralCode string  `gorm:"size:32;uniqueIndex;not null"`
	ReferrerID   *int64  `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
