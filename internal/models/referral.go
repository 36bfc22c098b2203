package models

import (
	"time"
)

// ReferralEdge records that ReferrerID invited ReferredID. The unique index
// on ReferredID guarantees a user can be referred at most once.
type ReferralEdge struct {
	ID         uint  `gorm:"primaryKey"`
	ReferrerID int64 `gorm:"not null;index"`
	ReferredID int64 `gorm:"not null;uniqueIndex"`
	BonusPaid  bool  `gorm:"not null;default:false"`
	CreatedAt  time.Time
}
