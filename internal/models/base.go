package models

import "time"

// Timestamps holds the audit fields maintained by gorm on every record.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}
