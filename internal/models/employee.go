package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           uint            `gorm:"primaryKey"`
	FirstName    string          `gorm:"type:varchar(100);not null"`
	LastName     string          `gorm:"type:varchar(100);not null"`
	MiddleName   *string         `gorm:"type:varchar(100)"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	HireDate     time.Time       `gorm:"type:date;not null"`
	PositionID   *uint           `gorm:"index"`
	Position     *Position       `gorm:"foreignKey:PositionID;references:ID;constraint:OnDelete:SET NULL"`
	DepartmentID *uint           `gorm:"index"`
	Department   *Department     `gorm:"foreignKey:DepartmentID;references:ID;constraint:OnDelete:RESTRICT"`
	Timestamps
}
