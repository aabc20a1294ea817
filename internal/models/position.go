package models

type Position struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"type:varchar(200);not null"`
	Timestamps
}
