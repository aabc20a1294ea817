package models

type Department struct {
	ID       uint        `gorm:"primaryKey"`
	Title    string      `gorm:"type:varchar(100);not null"`
	ParentID *uint       `gorm:"index"`
	Parent   *Department `gorm:"foreignKey:ParentID;references:ID;constraint:OnDelete:RESTRICT"`
	// Path is the slash separated chain of ancestor ids ending with ID, e.g. "1/4/9".
	Path string `gorm:"type:varchar(255);not null;default:'';index"`
	// Depth is 1 for roots.
	Depth int `gorm:"not null;default:1"`
	Timestamps
}
