package models

import "time"

// Division is a Divisional Secretariat division.
type Division struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:120;not null"`
	Code     string `json:"code" gorm:"size:20;uniqueIndex"`
	District string `json:"district" gorm:"size:80;index"`

	GNDivisions []GNDivision `json:"gnDivisions,omitempty" gorm:"foreignKey:DivisionID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GNDivision is a Grama Niladhari division inside a Division.
type GNDivision struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	DivisionID uint     `json:"divisionID" gorm:"not null;index"`
	Division   Division `json:"-" gorm:"foreignKey:DivisionID"`
	Name       string   `json:"name" gorm:"size:120;not null"`
	Code       string   `json:"code" gorm:"size:20;uniqueIndex"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
