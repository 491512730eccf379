package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

// Product is a marketplace listing managed by portal admins.
type Product struct {
	gorm.Model
	Name        string          `json:"name" gorm:"size:120;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Category    string          `json:"category" gorm:"size:60;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	ImageURL    string          `json:"imageURL" gorm:"size:512"`
	Status      string          `json:"status" gorm:"size:16;default:'active';index"`
}
