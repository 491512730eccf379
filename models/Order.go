package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderStatuses is the closed set accepted by the admin status update.
var OrderStatuses = []string{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled}

type Order struct {
	gorm.Model
	Reference string `json:"reference" gorm:"size:36;uniqueIndex;not null"`
	UserID    uint   `json:"userID" gorm:"not null;index"`
	User      User   `json:"-" gorm:"foreignKey:UserID"`

	Items []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Total decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`

	Status string `json:"status" gorm:"size:16;default:'pending';index"`

	// Delivery details captured at checkout. Payment is on delivery;
	// there is no gateway integration.
	Phone   string `json:"phone" gorm:"size:20"`
	Address string `json:"address" gorm:"size:256"`
}

type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"orderID" gorm:"not null;index"`
	ProductID uint    `json:"productID" gorm:"not null;index"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`

	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unitPrice" gorm:"type:numeric(12,2);not null"`
}
