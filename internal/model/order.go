package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a checkout. UserID is nil for guest orders.
type Order struct {
	ID             uint            `json:"id" gorm:"primarykey"`
	UserID         *uint           `json:"userId" gorm:"index"`
	TotalSum       decimal.Decimal `json:"totalSum" gorm:"type:decimal(12,2);not null"`
	Name           string          `json:"name" gorm:"type:varchar(100);not null"`
	Lastname       string          `json:"lastname" gorm:"type:varchar(100);not null"`
	Phone          string          `json:"phone" gorm:"type:varchar(20);not null"`
	DeliveryMethod DeliveryMethod  `json:"deliveryMethod" gorm:"type:varchar(20);not null"`
	Address        string          `json:"address" gorm:"type:varchar(512);not null"`
	Comment        string          `json:"comment" gorm:"type:text"`
	Status         OrderStatus     `json:"status" gorm:"type:varchar(20);not null"`
	Items          []OrderProduct  `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OrderProduct is one line item of an order
type OrderProduct struct {
	ID         uint             `json:"id" gorm:"primarykey"`
	OrderID    uint             `json:"orderId" gorm:"index;not null"`
	ProductID  uint             `json:"productId" gorm:"index;not null"`
	Quantity   int              `json:"quantity" gorm:"not null"`
	Parameters string           `json:"parameters" gorm:"type:text"`
	Subtotal   decimal.Decimal  `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	Product    *ProductSnapshot `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:-"`
}
