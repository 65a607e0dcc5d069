package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Enum membership is the only server-side check:
// the admin UI relies on being able to correct a status freely.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists every valid order status, in progression order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether s is a member of the status enum
func IsValidOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order represents a storefront order
type Order struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TotalAmount     float64        `gorm:"not null" json:"total_amount"`
	Status          string         `gorm:"not null;default:'pending';index" json:"status"`
	PaymentStatus   string         `json:"payment_status"`
	ShippingAddress string         `gorm:"type:text" json:"shipping_address"`
	CustomerID      *uint          `gorm:"index" json:"customer_id,omitempty"` // foreign key to users table
	Customer        *User          `gorm:"foreignKey:CustomerID" json:"-"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a line of an order. Price is the product price
// at the time the order was placed, not the current catalog price.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int      `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64  `gorm:"not null" json:"price"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
