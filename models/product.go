package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultCategoryLabel is substituted in API responses when a product
// has no category assigned.
const DefaultCategoryLabel = "Général"

// Product represents a product sold in the storefront
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null;check:price >= 0" json:"price"`
	Stock       int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	ImageKey    string         `json:"image_key"` // S3 key of the hosted image, empty when none
	ImageURL    string         `json:"image_url"`
	CategoryID  *uint          `gorm:"index" json:"category_id,omitempty"`
	Category    *Category      `gorm:"foreignKey:CategoryID" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// CategoryLabel returns the category name for API responses,
// falling back to DefaultCategoryLabel when no category is set.
func (p *Product) CategoryLabel() string {
	if p.Category != nil && p.Category.Name != "" {
		return p.Category.Name
	}
	return DefaultCategoryLabel
}
