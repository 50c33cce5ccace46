package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a product line within a cart. A product appears at most once per cart.
type CartItem struct {
	CartID    uuid.UUID       `gorm:"column:cart_id;type:uuid;primaryKey"`
	ProductID string          `gorm:"column:product_id;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	ImageURL  *string         `gorm:"column:image_url"`
}
