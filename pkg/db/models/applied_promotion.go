package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cartquote-backend/pkg/enums"
)

// AppliedPromotion records a discount attached to a cart.
type AppliedPromotion struct {
	CartID         uuid.UUID          `gorm:"column:cart_id;type:uuid;primaryKey"`
	PromotionID    string             `gorm:"column:promotion_id;primaryKey"`
	Code           *string            `gorm:"column:code"`
	Name           string             `gorm:"column:name;not null"`
	DiscountAmount decimal.Decimal    `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	DiscountType   enums.DiscountType `gorm:"column:discount_type;not null"`
	Description    *string            `gorm:"column:description"`
}
