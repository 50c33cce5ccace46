package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cartquote-backend/pkg/enums"
)

// Cart is the persisted cart header. Shipping and quote columns stay NULL until
// the caller estimates shipping or requests a reprice.
type Cart struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    *string   `gorm:"column:user_id;index:idx_carts_user_id"`
	SessionID *string   `gorm:"column:session_id;index:idx_carts_session_id"`
	Saved     bool      `gorm:"column:saved;not null"`
	Revision  int64     `gorm:"column:revision;not null"`

	ShippingCountry    *string               `gorm:"column:shipping_country"`
	ShippingRegion     *string               `gorm:"column:shipping_region"`
	ShippingPostalCode *string               `gorm:"column:shipping_postal_code"`
	ShippingMethod     *enums.ShippingMethod `gorm:"column:shipping_method"`

	QuoteSubtotal     decimal.NullDecimal `gorm:"column:quote_subtotal;type:numeric(12,2)"`
	QuoteDiscount     decimal.NullDecimal `gorm:"column:quote_discount;type:numeric(12,2)"`
	QuoteTax          decimal.NullDecimal `gorm:"column:quote_tax;type:numeric(12,2)"`
	QuoteShipping     decimal.NullDecimal `gorm:"column:quote_shipping;type:numeric(12,2)"`
	QuoteTotal        decimal.NullDecimal `gorm:"column:quote_total;type:numeric(12,2)"`
	QuoteCurrency     *enums.Currency     `gorm:"column:quote_currency"`
	QuoteCalculatedAt *time.Time          `gorm:"column:quote_calculated_at"`

	Items      []CartItem         `gorm:"foreignKey:CartID"`
	Promotions []AppliedPromotion `gorm:"foreignKey:CartID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
}

// HasQuote reports whether a complete price snapshot is stored on the cart.
func (c Cart) HasQuote() bool {
	return c.QuoteTotal.Valid && c.QuoteCalculatedAt != nil
}
