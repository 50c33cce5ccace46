package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cartquote-backend/pkg/db/models"
	"github.com/angelmondragon/cartquote-backend/pkg/enums"
)

// Owner identifies who a cart belongs to. At most one field is set.
type Owner struct {
	UserID    *string
	SessionID *string
}

// Cart is the assembled view of a cart returned by every service operation.
type Cart struct {
	ID                 uuid.UUID
	UserID             *string
	SessionID          *string
	Saved              bool
	Items              []CartItem
	Promotions         []AppliedPromotion
	Quote              *Quote
	ShippingEstimation *ShippingEstimation
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ExpiresAt          time.Time
}

type CartItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	ImageURL  *string
}

type AppliedPromotion struct {
	PromotionID    string
	Code           *string
	Name           string
	DiscountAmount decimal.Decimal
	DiscountType   enums.DiscountType
	Description    *string
}

type ShippingEstimation struct {
	Country        string
	Region         *string
	PostalCode     *string
	ShippingMethod *enums.ShippingMethod
}

// Quote is the last computed price snapshot. Promotions lists what was applied
// when it was computed.
type Quote struct {
	Subtotal          decimal.Decimal
	Discount          decimal.Decimal
	Tax               decimal.Decimal
	Shipping          decimal.Decimal
	Total             decimal.Decimal
	Currency          enums.Currency
	CalculatedAt      time.Time
	AppliedPromotions []AppliedPromotion
}

// QuantityUpdate sets the quantity of an existing line.
type QuantityUpdate struct {
	ProductID string
	Quantity  int
}

// FromModel assembles a Cart from its persisted record.
func FromModel(m models.Cart) Cart {
	out := Cart{
		ID:         m.ID,
		UserID:     m.UserID,
		SessionID:  m.SessionID,
		Saved:      m.Saved,
		Items:      make([]CartItem, 0, len(m.Items)),
		Promotions: make([]AppliedPromotion, 0, len(m.Promotions)),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		ExpiresAt:  m.ExpiresAt,
	}
	for _, item := range m.Items {
		out.Items = append(out.Items, CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			ImageURL:  item.ImageURL,
		})
	}
	for _, promo := range m.Promotions {
		out.Promotions = append(out.Promotions, AppliedPromotion{
			PromotionID:    promo.PromotionID,
			Code:           promo.Code,
			Name:           promo.Name,
			DiscountAmount: promo.DiscountAmount,
			DiscountType:   promo.DiscountType,
			Description:    promo.Description,
		})
	}

	if m.ShippingCountry != nil {
		out.ShippingEstimation = &ShippingEstimation{
			Country:        *m.ShippingCountry,
			Region:         m.ShippingRegion,
			PostalCode:     m.ShippingPostalCode,
			ShippingMethod: m.ShippingMethod,
		}
	}

	if m.HasQuote() {
		currency := enums.CurrencyUSD
		if m.QuoteCurrency != nil {
			currency = *m.QuoteCurrency
		}
		out.Quote = &Quote{
			Subtotal:          m.QuoteSubtotal.Decimal,
			Discount:          m.QuoteDiscount.Decimal,
			Tax:               m.QuoteTax.Decimal,
			Shipping:          m.QuoteShipping.Decimal,
			Total:             m.QuoteTotal.Decimal,
			Currency:          currency,
			CalculatedAt:      *m.QuoteCalculatedAt,
			AppliedPromotions: out.Promotions,
		}
	}
	return out
}
