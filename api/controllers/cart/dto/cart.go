package cartdto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Cart is the cart snapshot exposed through the API. Money fields are JSON numbers with two
// decimals.
type Cart struct {
	ID                 uuid.UUID           `json:"id"`
	UserID             *string             `json:"userId"`
	SessionID          *string             `json:"sessionId"`
	Saved              bool                `json:"saved"`
	Items              []CartItem          `json:"items"`
	Promotions         []AppliedPromotion  `json:"promotions"`
	Quote              *Quote              `json:"quote"`
	ShippingEstimation *ShippingEstimation `json:"shippingEstimation"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	ExpiresAt          time.Time           `json:"expiresAt"`
}

type CartItem struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
	ImageURL  *string     `json:"imageUrl"`
}

type AppliedPromotion struct {
	PromotionID    string      `json:"promotionId"`
	Code           *string     `json:"code"`
	Name           string      `json:"name"`
	DiscountAmount json.Number `json:"discountAmount"`
	DiscountType   string      `json:"discountType"`
	Description    *string     `json:"description"`
}

type Quote struct {
	Subtotal          json.Number        `json:"subtotal"`
	Tax               json.Number        `json:"tax"`
	Shipping          json.Number        `json:"shipping"`
	Discount          json.Number        `json:"discount"`
	Total             json.Number        `json:"total"`
	Currency          string             `json:"currency"`
	CalculatedAt      time.Time          `json:"calculatedAt"`
	AppliedPromotions []AppliedPromotion `json:"appliedPromotions"`
}
