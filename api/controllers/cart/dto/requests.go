package cartdto

import "github.com/shopspring/decimal"

// CreateCartRequest names the cart owner. Exactly one of the fields may be set; both may be empty
// for an anonymous cart.
type CreateCartRequest struct {
	UserID    *string `json:"userId,omitempty" validate:"omitempty,max=255"`
	SessionID *string `json:"sessionId,omitempty" validate:"omitempty,max=255"`
}

// AddItemsRequest merges lines into a cart.
type AddItemsRequest struct {
	Items []AddItemRequest `json:"items" validate:"dive"`
}

type AddItemRequest struct {
	ProductID string           `json:"productId" validate:"max=255"`
	Name      string           `json:"name" validate:"max=500"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	ImageURL  *string          `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
}

// UpdateItemsRequest sets absolute quantities for existing lines.
type UpdateItemsRequest struct {
	Items []UpdateItemRequest `json:"items"`
}

type UpdateItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// RemoveItemsRequest lists the product ids to drop.
type RemoveItemsRequest struct {
	Items []RemoveItemRequest `json:"items"`
}

type RemoveItemRequest struct {
	ProductID string `json:"productId"`
}

// ApplyPromotionRequest attaches a promotion. discountType is "percentage" or "fixed".
type ApplyPromotionRequest struct {
	PromotionID    string           `json:"promotionId" validate:"max=255"`
	Code           *string          `json:"code,omitempty" validate:"omitempty,max=255"`
	Name           string           `json:"name" validate:"max=500"`
	DiscountAmount *decimal.Decimal `json:"discountAmount"`
	DiscountType   string           `json:"discountType"`
	Description    *string          `json:"description,omitempty"`
}

// UpdateShippingRequest replaces the cart's shipping estimation.
type UpdateShippingRequest struct {
	ShippingEstimation *ShippingEstimation `json:"shippingEstimation"`
}

type ShippingEstimation struct {
	Country        string  `json:"country" validate:"max=100"`
	Region         *string `json:"region,omitempty" validate:"omitempty,max=100"`
	PostalCode     *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	ShippingMethod *string `json:"shippingMethod,omitempty"`
}
