package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	cartdto "github.com/angelmondragon/cartquote-backend/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/cartquote-backend/internal/cart"
	"github.com/angelmondragon/cartquote-backend/pkg/enums"
)

func newCart(c *cartsvc.Cart) cartdto.Cart {
	if c == nil {
		return cartdto.Cart{}
	}
	out := cartdto.Cart{
		ID:         c.ID,
		UserID:     c.UserID,
		SessionID:  c.SessionID,
		Saved:      c.Saved,
		Items:      make([]cartdto.CartItem, 0, len(c.Items)),
		Promotions: newPromotions(c.Promotions),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		ExpiresAt:  c.ExpiresAt,
	}
	for _, item := range c.Items {
		out.Items = append(out.Items, cartdto.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
			ImageURL:  item.ImageURL,
		})
	}
	if c.ShippingEstimation != nil {
		est := &cartdto.ShippingEstimation{
			Country:    c.ShippingEstimation.Country,
			Region:     c.ShippingEstimation.Region,
			PostalCode: c.ShippingEstimation.PostalCode,
		}
		if c.ShippingEstimation.ShippingMethod != nil {
			method := c.ShippingEstimation.ShippingMethod.String()
			est.ShippingMethod = &method
		}
		out.ShippingEstimation = est
	}
	if q := c.Quote; q != nil {
		out.Quote = &cartdto.Quote{
			Subtotal:          money(q.Subtotal),
			Tax:               money(q.Tax),
			Shipping:          money(q.Shipping),
			Discount:          money(q.Discount),
			Total:             money(q.Total),
			Currency:          q.Currency.String(),
			CalculatedAt:      q.CalculatedAt,
			AppliedPromotions: newPromotions(q.AppliedPromotions),
		}
	}
	return out
}

func newCarts(carts []cartsvc.Cart) []cartdto.Cart {
	out := make([]cartdto.Cart, 0, len(carts))
	for i := range carts {
		out = append(out, newCart(&carts[i]))
	}
	return out
}

func newPromotions(promos []cartsvc.AppliedPromotion) []cartdto.AppliedPromotion {
	out := make([]cartdto.AppliedPromotion, 0, len(promos))
	for _, promo := range promos {
		out = append(out, cartdto.AppliedPromotion{
			PromotionID:    promo.PromotionID,
			Code:           promo.Code,
			Name:           promo.Name,
			DiscountAmount: money(promo.DiscountAmount),
			DiscountType:   promo.DiscountType.String(),
			Description:    promo.Description,
		})
	}
	return out
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(enums.CurrencyUSD.Decimals()))
}
