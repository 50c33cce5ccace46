package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cartquote-backend/pkg/enums"
)

var (
	// TaxRate is the flat rate applied to the discounted subtotal.
	TaxRate = decimal.RequireFromString("0.10")

	shippingCosts = map[enums.ShippingMethod]decimal.Decimal{
		enums.ShippingMethodStandard:  decimal.RequireFromString("5.99"),
		enums.ShippingMethodExpress:   decimal.RequireFromString("12.99"),
		enums.ShippingMethodOvernight: decimal.RequireFromString("24.99"),
	}

	hundred = decimal.NewFromInt(100)
	half    = decimal.RequireFromString("0.5")
)

// Line is a priced quantity of one product.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Promotion is a discount contributing to the quote.
type Promotion struct {
	Amount decimal.Decimal
	Type   enums.DiscountType
}

// Input is everything the engine needs to price a cart.
type Input struct {
	Lines          []Line
	Promotions     []Promotion
	ShippingMethod *enums.ShippingMethod
}

// Result is a computed price snapshot.
type Result struct {
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	Shipping     decimal.Decimal
	Total        decimal.Decimal
	Currency     enums.Currency
	CalculatedAt time.Time
}

// Calculate prices the input. Discounts are summed over every promotion and are
// not capped at the subtotal; only the taxable amount floors at zero.
func Calculate(in Input, at time.Time) Result {
	subtotal := decimal.Zero
	for _, line := range in.Lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = round2(subtotal)

	discount := decimal.Zero
	for _, promo := range in.Promotions {
		if promo.Type == enums.DiscountTypePercentage {
			discount = discount.Add(subtotal.Mul(promo.Amount.Div(hundred)))
			continue
		}
		discount = discount.Add(promo.Amount)
	}
	discount = round2(discount)

	taxable := decimal.Max(decimal.Zero, round2(subtotal.Sub(discount)))
	tax := round2(taxable.Mul(TaxRate))
	shipping := ShippingCost(in.ShippingMethod)

	return Result{
		Subtotal:     subtotal,
		Discount:     discount,
		Tax:          tax,
		Shipping:     shipping,
		Total:        round2(taxable.Add(tax).Add(shipping)),
		Currency:     enums.CurrencyUSD,
		CalculatedAt: at.UTC(),
	}
}

// ShippingCost returns the flat fee for a method, zero when none is selected.
func ShippingCost(method *enums.ShippingMethod) decimal.Decimal {
	if method == nil {
		return decimal.Zero
	}
	cost, ok := shippingCosts[*method]
	if !ok {
		return decimal.Zero
	}
	return cost
}

// round2 rounds half toward positive infinity on the cents boundary.
func round2(value decimal.Decimal) decimal.Decimal {
	return value.Mul(hundred).Add(half).Floor().Div(hundred)
}
