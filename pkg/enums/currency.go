package enums

import "fmt"

// Currency represents supported monetary denominations for cart quotes.
type Currency string

const (
	CurrencyUSD Currency = "USD"
)

var currencyDecimals = map[Currency]int32{
	CurrencyUSD: 2,
}

var validCurrencies = []Currency{
	CurrencyUSD,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// Decimals is the number of minor-unit digits amounts are rendered with.
// Unknown currencies fall back to two.
func (c Currency) Decimals() int32 {
	if d, ok := currencyDecimals[c]; ok {
		return d
	}
	return 2
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
