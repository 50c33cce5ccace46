package enums

import "testing"

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("USD")
	if err != nil || c != CurrencyUSD {
		t.Fatalf("expected USD, got %q err=%v", c, err)
	}
	if !c.IsValid() || c.Decimals() != 2 {
		t.Fatalf("unexpected currency metadata for %s", c)
	}
	if _, err := ParseCurrency("usd"); err == nil {
		t.Fatal("expected lower-case code to be rejected")
	}
	if Currency("XYZ").IsValid() {
		t.Fatal("unknown currency reported valid")
	}
}

func TestParseShippingMethod(t *testing.T) {
	for _, raw := range []string{"standard", "express", "overnight"} {
		m, err := ParseShippingMethod(raw)
		if err != nil || m.String() != raw {
			t.Fatalf("parse %q: got %q err=%v", raw, m, err)
		}
	}
	if _, err := ParseShippingMethod("drone"); err == nil {
		t.Fatal("expected unknown method to fail")
	}
}
