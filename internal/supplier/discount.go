package supplier

import "strings"

// DiscountParser turns promotion text into a price multiplier. ok is false
// when the text carries no discount the parser understands.
type DiscountParser interface {
	Discount(promotion string) (multiplier float64, ok bool)
}

// DiscountFunc adapts a function to a DiscountParser.
type DiscountFunc func(promotion string) (float64, bool)

func (f DiscountFunc) Discount(promotion string) (float64, bool) {
	return f(promotion)
}

// PercentTier maps promotion text containing Token to Multiplier.
type PercentTier struct {
	Token      string
	Multiplier float64
}

// PercentParser matches promotion text against tiers in order; the first
// match wins and discounts never compound.
type PercentParser struct {
	Tiers []PercentTier
}

// DefaultDiscounts recognises "10%" and "5%" promotions.
func DefaultDiscounts() PercentParser {
	return PercentParser{Tiers: []PercentTier{
		{Token: "10%", Multiplier: 0.9},
		{Token: "5%", Multiplier: 0.95},
	}}
}

func (p PercentParser) Discount(promotion string) (float64, bool) {
	text := strings.ToLower(promotion)
	if text == "" {
		return 1, false
	}
	for _, tier := range p.Tiers {
		if strings.Contains(text, tier.Token) {
			return tier.Multiplier, true
		}
	}
	return 1, false
}
