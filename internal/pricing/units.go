package pricing

import "strings"

type unitPair struct {
	from string
	to   string
}

var unitConversions = map[unitPair]float64{
	{"lb", "kg"}: 2.20462,
	{"kg", "lb"}: 0.453592,
	{"gal", "l"}: 3.78541,
	{"l", "gal"}: 0.264172,
	{"oz", "g"}:  28.3495,
	{"g", "oz"}:  0.035274,
}

// NormalizePrice converts a price quoted per quoteUnit into a price per
// productUnit. Unknown pairs are assumed to already match.
func NormalizePrice(price float64, quoteUnit, productUnit string) float64 {
	key := unitPair{
		from: strings.ToLower(strings.TrimSpace(quoteUnit)),
		to:   strings.ToLower(strings.TrimSpace(productUnit)),
	}
	if factor, ok := unitConversions[key]; ok {
		return price * factor
	}
	return price
}
