package marketdata

import (
	"strings"

	"github.com/Valeamar/tidal2025/internal/models"
)

const (
	defaultUnit        = "each"
	defaultReliability = 0.5
)

// Validate drops unusable quotes and fills defaults on the rest. The input
// is not modified.
func Validate(quotes []models.PriceQuote) []models.PriceQuote {
	out := make([]models.PriceQuote, 0, len(quotes))
	for _, q := range quotes {
		q.Supplier = strings.TrimSpace(q.Supplier)
		q.ProductName = strings.TrimSpace(q.ProductName)
		if q.Supplier == "" || q.ProductName == "" || q.BasePrice <= 0 {
			continue
		}
		q.Unit = strings.TrimSpace(q.Unit)
		if q.Unit == "" {
			q.Unit = defaultUnit
		}
		if q.Reliability == nil {
			q.Reliability = ptr(defaultReliability)
		}
		out = append(out, q)
	}
	return out
}
