// Package marketdata collects supplier price quotes from configured sources.
package marketdata

import (
	"context"

	"github.com/Valeamar/tidal2025/internal/models"
)

// Source fetches quotes for one product near a farm.
type Source interface {
	Name() string
	Prices(ctx context.Context, productName string, loc models.FarmLocation) ([]models.PriceQuote, error)
}

func ptr[T any](v T) *T {
	return &v
}
