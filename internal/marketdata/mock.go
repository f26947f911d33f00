package marketdata

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Valeamar/tidal2025/internal/models"
)

var mockBasePrices = map[string]float64{
	"corn seed":    250,
	"soybean seed": 45,
	"wheat seed":   12,
	"fertilizer":   650,
	"nitrogen":     0.85,
	"phosphorus":   1.20,
	"potassium":    0.95,
	"diesel fuel":  3.50,
	"pesticide":    25,
	"herbicide":    18,
	"fungicide":    32,
}

const mockDefaultPrice = 100.0

var mockSuppliers = []string{
	"AgriCorp Supply",
	"FarmTech Solutions",
	"GreenField Distributors",
	"Midwest Ag Supply",
	"Prairie Seed Co",
	"Regional Co-op",
}

// MockSource generates a deterministic spread of supplier quotes.
type MockSource struct {
	now func() time.Time
}

func NewMockSource(now func() time.Time) *MockSource {
	if now == nil {
		now = time.Now
	}
	return &MockSource{now: now}
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Prices(ctx context.Context, productName string, loc models.FarmLocation) ([]models.PriceQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := strings.ToLower(strings.TrimSpace(productName))
	base, ok := mockBasePrices[name]
	if !ok {
		base = mockDefaultPrice
	}

	unit := "per lb"
	switch {
	case strings.Contains(name, "seed"):
		unit = "per unit"
	case strings.Contains(name, "fuel"):
		unit = "per gallon"
	}

	now := m.now().UTC()
	location := strings.TrimSpace(loc.City) + ", " + loc.StateCode()

	quotes := make([]models.PriceQuote, 0, len(mockSuppliers))
	for i, supplier := range mockSuppliers {
		q := models.PriceQuote{
			Supplier:      supplier,
			ProductName:   productName,
			BasePrice:     math.Round(base*(0.85+0.05*float64(i))*100) / 100,
			Unit:          unit,
			Location:      location,
			Source:        m.Name(),
			DeliveryTerms: "Delivered",
			LeadTimeDays:  ptr(7 + 2*i),
			Reliability:   ptr(0.8 + 0.03*float64(i)),
			ContactInfo:   "contact@" + strings.ToLower(strings.ReplaceAll(supplier, " ", "")) + ".com",
			CachedAt:      ptr(now),
		}
		if i%2 == 0 {
			q.DeliveryTerms = "FOB"
		}
		if i < 2 {
			q.MOQ = ptr(50)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}
