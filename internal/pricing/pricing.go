package pricing

import (
	"strings"

	"github.com/Valeamar/tidal2025/internal/catalog"
	"github.com/Valeamar/tidal2025/internal/models"
)

// Logistics groups per-unit delivery costs.
type Logistics struct {
	Freight         float64 `json:"freight"`
	FuelSurcharge   float64 `json:"fuel_surcharge"`
	Handling        float64 `json:"handling"`
	DeliveryPremium float64 `json:"delivery_premium"`
	Total           float64 `json:"total"`
}

// TaxesAndFees groups per-unit taxes and regulatory charges.
type TaxesAndFees struct {
	SalesTax           float64 `json:"sales_tax"`
	RegulatoryFees     float64 `json:"regulatory_fees"`
	CertificationCosts float64 `json:"certification_costs"`
	PaymentProcessing  float64 `json:"payment_processing"`
	Total              float64 `json:"total"`
}

// Breakdown contains all line items of one quote's effective delivered cost.
type Breakdown struct {
	BasePrice          float64            `json:"base_price"`
	Logistics          Logistics          `json:"logistics_costs"`
	TaxesAndFees       TaxesAndFees       `json:"taxes_and_fees"`
	WastageAdjustment  float64            `json:"wastage_adjustment"`
	TotalEffectiveCost float64            `json:"total_effective_cost"`
	Components         map[string]float64 `json:"cost_components"`
}

// Calculator computes effective costs from a rate table and a categorizer.
type Calculator struct {
	rates       Rates
	categorizer catalog.Categorizer
}

// NewCalculator returns a Calculator. A nil categorizer uses catalog.Default.
func NewCalculator(rates Rates, categorizer catalog.Categorizer) *Calculator {
	if categorizer == nil {
		categorizer = catalog.Default()
	}
	return &Calculator{rates: rates, categorizer: categorizer}
}

// Rates returns the calculator's rate table.
func (c *Calculator) Rates() Rates {
	return c.rates
}

// Category returns the category the calculator assigns to productName.
func (c *Calculator) Category(productName string) catalog.Category {
	return c.categorizer.Categorize(productName)
}

// Calculate computes the effective delivered per-unit cost of quote for product at loc.
func (c *Calculator) Calculate(quote models.PriceQuote, loc models.FarmLocation, product models.ProductInput) Breakdown {
	base := NormalizePrice(quote.BasePrice, quote.Unit, product.Unit)
	state := loc.StateCode()

	logistics := c.logistics(state)
	quotedName := quote.ProductName
	if quotedName == "" {
		quotedName = product.Name
	}
	taxes := c.taxes(base, state, quotedName)
	wastage := base * c.rates.wastageRate(c.categorizer.Categorize(product.Name))

	total := base + logistics.Total + taxes.Total + wastage

	return Breakdown{
		BasePrice:          base,
		Logistics:          logistics,
		TaxesAndFees:       taxes,
		WastageAdjustment:  wastage,
		TotalEffectiveCost: total,
		Components: map[string]float64{
			"base_price":          base,
			"freight":             logistics.Freight,
			"fuel_surcharge":      logistics.FuelSurcharge,
			"handling":            logistics.Handling,
			"delivery_premium":    logistics.DeliveryPremium,
			"sales_tax":           taxes.SalesTax,
			"regulatory_fees":     taxes.RegulatoryFees,
			"certification_costs": taxes.CertificationCosts,
			"payment_processing":  taxes.PaymentProcessing,
			"wastage":             wastage,
		},
	}
}

func (c *Calculator) logistics(state string) Logistics {
	freight := c.rates.FreightPerUnit
	fuel := freight * c.rates.FuelSurchargePercent
	handling := c.rates.HandlingPerUnit

	premium := 0.0
	if c.rates.RemoteStates[state] {
		premium = c.rates.RemotePremium
	}

	return Logistics{
		Freight:         freight,
		FuelSurcharge:   fuel,
		Handling:        handling,
		DeliveryPremium: premium,
		Total:           freight + fuel + handling + premium,
	}
}

func (c *Calculator) taxes(base float64, state, quotedName string) TaxesAndFees {
	salesTax := base * c.rates.TaxRate(state)
	regulatory := c.rates.RegulatoryFee

	certification := 0.0
	if strings.Contains(strings.ToLower(quotedName), "organic") {
		certification = c.rates.CertificationFee
	}

	processing := base * c.rates.PaymentProcessingPercent

	return TaxesAndFees{
		SalesTax:           salesTax,
		RegulatoryFees:     regulatory,
		CertificationCosts: certification,
		PaymentProcessing:  processing,
		Total:              salesTax + regulatory + certification + processing,
	}
}
