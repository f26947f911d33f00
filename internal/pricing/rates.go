package pricing

import "github.com/Valeamar/tidal2025/internal/catalog"

// Rates holds every constant the cost model applies. Callers normally start
// from DefaultRates and replace SalesTax with the stored state table.
type Rates struct {
	SalesTax        map[string]float64
	DefaultSalesTax float64

	FreightPerUnit       float64
	FuelSurchargePercent float64
	HandlingPerUnit      float64
	RemotePremium        float64
	RemoteStates         map[string]bool

	RegulatoryFee            float64
	CertificationFee         float64
	PaymentProcessingPercent float64

	Wastage        map[catalog.Category]float64
	DefaultWastage float64
}

// DefaultStateTaxRates returns the built-in state sales tax table.
func DefaultStateTaxRates() map[string]float64 {
	return map[string]float64{
		"CA": 0.0725, "TX": 0.0625, "FL": 0.06, "NY": 0.08, "IL": 0.0625,
		"PA": 0.06, "OH": 0.0575, "GA": 0.04, "NC": 0.0475, "MI": 0.06,
		"NJ": 0.06625, "VA": 0.053, "WA": 0.065, "AZ": 0.056, "MA": 0.0625,
		"TN": 0.07, "IN": 0.07, "MO": 0.0423, "MD": 0.06, "WI": 0.05,
	}
}

// DefaultRates returns the standard cost model constants.
func DefaultRates() Rates {
	return Rates{
		SalesTax:        DefaultStateTaxRates(),
		DefaultSalesTax: 0.06,

		FreightPerUnit:       2.50,
		FuelSurchargePercent: 0.15,
		HandlingPerUnit:      1.25,
		RemotePremium:        2.0,
		RemoteStates: map[string]bool{
			"AK": true, "HI": true, "MT": true, "WY": true, "ND": true, "SD": true,
		},

		RegulatoryFee:            0.50,
		CertificationFee:         0.25,
		PaymentProcessingPercent: 0.029,

		Wastage: map[catalog.Category]float64{
			catalog.Seeds:      0.02,
			catalog.Fertilizer: 0.01,
			catalog.Pesticides: 0.005,
			catalog.Equipment:  0,
			catalog.Fuel:       0.01,
			catalog.Other:      0.01,
		},
		DefaultWastage: 0.01,
	}
}

// WithSalesTax returns a copy of r using table for state sales tax lookups.
func (r Rates) WithSalesTax(table map[string]float64) Rates {
	copied := make(map[string]float64, len(table))
	for state, rate := range table {
		copied[state] = rate
	}
	r.SalesTax = copied
	return r
}

// TaxRate returns the sales tax rate for a state code, falling back to DefaultSalesTax.
func (r Rates) TaxRate(state string) float64 {
	if rate, ok := r.SalesTax[state]; ok {
		return rate
	}
	return r.DefaultSalesTax
}

func (r Rates) wastageRate(category catalog.Category) float64 {
	if rate, ok := r.Wastage[category]; ok {
		return rate
	}
	return r.DefaultWastage
}
