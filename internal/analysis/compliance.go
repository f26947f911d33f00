package analysis

import (
	"strings"

	"github.com/Valeamar/tidal2025/internal/catalog"
	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/stats"
)

// RegulatoryRequirements flags the rules that apply to a product category.
type RegulatoryRequirements struct {
	EPARegistration         bool `json:"epa_registration,omitempty"`
	StateLicensing          bool `json:"state_licensing,omitempty"`
	ApplicatorCertification bool `json:"applicator_certification,omitempty"`
	RestrictedUse           bool `json:"restricted_use,omitempty"`
	NutrientLabeling        bool `json:"nutrient_labeling,omitempty"`
	StateRegistration       bool `json:"state_registration,omitempty"`
	VarietyRegistration     bool `json:"variety_registration,omitempty"`
	NoSpecialRequirements   bool `json:"no_special_requirements,omitempty"`
}

type Certification struct {
	OrganicRequired           bool    `json:"organic_required"`
	OrganicSuppliersAvailable int     `json:"organic_suppliers_available"`
	CertificationPremium      float64 `json:"certification_premium"`
}

type TaxImplications struct {
	BaseTaxRate           float64 `json:"base_tax_rate"`
	AgriculturalExemption bool    `json:"agricultural_exemption"`
	EffectiveTaxRate      float64 `json:"effective_tax_rate"`
	EstimatedTaxSavings   float64 `json:"estimated_tax_savings"`
}

type PaymentTerms struct {
	CashDiscountAvailable bool    `json:"cash_discount_available"`
	TypicalCashDiscount   float64 `json:"typical_cash_discount"`
	NetTermsAvailable     bool    `json:"net_terms_available"`
	TypicalNetTermsDays   int     `json:"typical_net_terms"`
}

// Compliance gathers regulatory, certification, tax and payment considerations.
type Compliance struct {
	Regulatory    RegulatoryRequirements `json:"regulatory_requirements"`
	Certification Certification          `json:"certification_analysis"`
	Tax           TaxImplications        `json:"tax_implications"`
	PaymentTerms  PaymentTerms           `json:"payment_terms_analysis"`
	Score         float64                `json:"compliance_score"`
}

var agExemptStates = map[string]bool{
	"IA": true, "IL": true, "IN": true, "NE": true, "KS": true, "MN": true, "WI": true,
}

// Regulatory returns the static requirement flags for category.
func Regulatory(category catalog.Category) RegulatoryRequirements {
	switch category {
	case catalog.Pesticides:
		return RegulatoryRequirements{EPARegistration: true, StateLicensing: true, ApplicatorCertification: true}
	case catalog.Fertilizer:
		return RegulatoryRequirements{NutrientLabeling: true, StateRegistration: true}
	case catalog.Seeds:
		return RegulatoryRequirements{VarietyRegistration: true}
	default:
		return RegulatoryRequirements{NoSpecialRequirements: true}
	}
}

func (a *Analyzer) compliance(category catalog.Category, product models.ProductInput, quotes []models.PriceQuote, loc models.FarmLocation) Compliance {
	reg := Regulatory(category)

	organic := strings.Contains(strings.ToLower(product.Name), "organic") ||
		strings.Contains(strings.ToLower(product.Specifications), "organic")
	cert := Certification{OrganicRequired: organic}
	for _, q := range quotes {
		if strings.Contains(strings.ToLower(q.ProductName), "organic") {
			cert.OrganicSuppliersAvailable++
		}
	}
	if organic {
		cert.CertificationPremium = 0.15
	}

	state := loc.StateCode()
	baseRate := a.calc.Rates().TaxRate(state)
	tax := TaxImplications{
		BaseTaxRate:      baseRate,
		EffectiveTaxRate: baseRate,
	}
	if agExemptStates[state] {
		sum := 0.0
		for _, q := range quotes {
			sum += q.BasePrice
		}
		tax.AgriculturalExemption = true
		tax.EffectiveTaxRate = 0
		tax.EstimatedTaxSavings = baseRate * sum * product.Quantity
	}

	score := 1.0
	if reg.EPARegistration || reg.StateLicensing {
		score -= 0.1
	}
	if cert.OrganicRequired {
		score -= 0.05
	}
	if tax.AgriculturalExemption {
		score += 0.05
	}

	return Compliance{
		Regulatory:    reg,
		Certification: cert,
		Tax:           tax,
		PaymentTerms: PaymentTerms{
			CashDiscountAvailable: true,
			TypicalCashDiscount:   0.02,
			NetTermsAvailable:     true,
			TypicalNetTermsDays:   30,
		},
		Score: stats.Clamp01(score),
	}
}
