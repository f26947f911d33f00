package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/supplier"
)

// AdviceKind tags an internally generated optimisation hint.
type AdviceKind string

const (
	QuantityOptimization    AdviceKind = "QUANTITY_OPTIMIZATION"
	SeasonalTiming          AdviceKind = "SEASONAL_TIMING"
	SubstituteProducts      AdviceKind = "SUBSTITUTE_PRODUCTS"
	SupplierDiversification AdviceKind = "SUPPLIER_DIVERSIFICATION"
	QualityOptimization     AdviceKind = "QUALITY_OPTIMIZATION"
)

// Priority levels, ordered high to low.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{PriorityHigh: 3, PriorityMedium: 2, PriorityLow: 1}

// Advice is an optimisation hint derived from the economic analysis alone.
type Advice struct {
	Kind             AdviceKind `json:"type"`
	Priority         string     `json:"priority"`
	Description      string     `json:"description"`
	PotentialSavings float64    `json:"potential_savings"`
	ActionRequired   string     `json:"action_required"`
	Confidence       float64    `json:"confidence"`
}

func advise(
	product models.ProductInput,
	evals []supplier.Evaluation,
	season SeasonalityFactors,
	location LocationFactors,
	spec SpecAnalysis,
	avgCost float64,
) []Advice {
	var out []Advice

	if len(evals) > 0 && !evals[0].MOQMet {
		best := evals[0]
		out = append(out, Advice{
			Kind:             QuantityOptimization,
			Priority:         PriorityHigh,
			Description:      fmt.Sprintf("Increase quantity by %s units to meet MOQ and unlock better pricing", humanize.Ftoa(best.MOQShortfall)),
			PotentialSavings: best.PriceBreakSavings * product.Quantity,
			ActionRequired:   fmt.Sprintf("Consider ordering %s units total", humanize.Ftoa(best.MOQShortfall+product.Quantity)),
			Confidence:       0.9,
		})
	}

	if season.SeasonalSavingsPotential > 5 {
		out = append(out, Advice{
			Kind:     SeasonalTiming,
			Priority: PriorityMedium,
			Description: fmt.Sprintf("Optimal purchase timing in month %d could save %.1f%%",
				season.OptimalPurchaseMonth, season.SeasonalSavingsPotential),
			PotentialSavings: avgCost * season.SeasonalSavingsPotential / 100 * product.Quantity,
			ActionRequired:   fmt.Sprintf("Plan purchase for %s if timing allows", MonthName(season.OptimalPurchaseMonth)),
			Confidence:       0.8,
		})
	}

	if len(spec.SubstituteSKUs) > 0 {
		skus := spec.SubstituteSKUs
		if len(skus) > 3 {
			skus = skus[:3]
		}
		out = append(out, Advice{
			Kind:           SubstituteProducts,
			Priority:       PriorityLow,
			Description:    "Consider substitute products: " + strings.Join(skus, ", "),
			ActionRequired: "Research pricing for substitute products",
			Confidence:     0.6,
		})
	}

	if location.LocalCompetitionLevel < 0.95 {
		out = append(out, Advice{
			Kind:           SupplierDiversification,
			Priority:       PriorityMedium,
			Description:    "Limited local competition detected - consider expanding supplier search radius",
			ActionRequired: "Search for suppliers in neighboring states or regions",
			Confidence:     0.7,
		})
	}

	if spec.QualityAdjustment > 1.02 {
		out = append(out, Advice{
			Kind:             QualityOptimization,
			Priority:         PriorityLow,
			Description:      "Premium quality specifications may be adding unnecessary cost",
			PotentialSavings: avgCost * 0.02 * product.Quantity,
			ActionRequired:   "Evaluate if standard grade meets requirements",
			Confidence:       0.6,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] > priorityRank[out[j].Priority]
	})
	return out
}
