package analysis

import (
	"sort"

	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/stats"
)

// Trend labels.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// MarketDynamics describes volatility, direction and supply risk of a market.
type MarketDynamics struct {
	Available        bool             `json:"analysis_available"`
	PriceVolatility  float64          `json:"price_volatility"`
	VolatilityLevel  string           `json:"volatility_level"`
	PriceTrend       string           `json:"price_trend"`
	MeanMarketPrice  float64          `json:"mean_market_price"`
	PriceRangeSpread float64          `json:"price_range_spread"`
	Spread           float64          `json:"relative_spread"`
	CommodityLinkage CommodityLinkage `json:"commodity_linkage"`
	SupplyChainRisk  SupplyChainRisk  `json:"supply_chain_risk"`
	SeasonalImpact   SeasonalImpact   `json:"seasonal_impact"`
}

type CommodityLinkage struct {
	LinkedCommodities   []string `json:"linked_commodities"`
	CorrelationStrength float64  `json:"correlation_strength"`
	FuturesImpact       string   `json:"futures_impact"`
}

type SupplyChainRisk struct {
	SupplierDiversity   float64 `json:"supplier_diversity_score"`
	GeographicDiversity float64 `json:"geographic_diversity_score"`
	RiskScore           float64 `json:"overall_risk_score"`
	RiskLevel           string  `json:"risk_level"`
}

type SeasonalImpact struct {
	CurrentVsOptimal   float64 `json:"current_vs_optimal"`
	SeasonalVolatility float64 `json:"seasonal_volatility"`
}

// Dynamics analyses adjusted costs; costs[i] must belong to quotes[i].
func Dynamics(quotes []models.PriceQuote, costs []float64, season SeasonalityFactors) MarketDynamics {
	if len(costs) == 0 {
		return MarketDynamics{VolatilityLevel: "low", PriceTrend: TrendStable}
	}

	mean := stats.Mean(costs)
	volatility := 0.0
	if len(costs) > 1 && mean != 0 {
		volatility = stats.StdDev(costs) / mean
	}

	lo, hi := costs[0], costs[0]
	for _, c := range costs[1:] {
		lo = min(lo, c)
		hi = max(hi, c)
	}
	spread := 0.0
	if mean != 0 {
		spread = (hi - lo) / mean
	}

	currentVsOptimal := 1.0
	if season.OptimalMultiplier > 0 {
		currentVsOptimal = season.CurrentSeasonMultiplier / season.OptimalMultiplier
	}

	return MarketDynamics{
		Available:        true,
		PriceVolatility:  volatility,
		VolatilityLevel:  levelOf(volatility, 0.2, 0.1),
		PriceTrend:       Trend(chronological(quotes, costs)),
		MeanMarketPrice:  mean,
		PriceRangeSpread: hi - lo,
		Spread:           spread,
		CommodityLinkage: CommodityLinkage{
			LinkedCommodities:   []string{"corn", "soybean", "wheat"},
			CorrelationStrength: 0.7,
			FuturesImpact:       "moderate",
		},
		SupplyChainRisk: SupplyRisk(quotes),
		SeasonalImpact: SeasonalImpact{
			CurrentVsOptimal:   currentVsOptimal,
			SeasonalVolatility: season.SeasonalSavingsPotential,
		},
	}
}

// Trend compares the first and last of at least three chronologically
// ordered costs.
func Trend(costs []float64) string {
	if len(costs) < 3 {
		return TrendStable
	}
	first, last := costs[0], costs[len(costs)-1]
	switch {
	case last > first*1.1:
		return TrendIncreasing
	case last < first*0.9:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// chronological orders costs by their quote's timestamp. Undated quotes
// follow the dated ones in input order.
func chronological(quotes []models.PriceQuote, costs []float64) []float64 {
	idx := make([]int, len(costs))
	for i := range idx {
		idx[i] = i
	}
	at := func(i int) *models.PriceQuote {
		if i < len(quotes) {
			return &quotes[i]
		}
		return nil
	}
	sort.SliceStable(idx, func(a, b int) bool {
		qa, qb := at(idx[a]), at(idx[b])
		ta := qa != nil && qa.CachedAt != nil
		tb := qb != nil && qb.CachedAt != nil
		switch {
		case ta && tb:
			return qa.CachedAt.Before(*qb.CachedAt)
		default:
			return ta && !tb
		}
	})

	ordered := make([]float64, len(costs))
	for i, j := range idx {
		ordered[i] = costs[j]
	}
	return ordered
}

// SupplyRisk scores supplier and geographic concentration; higher is riskier.
func SupplyRisk(quotes []models.PriceQuote) SupplyChainRisk {
	suppliers := map[string]bool{}
	places := map[string]bool{}
	located := 0
	for _, q := range quotes {
		suppliers[q.Supplier] = true
		if q.Location != "" {
			places[q.Location] = true
			located++
		}
	}

	supplierDiversity := min(1.0, float64(len(suppliers))/5)
	geographic := float64(len(places)) / float64(max(1, located))
	risk := 1 - (supplierDiversity+geographic)/2

	return SupplyChainRisk{
		SupplierDiversity:   supplierDiversity,
		GeographicDiversity: geographic,
		RiskScore:           risk,
		RiskLevel:           levelOf(risk, 0.7, 0.4),
	}
}

func levelOf(v, high, medium float64) string {
	switch {
	case v > high:
		return "high"
	case v > medium:
		return "medium"
	default:
		return "low"
	}
}
