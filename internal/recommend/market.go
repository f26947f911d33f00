package recommend

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Valeamar/tidal2025/internal/insights"
	"github.com/Valeamar/tidal2025/internal/models"
)

// season returns the analysis seasonality, or false when no analysis ran.
func (g generator) season() (current float64, optimal int, savingsPct float64, ok bool) {
	if !g.analysis.Complete() {
		return 0, 0, 0, false
	}
	s := g.analysis.Seasonality
	return s.CurrentSeasonMultiplier, s.OptimalPurchaseMonth, s.SeasonalSavingsPotential, true
}

func (g generator) timing() []models.Recommendation {
	_, optimal, pct, ok := g.season()
	if !ok || pct <= 5 {
		return nil
	}
	return []models.Recommendation{rec(models.SeasonalOptimization,
		fmt.Sprintf("Historical data shows %.1f%% lower prices in month %d", pct, optimal),
		g.qty()*g.maxPrice*pct/100,
		fmt.Sprintf("Consider timing purchase for month %d if operationally feasible", optimal),
		0.7)}
}

func (g generator) quantity() []models.Recommendation {
	if !g.analysis.Complete() {
		return nil
	}
	evals := g.analysis.Suppliers
	if len(evals) > 3 {
		evals = evals[:3]
	}
	moqConf := 0.6
	if g.quality.SupplierDataFound {
		moqConf = 0.9
	}

	var out []models.Recommendation
	for _, e := range evals {
		switch {
		case !e.MOQMet && e.MOQShortfall > 0:
			total := g.qty() + e.MOQShortfall
			out = append(out, rec(models.BulkDiscount,
				fmt.Sprintf("Increase quantity by %s units to meet %s MOQ and unlock bulk pricing", humanize.Ftoa(e.MOQShortfall), e.Supplier),
				e.PriceBreakSavings*total,
				fmt.Sprintf("Consider ordering %s total units from %s", humanize.Ftoa(total), e.Supplier),
				moqConf))
		case e.PriceBreakApplied && e.PriceBreakSavings > 0:
			out = append(out, rec(models.BulkDiscount,
				fmt.Sprintf("Current quantity qualifies for bulk pricing with %s (%s per unit savings)", e.Supplier, money(e.PriceBreakSavings)),
				e.PriceBreakSavings*g.qty(),
				"Confirm bulk pricing terms with "+e.Supplier,
				0.8))
		}
	}
	return out
}

func (g generator) seasonal() []models.Recommendation {
	if g.ins != nil && g.ins.Analytics != nil {
		a := g.ins.Analytics
		if !a.SeasonalPatternDetected || a.SeasonalSavingsPotential <= 3 {
			return nil
		}
		return []models.Recommendation{rec(models.SeasonalOptimization,
			fmt.Sprintf("ML analysis identifies %.1f%% seasonal savings in %s", a.SeasonalSavingsPotential, a.OptimalPurchaseMonth),
			g.qty()*g.maxPrice*a.SeasonalSavingsPotential/100,
			fmt.Sprintf("Align purchase timing with %s seasonal low", a.OptimalPurchaseMonth),
			patternConfidence(a))}
	}

	current, optimal, pct, ok := g.season()
	if !ok || current <= 1.05 || pct <= 3 {
		return nil
	}
	return []models.Recommendation{rec(models.SeasonalOptimization,
		fmt.Sprintf("Currently in high-price season (multiplier: %.2f). Historical data shows %.1f%% savings in month %d", current, pct, optimal),
		g.qty()*g.maxPrice*pct/100,
		fmt.Sprintf("Consider delaying purchase until month %d if timing permits", optimal),
		0.7)}
}

func (g generator) risk() []models.Recommendation {
	var out []models.Recommendation

	if g.ins != nil {
		if s := g.ins.Sentiment; s != nil && s.SupplyRisk > 0.6 {
			out = append(out, rec(models.SupplyRisk,
				fmt.Sprintf("Market sentiment analysis indicates %s supply risk", s.RiskLevel),
				0,
				"Diversify suppliers and consider early inventory securing",
				s.Confidence))
		}
		if a := g.ins.Analytics; a != nil && a.AnomalyDetected {
			conf := a.AnomalyConfidence
			if conf == 0 {
				conf = 0.7
			}
			out = append(out, rec(models.AnomalyAlert,
				"Price anomaly detected: "+a.AnomalyDescription,
				0,
				"Monitor market conditions closely before making purchase decisions",
				conf))
		}
	}

	if g.quality.OverallScore < 0.4 {
		out = append(out, rec(models.SupplyRisk,
			fmt.Sprintf("Low market data coverage (%.0f%%) increases purchase risk", g.quality.OverallScore*100),
			0,
			"Conduct additional market research and get multiple quotes before purchasing",
			0.8))
	}
	if g.quality.QuoteCount < 3 {
		out = append(out, rec(models.SupplyRisk,
			fmt.Sprintf("Limited supplier options (%d quotes) increases supply risk", g.quality.QuoteCount),
			0,
			"Expand supplier search to reduce dependency risk",
			0.7))
	}
	return out
}

var perishable = []string{"seed", "fertilizer", "chemical"}

func (g generator) inventory() []models.Recommendation {
	var out []models.Recommendation

	if _, optimal, pct, ok := g.season(); ok && pct > 10 {
		months := (optimal - int(g.month) + 12) % 12
		if months >= 1 && months <= 2 {
			out = append(out, rec(models.SeasonalOptimization,
				fmt.Sprintf("Optimal purchase window approaching in %d month(s) - consider storage capacity", months),
				g.qty()*g.maxPrice*0.08,
				fmt.Sprintf("Prepare storage facilities for bulk purchase in month %d", optimal),
				0.8))
		}
	}

	if g.qty() > 1000 {
		out = append(out, rec(models.BulkDiscount,
			fmt.Sprintf("Large quantity (%s units) may benefit from staged delivery", humanize.Ftoa(g.qty())),
			g.qty()*g.maxPrice*0.02,
			"Consider splitting order into 2-3 deliveries to optimize storage costs and cash flow",
			0.7))
	}

	if g.ins != nil {
		if f := g.ins.Forecast; f != nil && f.Trend == insights.ForecastIncreasing && len(f.Predictions) > 30 {
			current, future := f.CurrentPrice(), f.Predictions[30].Price
			if current > 0 && (future-current)/current > 0.05 {
				out = append(out, rec(models.Timing,
					fmt.Sprintf("Price forecast shows %.1f%% increase over 30 days - storage may be profitable", (future-current)/current*100),
					(future-current)*g.qty()*0.7,
					"Evaluate storage costs vs. projected price increases for inventory buildup",
					f.Confidence))
			}
		}
	}

	name := strings.ToLower(g.product.Name)
	for _, kw := range perishable {
		if strings.Contains(name, kw) {
			out = append(out, rec(models.Timing,
				"Product has limited shelf life - optimize purchase timing with usage schedule",
				0,
				"Align purchase timing with planting schedule to minimize spoilage risk",
				0.9))
			break
		}
	}
	return out
}
