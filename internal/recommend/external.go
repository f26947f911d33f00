package recommend

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Valeamar/tidal2025/internal/analysis"
	"github.com/Valeamar/tidal2025/internal/insights"
	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/stats"
)

// generator holds the per-call context shared by every rule.
type generator struct {
	product  models.ProductInput
	ins      *insights.Insights
	quality  models.MarketDataQuality
	analysis *analysis.Result
	month    time.Month
	maxPrice float64
}

func (g generator) qty() float64 { return g.product.Quantity }

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func day(t time.Time) string {
	return t.Format("2006-01-02")
}

func rec(t models.RecommendationType, desc string, savings float64, action string, conf float64) models.Recommendation {
	return models.Recommendation{
		Type:             t,
		Description:      desc,
		PotentialSavings: savings,
		ActionRequired:   action,
		Confidence:       stats.Clamp01(conf),
	}
}

func (g generator) forecast() []models.Recommendation {
	f := g.ins.Forecast
	if f == nil || len(f.Predictions) == 0 || f.Confidence < 0.6 {
		return nil
	}
	var out []models.Recommendation
	current := f.CurrentPrice()

	switch {
	case f.Trend == insights.ForecastDeclining && f.DeclinePercent > 3 && !f.LowestDate.IsZero():
		date := day(f.LowestDate)
		out = append(out, rec(models.Timing,
			fmt.Sprintf("Price forecast predicts %.1f%% price decline by %s", f.DeclinePercent, date),
			(current-f.LowestPrice)*g.qty(),
			fmt.Sprintf("Delay purchase until %s for optimal pricing", date),
			f.Confidence))
	case f.Trend == insights.ForecastIncreasing && len(f.Predictions) >= 7:
		var steepest, rise float64
		for i := 0; i+6 < len(f.Predictions); i++ {
			start, end := f.Predictions[i].Price, f.Predictions[i+6].Price
			if start <= 0 {
				continue
			}
			if rate := (end - start) / start * 100; rate > 2 && rate > steepest {
				steepest, rise = rate, end-start
			}
		}
		if steepest > 0 {
			out = append(out, rec(models.Timing,
				fmt.Sprintf("Forecast shows prices rising %.1f%% over next 7 days", steepest),
				rise*g.qty(),
				"Consider purchasing immediately to avoid price increases",
				f.Confidence))
		}
	}

	if f.SeasonalityDetected && len(f.Predictions) >= 30 && current > 0 {
		low := f.Predictions[0]
		for _, p := range f.Predictions[1:] {
			if p.Price < low.Price {
				low = p
			}
		}
		if (current-low.Price)/current > 0.05 {
			date := day(low.Date)
			out = append(out, rec(models.SeasonalOptimization,
				fmt.Sprintf("Forecast shows seasonal low of %s on %s", money(low.Price), date),
				(current-low.Price)*g.qty(),
				fmt.Sprintf("Consider timing purchase for %s", date),
				f.Confidence))
		}
	}
	return out
}

func (g generator) sentiment() []models.Recommendation {
	s := g.ins.Sentiment
	if s == nil {
		return nil
	}
	var out []models.Recommendation

	if s.SupplyRisk > 0.7 {
		out = append(out, rec(models.SupplyRisk,
			fmt.Sprintf("Market sentiment indicates %s supply risk for %s", s.RiskLevel, g.product.Name),
			0,
			"Secure inventory early or identify alternative suppliers to mitigate supply disruption risk",
			s.Confidence))
	}

	switch {
	case s.DemandOutlook == insights.DemandStrong && s.Label == insights.Positive:
		out = append(out, rec(models.Timing,
			"Strong market demand detected - prices likely to increase due to positive sentiment",
			g.qty()*g.maxPrice*0.05,
			"Consider accelerating purchase timeline before demand-driven price increases",
			s.Confidence))
	case s.DemandOutlook == insights.DemandWeak && s.Label == insights.Negative:
		out = append(out, rec(models.Timing,
			"Weak demand outlook suggests potential for price negotiations",
			g.qty()*g.maxPrice*0.03,
			"Negotiate with suppliers for better pricing due to weak market conditions",
			s.Confidence))
	}

	for _, f := range s.KeyFactors {
		if f.Confidence <= 0.7 || f.Sentiment != insights.Negative {
			continue
		}
		text := strings.ToLower(f.Text)
		switch {
		case strings.Contains(text, "weather"):
			out = append(out, rec(models.SupplyRisk,
				"Negative weather sentiment detected - potential supply disruption risk",
				0,
				"Monitor weather conditions and consider early purchasing",
				f.Confidence))
		case strings.Contains(text, "supply"), strings.Contains(text, "logistics"):
			out = append(out, rec(models.SupplyRisk,
				"Supply chain concerns detected in market sentiment",
				0,
				"Secure alternative suppliers and delivery options",
				f.Confidence))
		}
	}
	return out
}

func (g generator) analytics() []models.Recommendation {
	a := g.ins.Analytics
	if a == nil {
		return nil
	}
	var out []models.Recommendation

	if a.AnomalyDetected && a.AnomalyConfidence > 0.7 {
		out = append(out, rec(models.AnomalyAlert,
			"Price anomaly detected: "+a.AnomalyDescription,
			0,
			"Investigate unusual market conditions and consider delaying purchase until market stabilizes",
			a.AnomalyConfidence))
	}

	if a.SeasonalPatternDetected && a.SeasonalSavingsPotential > 5 {
		out = append(out, rec(models.SeasonalOptimization,
			fmt.Sprintf("Seasonal analysis shows %.1f%% savings opportunity in %s", a.SeasonalSavingsPotential, a.OptimalPurchaseMonth),
			g.qty()*g.maxPrice*a.SeasonalSavingsPotential/100,
			fmt.Sprintf("Plan purchase for %s if operational timing allows", a.OptimalPurchaseMonth),
			patternConfidence(a)))
	}

	for _, c := range a.Correlations {
		factor := strings.ToLower(c.Factor)
		switch {
		case strings.Contains(factor, "fuel") && math.Abs(c.Strength) > 0.7:
			out = append(out, rec(models.Timing,
				fmt.Sprintf("Strong correlation with fuel prices detected (%.2f)", c.Strength),
				0,
				"Monitor fuel price trends for optimal purchase timing",
				0.7))
		case strings.Contains(factor, "weather") && c.Strength > 0.6:
			out = append(out, rec(models.Timing,
				"Price correlation with weather patterns identified",
				0,
				"Consider weather forecasts in purchase timing decisions",
				0.6))
		}
	}

	if t := a.Trend; t != nil && t.Significance >= 0.6 && t.Strength > 0.7 {
		switch strings.ToLower(t.Direction) {
		case "increasing":
			out = append(out, rec(models.Timing,
				fmt.Sprintf("Strong upward price trend detected (strength: %.2f)", t.Strength),
				0,
				"Consider purchasing soon to avoid further price increases",
				t.Significance))
		case "decreasing":
			out = append(out, rec(models.Timing,
				fmt.Sprintf("Strong downward price trend detected (strength: %.2f)", t.Strength),
				g.qty()*g.maxPrice*0.03,
				"Consider delaying purchase to benefit from declining prices",
				t.Significance))
		}
	}
	return out
}

func patternConfidence(a *insights.Analytics) float64 {
	if a.PatternConfidence > 0 {
		return a.PatternConfidence
	}
	return 0.8
}
