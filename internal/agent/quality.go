package agent

import (
	"fmt"
	"time"

	"github.com/Valeamar/tidal2025/internal/analysis"
	"github.com/Valeamar/tidal2025/internal/insights"
	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/stats"
	"github.com/Valeamar/tidal2025/internal/supplier"
)

const defaultQuoteReliability = 0.5

// AssessQuality scores how trustworthy quotes are as of now.
func AssessQuality(quotes []models.PriceQuote, now time.Time) models.MarketDataQuality {
	if len(quotes) == 0 {
		return models.MarketDataQuality{}
	}

	suppliers := map[string]bool{}
	found := false
	var relSum, freshSum float64
	relN := 0
	for _, q := range quotes {
		suppliers[q.Supplier] = true
		if q.Supplier != "" {
			found = true
		}
		if r := q.ReliabilityOr(0); r > 0 {
			relSum += r
			relN++
		}
		freshSum += freshnessBucket(q.CachedAt, now)
	}

	reliability := defaultQuoteReliability
	if relN > 0 {
		reliability = relSum / float64(relN)
	}
	freshness := freshSum / float64(len(quotes))
	source := min(float64(len(suppliers))/3, 1)
	supplierScore := 0.0
	if found {
		supplierScore = 1
	}

	return models.MarketDataQuality{
		SourceScore:       source,
		ReliabilityScore:  reliability,
		FreshnessScore:    freshness,
		OverallScore:      source*0.3 + reliability*0.3 + freshness*0.2 + supplierScore*0.2,
		QuoteCount:        len(quotes),
		UniqueSources:     len(suppliers),
		SupplierDataFound: found,
	}
}

func freshnessBucket(cachedAt *time.Time, now time.Time) float64 {
	if cachedAt == nil {
		return 0.5
	}
	switch age := now.Sub(*cachedAt); {
	case age < time.Hour:
		return 1
	case age < 6*time.Hour:
		return 0.8
	case age < 24*time.Hour:
		return 0.6
	default:
		return 0.3
	}
}

// EnhancedConfidence blends the statistical confidence with insight
// confidence when insights exist.
func EnhancedConfidence(base float64, ins *insights.Insights) float64 {
	if ins == nil {
		return base
	}
	return stats.Clamp01(base*0.6 + ins.OverallConfidence*0.4)
}

// Limitations lists what the analysis could not rely on.
func Limitations(result *analysis.Result, ins *insights.Insights) []string {
	var out []string

	n := 0
	confidence := 0.0
	if result.Complete() {
		n = result.Price.QuoteCount
		confidence = result.Price.Confidence
	}
	switch {
	case n == 0:
		out = append(out, "No market price data available")
	case n < 3:
		out = append(out, fmt.Sprintf("Limited market data: only %d price quote(s)", n))
	}

	if ins != nil {
		switch {
		case ins.Forecast == nil:
			out = append(out, "Price forecast data unavailable")
		case len(ins.Forecast.Predictions) < 5:
			out = append(out, "Limited forecast horizon due to insufficient historical data")
		}
		switch {
		case ins.Sentiment == nil:
			out = append(out, "Market sentiment analysis unavailable")
		case ins.Sentiment.SourcesAnalyzed < 3:
			out = append(out, "Limited market sentiment data sources")
		}
		if ins.Analytics == nil {
			out = append(out, "Advanced analytics insights unavailable")
		}
	} else {
		out = append(out, "External market insights not available - analysis based on basic market data only")
	}

	if confidence < 0.5 {
		out = append(out, "Low confidence in price estimates due to data quality issues")
	}
	return out
}

// Availability reports which data sections were found.
func Availability(quotes []models.PriceQuote, ins *insights.Insights) DataAvailability {
	a := DataAvailability{PriceDataFound: len(quotes) > 0, MissingDataSections: []string{}}
	for _, q := range quotes {
		if q.Supplier != "" {
			a.SupplierDataFound = true
			break
		}
	}
	if ins != nil {
		a.ForecastDataAvailable = ins.Forecast != nil && len(ins.Forecast.Predictions) > 0
		a.SentimentDataAvailable = ins.Sentiment != nil
	}

	if !a.PriceDataFound {
		a.MissingDataSections = append(a.MissingDataSections, "Market price data")
	}
	if !a.SupplierDataFound {
		a.MissingDataSections = append(a.MissingDataSections, "Supplier information")
	}
	if !a.ForecastDataAvailable {
		a.MissingDataSections = append(a.MissingDataSections, "Price forecast data")
	}
	if !a.SentimentDataAvailable {
		a.MissingDataSections = append(a.MissingDataSections, "Market sentiment data")
	}
	return a
}

// IndividualBudget projects cost bands for quantity units.
func IndividualBudget(r models.PriceRange, quantity float64) Budget {
	target := r.P35
	if target == 0 {
		target = r.P25
	}
	b := Budget{
		Low:    r.P10 * quantity,
		Target: target * quantity,
		High:   r.P90 * quantity,
	}
	b.TotalCost = b.Target
	return b
}

// TopSuppliers turns the best three evaluations into recommendations.
func TopSuppliers(evals []supplier.Evaluation) []SupplierRecommendation {
	if len(evals) > 3 {
		evals = evals[:3]
	}
	out := make([]SupplierRecommendation, 0, len(evals))
	for _, e := range evals {
		lead, rel := e.LeadTimeDays, e.Reliability
		rec := SupplierRecommendation{
			Name:          e.Supplier,
			Price:         e.EffectivePrice,
			DeliveryTerms: e.Quote.DeliveryTerms,
			LeadTime:      &lead,
			Reliability:   &rel,
			ContactInfo:   e.Quote.ContactInfo,
			Location:      e.Quote.Location,
		}
		if moq, ok := e.Quote.MinimumOrder(); ok {
			rec.MOQ = &moq
		}
		out = append(out, rec)
	}
	return out
}
