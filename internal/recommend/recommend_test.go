package recommend

import (
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Valeamar/tidal2025/internal/analysis"
	"github.com/Valeamar/tidal2025/internal/insights"
	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/supplier"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func clockAt(month time.Month) func() time.Time {
	return func() time.Time { return time.Date(2025, month, 10, 12, 0, 0, 0, time.UTC) }
}

func countType(recs []models.Recommendation, typ models.RecommendationType) int {
	n := 0
	for _, r := range recs {
		if r.Type == typ {
			n++
		}
	}
	return n
}

func TestLargeQuantitySuggestsStagedDelivery(t *testing.T) {
	e := New(clockAt(time.July))

	recs := e.Generate(Input{
		Product: models.ProductInput{Name: "Baler Twine", Quantity: 1500, Unit: "roll"},
		Quality: models.MarketDataQuality{OverallScore: 0.8, QuoteCount: 5, SupplierDataFound: true},
	})

	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d: %+v", len(recs), recs)
	}
	if recs[0].Type != models.BulkDiscount || !strings.Contains(recs[0].Description, "1500 units") {
		t.Fatalf("unexpected recommendation %+v", recs[0])
	}
	nearlyEqual(t, "savings", recs[0].PotentialSavings, 1500*100*0.02)
}

func TestThinDataFallsBack(t *testing.T) {
	e := New(clockAt(time.April))

	recs := e.Generate(Input{
		Product: models.ProductInput{Name: "Corn Seed", Quantity: 50, Unit: "bag"},
		Quality: models.MarketDataQuality{OverallScore: 0.3, QuoteCount: 1},
	})

	if len(recs) == 0 || len(recs) > MaxRecommendations {
		t.Fatalf("unexpected count %d", len(recs))
	}
	if countType(recs, models.Substitute)+countType(recs, models.GroupPurchase) == 0 {
		t.Fatalf("expected substitute or group purchase advice, got %+v", recs)
	}
	for i := 1; i < len(recs); i++ {
		if Score(recs[i]) > Score(recs[i-1]) {
			t.Fatalf("recommendations not ranked at %d", i)
		}
	}
}

func TestGenerateCapsAtEight(t *testing.T) {
	e := New(clockAt(time.April))

	recs := e.Generate(Input{
		Product: models.ProductInput{
			Name:            "Hybrid Corn Seed",
			Quantity:        50,
			Specifications:  "premium treated",
			PreferredBrands: []string{"Pioneer"},
		},
		Quality: models.MarketDataQuality{OverallScore: 0.1, QuoteCount: 0},
	})

	if len(recs) != MaxRecommendations {
		t.Fatalf("expected %d recommendations, got %d", MaxRecommendations, len(recs))
	}
}

func TestForecastDeclineRecommendsDelay(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	preds := []insights.Prediction{
		{Date: start, Price: 100},
		{Date: start.AddDate(0, 0, 1), Price: 95},
		{Date: start.AddDate(0, 0, 2), Price: 90},
	}
	e := New(clockAt(time.July))

	recs := e.Generate(Input{
		Product:  models.ProductInput{Name: "Urea", Quantity: 10},
		Insights: &insights.Insights{Forecast: insights.NewForecast(preds, 0.8)},
		Quality:  models.MarketDataQuality{OverallScore: 0.9, QuoteCount: 5, SupplierDataFound: true},
	})

	if len(recs) != 1 || recs[0].Type != models.Timing {
		t.Fatalf("unexpected recommendations %+v", recs)
	}
	if !strings.Contains(recs[0].ActionRequired, "2025-07-03") {
		t.Fatalf("action = %q", recs[0].ActionRequired)
	}
	nearlyEqual(t, "savings", recs[0].PotentialSavings, 100)
	nearlyEqual(t, "confidence", recs[0].Confidence, 0.8)
}

func TestLowConfidenceForecastIgnored(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	preds := []insights.Prediction{{Date: start, Price: 100}, {Date: start.AddDate(0, 0, 1), Price: 80}}
	g := generator{
		product: models.ProductInput{Name: "Urea", Quantity: 10},
		ins:     &insights.Insights{Forecast: insights.NewForecast(preds, 0.5)},
	}

	if got := g.forecast(); len(got) != 0 {
		t.Fatalf("expected no forecast recommendations, got %+v", got)
	}
}

func TestRisingForecastSavingsUseSteepestWindow(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	prices := []float64{100}
	prices = append(prices, slices.Repeat([]float64{50}, 10)...)
	prices = append(prices, 60, 70)
	prices = append(prices, slices.Repeat([]float64{80}, 6)...)
	prices = append(prices, 110)
	preds := make([]insights.Prediction, len(prices))
	for i, p := range prices {
		preds[i] = insights.Prediction{Date: start.AddDate(0, 0, i), Price: p}
	}
	g := generator{
		product: models.ProductInput{Name: "Urea", Quantity: 10},
		ins: &insights.Insights{Forecast: &insights.Forecast{
			Predictions: preds,
			Trend:       insights.ForecastIncreasing,
			Confidence:  0.8,
		}},
	}

	recs := g.forecast()

	if len(recs) != 1 || recs[0].Type != models.Timing {
		t.Fatalf("unexpected recommendations %+v", recs)
	}
	if !strings.Contains(recs[0].Description, "60.0%") {
		t.Fatalf("description = %q", recs[0].Description)
	}
	nearlyEqual(t, "savings", recs[0].PotentialSavings, 300)
}

func TestQuantityRecommendations(t *testing.T) {
	result := &analysis.Result{
		Status: analysis.StatusComplete,
		Suppliers: []supplier.Evaluation{
			{Supplier: "AgriCo", MOQShortfall: 40, PriceBreakSavings: 2},
			{Supplier: "FarmMart", MOQMet: true, PriceBreakApplied: true, PriceBreakSavings: 1.5},
			{Supplier: "Plain", MOQMet: true},
			{Supplier: "Fourth", MOQShortfall: 10, PriceBreakSavings: 1},
		},
		Seasonality: analysis.SeasonalityFactors{CurrentSeasonMultiplier: 1, OptimalPurchaseMonth: 7},
	}
	g := generator{
		product:  models.ProductInput{Name: "Twine", Quantity: 60},
		quality:  models.MarketDataQuality{SupplierDataFound: true},
		analysis: result,
		maxPrice: 100,
	}

	recs := g.quantity()

	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations from top 3 suppliers, got %+v", recs)
	}
	if !strings.Contains(recs[0].Description, "by 40 units to meet AgriCo MOQ") {
		t.Fatalf("description = %q", recs[0].Description)
	}
	nearlyEqual(t, "moq savings", recs[0].PotentialSavings, 200)
	nearlyEqual(t, "moq confidence", recs[0].Confidence, 0.9)
	if !strings.Contains(recs[0].ActionRequired, "100 total units") {
		t.Fatalf("action = %q", recs[0].ActionRequired)
	}
	nearlyEqual(t, "break savings", recs[1].PotentialSavings, 90)
	nearlyEqual(t, "break confidence", recs[1].Confidence, 0.8)
}

func TestApproachingWindowAndTiming(t *testing.T) {
	result := &analysis.Result{
		Status: analysis.StatusComplete,
		Seasonality: analysis.SeasonalityFactors{
			CurrentMonth:             6,
			CurrentSeasonMultiplier:  1.0,
			OptimalPurchaseMonth:     8,
			SeasonalSavingsPotential: 12,
		},
	}
	g := generator{
		product:  models.ProductInput{Name: "Twine", Quantity: 10},
		analysis: result,
		month:    time.June,
		maxPrice: 100,
	}

	inv := g.inventory()
	if len(inv) != 1 || !strings.Contains(inv[0].Description, "2 month(s)") {
		t.Fatalf("unexpected inventory recommendations %+v", inv)
	}
	nearlyEqual(t, "inventory savings", inv[0].PotentialSavings, 80)

	timing := g.timing()
	if len(timing) != 1 || timing[0].Type != models.SeasonalOptimization {
		t.Fatalf("unexpected timing recommendations %+v", timing)
	}
	nearlyEqual(t, "timing savings", timing[0].PotentialSavings, 120)

	if got := g.seasonal(); len(got) != 0 {
		t.Fatalf("multiplier 1.0 is not high season, got %+v", got)
	}
}

func TestSentimentRecommendations(t *testing.T) {
	g := generator{
		product:  models.ProductInput{Name: "Potash", Quantity: 10},
		maxPrice: 100,
		ins: &insights.Insights{Sentiment: &insights.Sentiment{
			Label:         insights.Negative,
			SupplyRisk:    0.8,
			RiskLevel:     "HIGH",
			DemandOutlook: insights.DemandWeak,
			Confidence:    0.6,
			KeyFactors: []insights.Factor{
				{Text: "Weather damage", Sentiment: insights.Negative, Confidence: 0.9},
				{Text: "logistics delays", Sentiment: insights.Negative, Confidence: 0.8},
				{Text: "supply glut", Sentiment: insights.Positive, Confidence: 0.9},
			},
		}},
	}

	recs := g.sentiment()

	if len(recs) != 4 {
		t.Fatalf("expected 4 recommendations, got %+v", recs)
	}
	if recs[0].Type != models.SupplyRisk || !strings.Contains(recs[0].Description, "HIGH supply risk for Potash") {
		t.Fatalf("unexpected first recommendation %+v", recs[0])
	}
	nearlyEqual(t, "negotiation savings", recs[1].PotentialSavings, 30)
	if countType(recs, models.SupplyRisk) != 3 {
		t.Fatalf("expected 3 supply risk recommendations")
	}
}

func TestAnalyticsRecommendations(t *testing.T) {
	g := generator{
		product:  models.ProductInput{Name: "Diesel", Quantity: 100},
		maxPrice: 4,
		ins: &insights.Insights{Analytics: &insights.Analytics{
			AnomalyDetected:          true,
			AnomalyConfidence:        0.9,
			AnomalyDescription:       "spike",
			SeasonalPatternDetected:  true,
			OptimalPurchaseMonth:     "Month 9",
			SeasonalSavingsPotential: 10,
			Correlations: []insights.Correlation{
				{Factor: "fuel_prices", Strength: -0.75},
				{Factor: "weather_index", Strength: 0.65},
				{Factor: "fuel_prices", Strength: 0.65},
			},
			Trend: &insights.TrendAnalysis{Direction: "decreasing", Strength: 0.8, Significance: 0.7},
		}},
	}

	recs := g.analytics()

	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %+v", recs)
	}
	if recs[0].Type != models.AnomalyAlert || recs[0].Description != "Price anomaly detected: spike" {
		t.Fatalf("unexpected anomaly %+v", recs[0])
	}
	nearlyEqual(t, "seasonal savings", recs[1].PotentialSavings, 40)
	nearlyEqual(t, "seasonal confidence", recs[1].Confidence, 0.8)
	if !strings.Contains(recs[2].Description, "(-0.75)") {
		t.Fatalf("unexpected correlation %q", recs[2].Description)
	}
	nearlyEqual(t, "trend savings", recs[4].PotentialSavings, 12)
}

func TestWeatherCorrelationMustBePositive(t *testing.T) {
	g := generator{
		product: models.ProductInput{Name: "Urea", Quantity: 10},
		ins: &insights.Insights{Analytics: &insights.Analytics{
			Correlations: []insights.Correlation{
				{Factor: "weather_index", Strength: -0.9},
				{Factor: "fuel_prices", Strength: -0.9},
			},
		}},
	}

	recs := g.analytics()

	if len(recs) != 1 || !strings.Contains(recs[0].Description, "fuel") {
		t.Fatalf("expected only the fuel recommendation, got %+v", recs)
	}
}

func TestAnalyticsConfidenceBounded(t *testing.T) {
	tests := []struct {
		name     string
		analytic insights.Analytics
		want     float64
	}{
		{
			name:     "anomaly above one",
			analytic: insights.Analytics{AnomalyDetected: true, AnomalyConfidence: 85, AnomalyDescription: "spike"},
			want:     1,
		},
		{
			name:     "pattern above one",
			analytic: insights.Analytics{SeasonalPatternDetected: true, SeasonalSavingsPotential: 10, PatternConfidence: 1.7},
			want:     1,
		},
		{
			name:     "trend significance above one",
			analytic: insights.Analytics{Trend: &insights.TrendAnalysis{Direction: "increasing", Strength: 0.9, Significance: 4}},
			want:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.analytic
			g := generator{
				product:  models.ProductInput{Name: "Urea", Quantity: 10},
				maxPrice: 100,
				ins:      &insights.Insights{Analytics: &a},
			}

			recs := g.analytics()

			if len(recs) != 1 {
				t.Fatalf("expected 1 recommendation, got %+v", recs)
			}
			nearlyEqual(t, "confidence", recs[0].Confidence, tt.want)
		})
	}
}

func TestPrioritizeIsStable(t *testing.T) {
	a := models.Recommendation{Type: models.Timing, Description: "a", Confidence: 0.5}
	b := models.Recommendation{Type: models.Timing, Description: "b", Confidence: 0.5}
	risk := models.Recommendation{Type: models.SupplyRisk, Description: "risk", Confidence: 0.5}

	got := Prioritize([]models.Recommendation{a, b, risk})

	if got[0].Description != "risk" || got[1].Description != "a" || got[2].Description != "b" {
		t.Fatalf("unexpected order %+v", got)
	}
	nearlyEqual(t, "score", Score(models.Recommendation{Type: models.Substitute, PotentialSavings: 5000, Confidence: 1}), 0.4+0.4+0.18)
}

func TestValidate(t *testing.T) {
	budget := 10.0
	product := models.ProductInput{Name: "Urea", Quantity: 10, MaxPrice: &budget}
	recs := []models.Recommendation{
		{Type: models.Timing, Description: "d", ActionRequired: "Delay purchase", Confidence: 0.8},
		{Type: models.BulkDiscount, Description: "d", ActionRequired: "Order more", Confidence: 0.8},
		{Type: models.SeasonalOptimization, Description: "d", ActionRequired: "Buy in month 4", Confidence: 0.8},
		{Type: models.SupplyRisk, Description: "d", ActionRequired: "Act", Confidence: 0.2},
		{Type: models.SupplyRisk, Description: "", ActionRequired: "Act", Confidence: 0.9},
		{Type: models.GroupPurchase, Description: "keep", ActionRequired: "Join", Confidence: 0.3},
	}

	got := Validate(recs, product, Constraints{UrgentPurchase: true, ImmediateNeed: true, MaxBudget: 50})

	if len(got) != 1 || got[0].Description != "keep" {
		t.Fatalf("unexpected validated set %+v", got)
	}

	if n := len(Validate(recs, product, Constraints{MaxBudget: 500})); n != 4 {
		t.Fatalf("without constraints expected 4, got %d", n)
	}
}

func TestFormat(t *testing.T) {
	got := Format([]models.Recommendation{
		{Type: models.SupplyRisk, Description: "d", ActionRequired: "a", Confidence: 0.5},
		{Type: models.Timing, Description: "d", ActionRequired: "Buy soon", PotentialSavings: 200, Confidence: 0.65},
		{Type: "OTHER", Description: "d", ActionRequired: "a", Confidence: 0.9},
	})

	if got[0].ID != 1 || got[0].Priority != "high" || got[0].Urgency != "urgent" || got[0].Title != "Supply Risk Alert" {
		t.Fatalf("unexpected first %+v", got[0])
	}
	if got[1].Priority != "medium" || got[1].Urgency != "high" || got[1].ConfidenceLevel != "medium" || got[1].ImplementationDifficulty != "medium" {
		t.Fatalf("unexpected second %+v", got[1])
	}
	if got[2].Title != "Optimization Opportunity" || got[2].Priority != "medium" || got[2].ImplementationDifficulty != "low" {
		t.Fatalf("unexpected third %+v", got[2])
	}
}
