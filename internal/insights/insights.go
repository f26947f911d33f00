package insights

import (
	"context"
	"time"

	"github.com/Valeamar/tidal2025/internal/models"
)

// Forecast trend labels.
const (
	ForecastIncreasing = "increasing"
	ForecastDeclining  = "declining"
	ForecastStable     = "stable"
)

// Sentiment labels.
const (
	Positive = "POSITIVE"
	Negative = "NEGATIVE"
	Neutral  = "NEUTRAL"
	Mixed    = "MIXED"
)

// Demand outlooks.
const (
	DemandStrong   = "Strong"
	DemandModerate = "Moderate"
	DemandWeak     = "Weak"
)

// Prediction is one forecast point.
type Prediction struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"predicted_price"`
	Lower float64   `json:"lower_bound"`
	Upper float64   `json:"upper_bound"`
}

// Forecast is a price forecast with derived trend signals.
type Forecast struct {
	Predictions         []Prediction `json:"predictions"`
	Trend               string       `json:"trend"`
	Confidence          float64      `json:"confidence"`
	LowestPrice         float64      `json:"predicted_lowest_price"`
	LowestDate          time.Time    `json:"lowest_price_date"`
	DeclinePercent      float64      `json:"decline_percentage"`
	HorizonDays         int          `json:"forecast_horizon_days"`
	SeasonalityDetected bool         `json:"seasonality_detected"`
	DataQuality         float64      `json:"data_quality_score"`
}

// CurrentPrice is the first predicted price, or 0 without predictions.
func (f *Forecast) CurrentPrice() float64 {
	if f == nil || len(f.Predictions) == 0 {
		return 0
	}
	return f.Predictions[0].Price
}

// Scores holds per-label sentiment scores.
type Scores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

// Factor is a market driver extracted from sentiment sources.
type Factor struct {
	Text       string  `json:"factor"`
	Type       string  `json:"type"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Sentiment is the market mood around a product.
type Sentiment struct {
	Label           string   `json:"overall_sentiment"`
	Scores          Scores   `json:"scores"`
	SupplyRisk      float64  `json:"supply_risk_score"`
	RiskLevel       string   `json:"risk_level"`
	DemandOutlook   string   `json:"demand_outlook"`
	KeyFactors      []Factor `json:"key_factors"`
	Confidence      float64  `json:"confidence_score"`
	SourcesAnalyzed int      `json:"news_sources_analyzed"`
}

// Correlation links price movement to an external factor.
type Correlation struct {
	Factor      string  `json:"factor"`
	Strength    float64 `json:"correlation_strength"`
	Description string  `json:"impact_description"`
}

// TrendAnalysis is a statistically tested price trend.
type TrendAnalysis struct {
	Direction    string  `json:"direction"`
	Strength     float64 `json:"strength"`
	DurationDays int     `json:"duration_days"`
	Significance float64 `json:"statistical_significance"`
}

// Analytics carries anomaly, seasonal and correlation findings.
type Analytics struct {
	AnomalyDetected          bool           `json:"price_anomaly_detected"`
	AnomalyConfidence        float64        `json:"anomaly_confidence,omitempty"`
	AnomalyDescription       string         `json:"anomaly_description,omitempty"`
	SeasonalPatternDetected  bool           `json:"seasonal_pattern_detected"`
	OptimalPurchaseMonth     string         `json:"optimal_purchase_month,omitempty"`
	SeasonalSavingsPotential float64        `json:"seasonal_savings_potential,omitempty"`
	PatternConfidence        float64        `json:"pattern_confidence,omitempty"`
	Correlations             []Correlation  `json:"correlations"`
	Trend                    *TrendAnalysis `json:"trend_analysis,omitempty"`
	DataFreshness            float64        `json:"data_freshness_score"`
}

// Insights bundles whichever external findings were available. Any part may be nil.
type Insights struct {
	Forecast          *Forecast  `json:"forecast,omitempty"`
	Sentiment         *Sentiment `json:"sentiment,omitempty"`
	Analytics         *Analytics `json:"analytics,omitempty"`
	OverallConfidence float64    `json:"overall_confidence"`
	ServicesUsed      []string   `json:"services_used"`
}

// Provider supplies insights for a product. Implementations may return
// partial insights; an error means none could be produced.
type Provider interface {
	Insights(ctx context.Context, productName string, quotes []models.PriceQuote, loc models.FarmLocation) (*Insights, error)
}
