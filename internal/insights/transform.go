package insights

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/stats"
)

// Response is the wire shape returned by an insights service.
type Response struct {
	Forecast  *ForecastResponse  `json:"forecast,omitempty"`
	Sentiment *SentimentResponse `json:"sentiment,omitempty"`
	Analytics *Analytics         `json:"analytics,omitempty"`
}

type ForecastResponse struct {
	Predictions      []RawPrediction `json:"predictions"`
	Confidence       float64         `json:"confidence"`
	DataQualityScore *float64        `json:"data_quality_score,omitempty"`
}

type RawPrediction struct {
	Timestamp  string   `json:"timestamp"`
	Value      *float64 `json:"value"`
	LowerBound float64  `json:"lower_bound"`
	UpperBound float64  `json:"upper_bound"`
}

type SentimentResponse struct {
	Sentiment       string   `json:"sentiment"`
	Scores          Scores   `json:"sentiment_score"`
	Entities        []Entity `json:"entities"`
	SourceDocuments []string `json:"source_documents"`
}

type Entity struct {
	Text  string  `json:"text"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// HistoryPoint is one dated price sent to an insights service.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Supplier  string    `json:"supplier"`
	Location  string    `json:"location,omitempty"`
}

// PriceHistory turns dated quotes into a chronological series. Undated quotes are skipped.
func PriceHistory(quotes []models.PriceQuote) []HistoryPoint {
	points := make([]HistoryPoint, 0, len(quotes))
	for _, q := range quotes {
		if q.CachedAt == nil {
			continue
		}
		points = append(points, HistoryPoint{
			Timestamp: *q.CachedAt,
			Price:     q.BasePrice,
			Supplier:  q.Supplier,
			Location:  q.Location,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}

// TransformForecast validates raw predictions and derives trend signals.
// Points with an unparseable timestamp or no value are dropped.
func TransformForecast(resp *ForecastResponse) *Forecast {
	if resp == nil {
		return nil
	}

	preds := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		if p.Value == nil || p.Timestamp == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			continue
		}
		preds = append(preds, Prediction{
			Date:  ts,
			Price: math.Max(0, *p.Value),
			Lower: math.Max(0, p.LowerBound),
			Upper: math.Max(0, p.UpperBound),
		})
	}

	quality := 0.8
	if resp.DataQualityScore != nil {
		quality = stats.Clamp01(*resp.DataQualityScore)
	}

	f := NewForecast(preds, stats.Clamp01(resp.Confidence))
	f.DataQuality = quality
	return f
}

// NewForecast derives trend, lowest point, decline and seasonality from predictions.
func NewForecast(preds []Prediction, confidence float64) *Forecast {
	f := &Forecast{
		Predictions: preds,
		Trend:       ForecastStable,
		Confidence:  confidence,
		HorizonDays: len(preds),
	}
	if len(preds) < 2 {
		return f
	}

	prices := make([]float64, len(preds))
	lowest := 0
	for i, p := range preds {
		prices[i] = p.Price
		if p.Price < preds[lowest].Price {
			lowest = i
		}
	}

	change := 0.0
	if first := prices[0]; first > 0 {
		change = (prices[len(prices)-1] - first) / first * 100
	}
	switch {
	case change > 5:
		f.Trend = ForecastIncreasing
	case change < -5:
		f.Trend = ForecastDeclining
		f.DeclinePercent = -change
	}

	f.LowestPrice = preds[lowest].Price
	f.LowestDate = preds[lowest].Date
	f.SeasonalityDetected = seasonal(prices)
	return f
}

// seasonal flags at least twelve points whose population CV exceeds 0.15.
func seasonal(prices []float64) bool {
	if len(prices) < 12 {
		return false
	}
	mean := stats.Mean(prices)
	if mean <= 0 {
		return false
	}
	return stats.PopulationStdDev(prices)/mean > 0.15
}

// TransformSentiment scores supply risk and demand outlook from a raw sentiment response.
func TransformSentiment(resp *SentimentResponse) *Sentiment {
	if resp == nil {
		return nil
	}

	label := strings.ToUpper(resp.Sentiment)
	switch label {
	case Positive, Negative, Neutral, Mixed:
	default:
		label = Neutral
	}

	factors := make([]Factor, 0, 5)
	for _, e := range resp.Entities {
		if len(factors) == 5 {
			break
		}
		text := strings.TrimSpace(e.Text)
		if text == "" || e.Score < 0.1 {
			continue
		}
		factors = append(factors, Factor{
			Text:       text,
			Type:       e.Type,
			Sentiment:  label,
			Confidence: stats.Clamp01(e.Score),
		})
	}

	risk := SupplyRisk(label, resp.Scores)
	return &Sentiment{
		Label:           label,
		Scores:          resp.Scores,
		SupplyRisk:      risk,
		RiskLevel:       RiskLevel(risk),
		DemandOutlook:   DemandOutlook(label, resp.Scores),
		KeyFactors:      factors,
		Confidence:      stats.Clamp01(sentimentConfidence(resp.Scores)),
		SourcesAnalyzed: len(resp.SourceDocuments),
	}
}

// SupplyRisk maps sentiment to a 0..1 supply risk score.
func SupplyRisk(label string, s Scores) float64 {
	switch label {
	case Negative:
		return math.Min(0.8, s.Negative+0.3)
	case Positive:
		return math.Max(0.2, 0.5-s.Positive*0.3)
	default:
		return 0.5
	}
}

// DemandOutlook classifies demand from sentiment strength.
func DemandOutlook(label string, s Scores) string {
	switch {
	case label == Positive && s.Positive > 0.7:
		return DemandStrong
	case label == Negative && s.Negative > 0.7:
		return DemandWeak
	default:
		return DemandModerate
	}
}

// RiskLevel buckets a supply risk score.
func RiskLevel(risk float64) string {
	switch {
	case risk > 0.7:
		return "HIGH"
	case risk > 0.4:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func sentimentConfidence(s Scores) float64 {
	if s.Mixed != 0 {
		return s.Mixed
	}
	if s.Neutral != 0 {
		return s.Neutral
	}
	best := max(s.Positive, s.Negative)
	if best == 0 {
		return 0.5
	}
	return best
}

// OverallConfidence weighs the available services and data completeness.
func OverallConfidence(f *Forecast, s *Sentiment, a *Analytics, completeness float64) float64 {
	var forecastConf, sentimentConf, analyticsConf float64
	services := 0
	if f != nil {
		forecastConf = f.Confidence
		services++
	}
	if s != nil {
		sentimentConf = s.Confidence
		services++
	}
	if a != nil {
		analyticsConf = a.DataFreshness
		services++
	}
	reliability := math.Min(1, float64(services)/3+0.3)
	const temporalRelevance = 0.9

	overall := forecastConf*0.3 +
		sentimentConf*0.2 +
		analyticsConf*0.2 +
		completeness*0.15 +
		reliability*0.1 +
		temporalRelevance*0.05
	return math.Min(1, overall)
}

// Completeness normalises a quote count to 0..1, saturating at ten quotes.
func Completeness(quoteCount int) float64 {
	return math.Min(1, float64(quoteCount)/10)
}

// Assemble transforms a raw response into Insights.
func Assemble(resp *Response, quoteCount int) *Insights {
	if resp == nil {
		return nil
	}
	out := &Insights{
		Forecast:     TransformForecast(resp.Forecast),
		Sentiment:    TransformSentiment(resp.Sentiment),
		Analytics:    clampAnalytics(resp.Analytics),
		ServicesUsed: []string{},
	}
	if out.Forecast != nil {
		out.ServicesUsed = append(out.ServicesUsed, "forecast")
	}
	if out.Sentiment != nil {
		out.ServicesUsed = append(out.ServicesUsed, "sentiment")
	}
	if out.Analytics != nil {
		out.ServicesUsed = append(out.ServicesUsed, "analytics")
	}
	out.OverallConfidence = OverallConfidence(out.Forecast, out.Sentiment, out.Analytics, Completeness(quoteCount))
	return out
}

// clampAnalytics copies a and bounds its confidence-like scores to 0..1.
func clampAnalytics(a *Analytics) *Analytics {
	if a == nil {
		return nil
	}
	out := *a
	out.AnomalyConfidence = stats.Clamp01(out.AnomalyConfidence)
	out.PatternConfidence = stats.Clamp01(out.PatternConfidence)
	out.DataFreshness = stats.Clamp01(out.DataFreshness)
	if out.Trend != nil {
		trend := *out.Trend
		trend.Significance = stats.Clamp01(trend.Significance)
		out.Trend = &trend
	}
	return &out
}
