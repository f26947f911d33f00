package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/Valeamar/tidal2025/internal/models"
)

// MinForecastQuotes is how many quotes a forecast needs as history.
const MinForecastQuotes = 10

// Mock produces deterministic insights from the quotes themselves.
type Mock struct {
	Now func() time.Time
}

// NewMock returns a Mock using now as its clock; nil means time.Now.
func NewMock(now func() time.Time) *Mock {
	if now == nil {
		now = time.Now
	}
	return &Mock{Now: now}
}

func (m *Mock) Insights(ctx context.Context, productName string, quotes []models.PriceQuote, loc models.FarmLocation) (*Insights, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Assemble(m.Response(quotes), len(quotes)), nil
}

// Response builds the raw response a live service would return.
func (m *Mock) Response(quotes []models.PriceQuote) *Response {
	now := m.Now()
	resp := &Response{
		Sentiment: &SentimentResponse{
			Sentiment: Neutral,
			Scores:    Scores{Positive: 0.3, Negative: 0.2, Neutral: 0.5},
			Entities: []Entity{
				{Text: "weather conditions", Type: "OTHER", Score: 0.8},
				{Text: "supply chain", Type: "OTHER", Score: 0.7},
			},
			SourceDocuments: []string{"mock_news_1", "mock_news_2", "mock_news_3"},
		},
		Analytics: m.analytics(now),
	}
	if len(quotes) >= MinForecastQuotes {
		resp.Forecast = m.forecast(quotes, now)
	}
	return resp
}

func (m *Mock) forecast(quotes []models.PriceQuote, now time.Time) *ForecastResponse {
	sum := 0.0
	for _, q := range quotes {
		sum += q.BasePrice
	}
	base := sum / float64(len(quotes))

	preds := make([]RawPrediction, 30)
	for i := range preds {
		price := base * (1 - float64(i)*0.001)
		preds[i] = RawPrediction{
			Timestamp:  now.AddDate(0, 0, i).Format(time.RFC3339),
			Value:      &price,
			LowerBound: price * 0.9,
			UpperBound: price * 1.1,
		}
	}
	quality := 0.75
	return &ForecastResponse{Predictions: preds, Confidence: 0.8, DataQualityScore: &quality}
}

func (m *Mock) analytics(now time.Time) *Analytics {
	optimal := 11
	if now.Month() > time.February {
		optimal = 2
	}
	return &Analytics{
		SeasonalPatternDetected:  true,
		OptimalPurchaseMonth:     fmt.Sprintf("Month %d", optimal),
		SeasonalSavingsPotential: 8.5,
		PatternConfidence:        0.75,
		Correlations: []Correlation{
			{Factor: "fuel_prices", Strength: 0.6, Description: "Moderate positive correlation with fuel costs"},
		},
		Trend: &TrendAnalysis{
			Direction:    "stable",
			Strength:     0.6,
			DurationDays: 30,
			Significance: 0.8,
		},
		DataFreshness: 0.8,
	}
}
