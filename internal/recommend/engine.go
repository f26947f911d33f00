package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/Valeamar/tidal2025/internal/analysis"
	"github.com/Valeamar/tidal2025/internal/insights"
	"github.com/Valeamar/tidal2025/internal/models"
)

// MaxRecommendations caps the list returned by Generate.
const MaxRecommendations = 8

// defaultMaxPrice stands in for a missing max price in savings estimates.
const defaultMaxPrice = 100.0

// Input is everything the engine looks at for one product.
type Input struct {
	Product  models.ProductInput
	Location models.FarmLocation
	Insights *insights.Insights
	Quality  models.MarketDataQuality
	Analysis *analysis.Result
}

// Engine turns an analysis into ranked recommendations.
type Engine struct {
	now func() time.Time
}

// New returns an Engine using now as its clock; nil means time.Now.
func New(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Generate runs every generator, ranks the results and keeps the top
// MaxRecommendations.
func (e *Engine) Generate(in Input) []models.Recommendation {
	now := e.now()
	g := generator{
		product:  in.Product,
		ins:      in.Insights,
		quality:  in.Quality,
		analysis: in.Analysis,
		month:    now.Month(),
		maxPrice: in.Product.MaxPriceOr(defaultMaxPrice),
	}

	var all []models.Recommendation
	if in.Insights != nil {
		all = append(all, g.forecast()...)
		all = append(all, g.sentiment()...)
		all = append(all, g.analytics()...)
	}
	all = append(all, g.timing()...)
	all = append(all, g.quantity()...)
	all = append(all, g.seasonal()...)
	all = append(all, g.risk()...)
	all = append(all, g.inventory()...)
	if in.Insights == nil || in.Quality.OverallScore < 0.5 {
		all = append(all, g.fallback()...)
	}

	ranked := Prioritize(all)
	if len(ranked) > MaxRecommendations {
		ranked = ranked[:MaxRecommendations]
	}
	return ranked
}

var urgency = map[models.RecommendationType]float64{
	models.SupplyRisk:           1.5,
	models.AnomalyAlert:         1.4,
	models.Timing:               1.3,
	models.BulkDiscount:         1.2,
	models.SeasonalOptimization: 1.1,
	models.GroupPurchase:        1.0,
	models.Substitute:           0.9,
}

// Score ranks a recommendation by savings, confidence and type urgency.
func Score(r models.Recommendation) float64 {
	u, ok := urgency[r.Type]
	if !ok {
		u = 1.0
	}
	savings := math.Min(r.PotentialSavings/1000, 1)
	return savings*0.4 + r.Confidence*0.4 + u*0.2
}

// Prioritize returns recs ordered by descending Score. Equal scores keep
// their relative order.
func Prioritize(recs []models.Recommendation) []models.Recommendation {
	out := make([]models.Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return Score(out[i]) > Score(out[j])
	})
	return out
}
