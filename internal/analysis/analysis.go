package analysis

import (
	"time"

	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/pricing"
	"github.com/Valeamar/tidal2025/internal/stats"
	"github.com/Valeamar/tidal2025/internal/supplier"
)

// Status reports whether an analysis could be produced.
type Status string

const (
	StatusComplete Status = "complete"
	StatusNoData   Status = "no_data"
)

// PriceAnalysis is the statistical summary over adjusted effective costs.
type PriceAnalysis struct {
	Ranges      models.PriceRange `json:"price_ranges"`
	TargetPrice float64           `json:"target_price"`
	Confidence  float64           `json:"confidence_score"`
	QuoteCount  int               `json:"num_quotes_analyzed"`
}

// AdjustedCost is one quote's breakdown with contextual multipliers applied.
type AdjustedCost struct {
	Supplier string `json:"supplier"`
	pricing.Breakdown
	RegionalDensityFactor float64 `json:"regional_density_factor"`
	CompetitionFactor     float64 `json:"competition_factor"`
	InfrastructureFactor  float64 `json:"infrastructure_factor"`
	SeasonalMultiplier    float64 `json:"seasonal_multiplier"`
	CalendarAlignment     float64 `json:"calendar_alignment"`
	QualityAdjustment     float64 `json:"quality_adjustment"`
	FinalAdjustedCost     float64 `json:"final_adjusted_cost"`
}

// Result is the full economic analysis of one product. Callers must check
// Complete before reading any other section.
type Result struct {
	ProductName    string                `json:"product_name"`
	Status         Status                `json:"status"`
	Error          string                `json:"error,omitempty"`
	Category       string                `json:"category,omitempty"`
	Specification  SpecAnalysis          `json:"specification_analysis"`
	Suppliers      []supplier.Evaluation `json:"supplier_evaluations"`
	Location       LocationFactors       `json:"location_factors"`
	Seasonality    SeasonalityFactors    `json:"seasonality_analysis"`
	Price          PriceAnalysis         `json:"price_analysis"`
	CostBreakdowns []AdjustedCost        `json:"detailed_cost_breakdowns"`
	Dynamics       MarketDynamics        `json:"market_dynamics"`
	Compliance     Compliance            `json:"compliance_analysis"`
	Advice         []Advice              `json:"optimization_recommendations"`
}

// Complete reports whether the analysis ran.
func (r *Result) Complete() bool {
	return r != nil && r.Status == StatusComplete
}

// AdjustedCosts returns the final adjusted cost of every quote in input order.
func (r *Result) AdjustedCosts() []float64 {
	costs := make([]float64, len(r.CostBreakdowns))
	for i, c := range r.CostBreakdowns {
		costs[i] = c.FinalAdjustedCost
	}
	return costs
}

// Analyzer composes the cost model, statistics and supplier evaluation into a
// per-product analysis. It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	calc      *pricing.Calculator
	evaluator *supplier.Evaluator
	now       func() time.Time
}

// New returns an Analyzer. Nil arguments fall back to defaults.
func New(calc *pricing.Calculator, evaluator *supplier.Evaluator, now func() time.Time) *Analyzer {
	if calc == nil {
		calc = pricing.NewCalculator(pricing.DefaultRates(), nil)
	}
	if evaluator == nil {
		evaluator = supplier.NewEvaluator(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &Analyzer{calc: calc, evaluator: evaluator, now: now}
}

// Analyze runs the full economic analysis for product. With no quotes it
// returns a StatusNoData result and skips every other step.
func (a *Analyzer) Analyze(product models.ProductInput, quotes []models.PriceQuote, loc models.FarmLocation) *Result {
	if len(quotes) == 0 {
		return &Result{
			ProductName: product.Name,
			Status:      StatusNoData,
			Error:       "No price quotes available for analysis",
		}
	}

	now := a.now()
	category := a.calc.Category(product.Name)

	spec := Specification(product, quotes)
	evals := a.evaluator.Evaluate(quotes, product.Quantity)
	location := Location(loc, quotes)
	season := Seasonality(category, now.Month())

	multiplier := location.RegionalMarketDensity *
		location.LocalCompetitionLevel *
		location.TransportationInfrastructure *
		season.CurrentSeasonMultiplier *
		season.PlantingCalendarAlignment *
		spec.QualityAdjustment

	breakdowns := make([]AdjustedCost, 0, len(quotes))
	costs := make([]float64, 0, len(quotes))
	for _, q := range quotes {
		b := a.calc.Calculate(q, loc, product)
		adjusted := b.TotalEffectiveCost * multiplier
		costs = append(costs, adjusted)
		breakdowns = append(breakdowns, AdjustedCost{
			Supplier:              q.Supplier,
			Breakdown:             b,
			RegionalDensityFactor: location.RegionalMarketDensity,
			CompetitionFactor:     location.LocalCompetitionLevel,
			InfrastructureFactor:  location.TransportationInfrastructure,
			SeasonalMultiplier:    season.CurrentSeasonMultiplier,
			CalendarAlignment:     season.PlantingCalendarAlignment,
			QualityAdjustment:     spec.QualityAdjustment,
			FinalAdjustedCost:     adjusted,
		})
	}

	ranges := stats.PriceRanges(costs)

	return &Result{
		ProductName:   product.Name,
		Status:        StatusComplete,
		Category:      string(category),
		Specification: spec,
		Suppliers:     evals,
		Location:      location,
		Seasonality:   season,
		Price: PriceAnalysis{
			Ranges:      ranges,
			TargetPrice: ranges.P35,
			Confidence:  stats.Confidence(quotes, now),
			QuoteCount:  len(quotes),
		},
		CostBreakdowns: breakdowns,
		Dynamics:       Dynamics(quotes, costs, season),
		Compliance:     a.compliance(category, product, quotes, loc),
		Advice:         advise(product, evals, season, location, spec, stats.Mean(costs)),
	}
}
