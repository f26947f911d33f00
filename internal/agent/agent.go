// Package agent runs the per-product analysis pipeline for a purchase list.
package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Valeamar/tidal2025/internal/analysis"
	"github.com/Valeamar/tidal2025/internal/insights"
	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/recommend"
)

const (
	defaultMaxConcurrent = 10
	reliableConfidence   = 0.7
)

// Quoter supplies current quotes for a product.
type Quoter interface {
	CurrentPrices(ctx context.Context, productName string, loc models.FarmLocation) ([]models.PriceQuote, error)
}

// Options tune an Agent. Zero values select defaults.
type Options struct {
	Insights      insights.Provider
	MaxConcurrent int
	Now           func() time.Time
}

// Agent ties market data, economic analysis, insights and recommendations
// together for each product in a request.
type Agent struct {
	quotes   Quoter
	analyzer *analysis.Analyzer
	insights insights.Provider
	engine   *recommend.Engine
	limit    int
	now      func() time.Time
}

func New(quotes Quoter, analyzer *analysis.Analyzer, opts Options) *Agent {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if analyzer == nil {
		analyzer = analysis.New(nil, nil, opts.Now)
	}
	return &Agent{
		quotes:   quotes,
		analyzer: analyzer,
		insights: opts.Insights,
		engine:   recommend.New(opts.Now),
		limit:    opts.MaxConcurrent,
		now:      opts.Now,
	}
}

// AnalyzeAll analyses every product concurrently. Results keep input order
// and a failing product yields an error result instead of failing the call.
func (a *Agent) AnalyzeAll(ctx context.Context, products []models.ProductInput, loc models.FarmLocation) *Response {
	log.Printf("agent: analysing %d products for %s", len(products), loc.Label())

	results := make([]ProductResult, len(products))
	var g errgroup.Group
	g.SetLimit(a.limit)
	for i, p := range products {
		g.Go(func() error {
			results[i] = a.AnalyzeProduct(ctx, p, loc)
			return nil
		})
	}
	_ = g.Wait()

	return &Response{
		AnalysisID:        uuid.NewString(),
		FarmLocation:      loc,
		ProductAnalyses:   results,
		OverallBudget:     OverallBudget(results),
		DataQualityReport: QualityReport(results),
		GeneratedAt:       a.now().UTC(),
	}
}

// AnalyzeProduct runs the pipeline for one product, converting errors and
// panics into an error result.
func (a *Agent) AnalyzeProduct(ctx context.Context, product models.ProductInput, loc models.FarmLocation) (res ProductResult) {
	id := product.ID
	if id == "" {
		id = uuid.NewString()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("agent: panic analysing %q: %v", product.Name, r)
			res = ErrorResult(id, product, fmt.Sprint(r))
		}
	}()

	res, err := a.analyze(ctx, id, product, loc)
	if err != nil {
		log.Printf("agent: analyse %q: %v", product.Name, err)
		return ErrorResult(id, product, err.Error())
	}
	return res
}

func (a *Agent) analyze(ctx context.Context, id string, product models.ProductInput, loc models.FarmLocation) (ProductResult, error) {
	quotes, err := a.quotes.CurrentPrices(ctx, product.Name, loc)
	if err != nil {
		return ProductResult{}, fmt.Errorf("fetch prices: %w", err)
	}

	result := a.analyzer.Analyze(product, quotes, loc)

	var ins *insights.Insights
	if a.insights != nil && len(quotes) > 0 {
		ins, err = a.insights.Insights(ctx, product.Name, quotes, loc)
		if err != nil {
			log.Printf("agent: insights for %q unavailable: %v", product.Name, err)
			ins = nil
		}
	}

	quality := AssessQuality(quotes, a.now())
	recs := a.engine.Generate(recommend.Input{
		Product:  product,
		Location: loc,
		Insights: ins,
		Quality:  quality,
		Analysis: result,
	})
	recs = recommend.Validate(recs, product, recommend.Constraints{})

	var ranges models.PriceRange
	baseConfidence := 0.0
	suppliers := []SupplierRecommendation{}
	if result.Complete() {
		ranges = result.Price.Ranges
		baseConfidence = result.Price.Confidence
		suppliers = TopSuppliers(result.Suppliers)
	}

	pa := PriceAnalysis{
		ProductID:       id,
		ProductName:     product.Name,
		EffectiveCost:   ranges,
		ConfidenceScore: EnhancedConfidence(baseConfidence, ins),
		Suppliers:       suppliers,
		Recommendations: recs,
		DataLimitations: Limitations(result, ins),
	}
	if ranges.P35 > 0 {
		target := ranges.P35
		pa.TargetPrice = &target
	}

	return ProductResult{
		ProductID:        id,
		ProductName:      product.Name,
		Analysis:         pa,
		IndividualBudget: IndividualBudget(ranges, product.Quantity),
		DataAvailability: Availability(quotes, ins),
	}, nil
}

// OverallBudget sums individual budgets to the cent.
func OverallBudget(results []ProductResult) Budget {
	var low, target, high, total decimal.Decimal
	for _, r := range results {
		b := r.IndividualBudget
		low = low.Add(decimal.NewFromFloat(b.Low))
		target = target.Add(decimal.NewFromFloat(b.Target))
		high = high.Add(decimal.NewFromFloat(b.High))
		total = total.Add(decimal.NewFromFloat(b.TotalCost))
	}
	return Budget{
		Low:       low.Round(2).InexactFloat64(),
		Target:    target.Round(2).InexactFloat64(),
		High:      high.Round(2).InexactFloat64(),
		TotalCost: total.Round(2).InexactFloat64(),
	}
}

// QualityReport classifies products by data coverage and confidence.
func QualityReport(results []ProductResult) DataQualityReport {
	report := DataQualityReport{
		ReliableProducts:    []string{},
		LimitedDataProducts: []string{},
		NoDataProducts:      []string{},
	}
	if len(results) == 0 {
		return report
	}

	withData := 0
	for _, r := range results {
		conf := r.Analysis.ConfidenceScore
		switch {
		case !r.DataAvailability.PriceDataFound:
			report.NoDataProducts = append(report.NoDataProducts, r.ProductName)
		case conf >= reliableConfidence:
			report.ReliableProducts = append(report.ReliableProducts, r.ProductName)
		case conf > 0:
			report.LimitedDataProducts = append(report.LimitedDataProducts, r.ProductName)
		default:
			report.NoDataProducts = append(report.NoDataProducts, r.ProductName)
		}
		if r.DataAvailability.PriceDataFound {
			withData++
		}
	}
	report.OverallDataCoverage = float64(withData) / float64(len(results))
	return report
}
