package marketdata

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/Valeamar/tidal2025/internal/models"
)

// Cache persists fetched quotes between requests.
type Cache interface {
	Get(ctx context.Context, productName, location string, ttl time.Duration) ([]models.PriceQuote, bool, error)
	Put(ctx context.Context, productName, location string, quotes []models.PriceQuote) error
}

// Service fans a product lookup out to every source, validates the result
// and caches it.
type Service struct {
	sources []Source
	cache   Cache
	ttl     time.Duration
	now     func() time.Time
}

// NewService returns a Service. cache may be nil to disable caching.
func NewService(sources []Source, cache Cache, ttl time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{sources: sources, cache: cache, ttl: ttl, now: now}
}

// SourceNames lists the configured sources in order.
func (s *Service) SourceNames() []string {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.Name()
	}
	return names
}

// CurrentPrices returns cached quotes when fresh, otherwise fetches from all
// sources. Failing sources are logged and skipped; only a done ctx is an error.
func (s *Service) CurrentPrices(ctx context.Context, productName string, loc models.FarmLocation) ([]models.PriceQuote, error) {
	location := loc.Label()

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, productName, location, s.ttl)
		if err != nil {
			log.Printf("marketdata: read cache for %q: %v", productName, err)
		} else if ok && len(cached) > 0 {
			return cached, nil
		}
	}

	results := make([][]models.PriceQuote, len(s.sources))
	errs := make([]error, len(s.sources))
	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			quotes, err := src.Prices(ctx, productName, loc)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", src.Name(), err)
				return nil
			}
			results[i] = Validate(quotes)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := multierr.Combine(errs...); err != nil {
		log.Printf("marketdata: %d source(s) failed for %q: %v", len(multierr.Errors(err)), productName, err)
	}

	var all []models.PriceQuote
	for i, quotes := range results {
		if len(quotes) > 0 {
			log.Printf("marketdata: %d quotes from %s for %q", len(quotes), s.sources[i].Name(), productName)
		}
		all = append(all, quotes...)
	}

	if s.cache != nil && len(all) > 0 {
		if err := s.cache.Put(ctx, productName, location, all); err != nil {
			log.Printf("marketdata: write cache for %q: %v", productName, err)
		}
	}
	return all, nil
}

// SourceStats summarises one source's quotes.
type SourceStats struct {
	Name           string  `json:"name"`
	QuoteCount     int     `json:"quote_count"`
	AvgPrice       float64 `json:"avg_price"`
	AvgReliability float64 `json:"avg_reliability"`
}

// PriceSpan is the raw base-price spread across quotes.
type PriceSpan struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Availability describes how much market data exists for a product.
type Availability struct {
	ProductName        string        `json:"product_name"`
	Location           string        `json:"location"`
	TotalSources       int           `json:"total_sources"`
	SourcesWithData    int           `json:"sources_with_data"`
	TotalQuotes        int           `json:"total_quotes"`
	PriceRange         *PriceSpan    `json:"price_range"`
	AverageReliability float64       `json:"average_reliability"`
	DataFreshnessHours float64       `json:"data_freshness_hours"`
	Sources            []SourceStats `json:"sources"`
}

// Availability fetches current prices and summarises them.
func (s *Service) Availability(ctx context.Context, productName string, loc models.FarmLocation) (Availability, error) {
	quotes, err := s.CurrentPrices(ctx, productName, loc)
	if err != nil {
		return Availability{}, err
	}
	a := Summarize(quotes, s.now())
	a.ProductName = productName
	a.Location = loc.Label()
	a.TotalSources = len(s.sources)
	return a, nil
}

// Summarize computes availability figures over quotes as of now.
func Summarize(quotes []models.PriceQuote, now time.Time) Availability {
	a := Availability{TotalQuotes: len(quotes), Sources: []SourceStats{}}
	if len(quotes) == 0 {
		return a
	}

	span := PriceSpan{Min: quotes[0].BasePrice, Max: quotes[0].BasePrice}
	var priceSum, relSum, ageSum float64
	var relN, ageN int
	index := map[string]int{}
	relCounts := map[string]int{}

	for _, q := range quotes {
		span.Min = min(span.Min, q.BasePrice)
		span.Max = max(span.Max, q.BasePrice)
		priceSum += q.BasePrice

		i, ok := index[q.Source]
		if !ok {
			i = len(a.Sources)
			index[q.Source] = i
			a.Sources = append(a.Sources, SourceStats{Name: q.Source})
		}
		st := &a.Sources[i]
		st.QuoteCount++
		st.AvgPrice += (q.BasePrice - st.AvgPrice) / float64(st.QuoteCount)

		if q.Reliability != nil && *q.Reliability > 0 {
			relSum += *q.Reliability
			relN++
			relCounts[q.Source]++
			st.AvgReliability += (*q.Reliability - st.AvgReliability) / float64(relCounts[q.Source])
		}
		if q.CachedAt != nil {
			ageSum += now.Sub(*q.CachedAt).Hours()
			ageN++
		}
	}

	span.Avg = priceSum / float64(len(quotes))
	a.PriceRange = &span
	a.SourcesWithData = len(a.Sources)
	if relN > 0 {
		a.AverageReliability = relSum / float64(relN)
	}
	if ageN > 0 {
		a.DataFreshnessHours = ageSum / float64(ageN)
	}
	return a
}
