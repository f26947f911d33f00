package stats

import (
	"math"
	"time"

	"github.com/Valeamar/tidal2025/internal/models"
)

const (
	sourceWeight      = 0.4
	freshnessWeight   = 0.3
	dispersionWeight  = 0.2
	reliabilityWeight = 0.1

	fullSourceCount    = 5.0
	freshnessWindowHrs = 168.0
	defaultReliability = 0.7
)

// Confidence scores how far a set of quotes can be trusted, in [0,1].
// now is the reference time for quote freshness.
func Confidence(quotes []models.PriceQuote, now time.Time) float64 {
	if len(quotes) == 0 {
		return 0
	}

	source := math.Min(float64(len(quotes))/fullSourceCount, 1)

	freshness := 0.0
	prices := make([]float64, 0, len(quotes))
	reliabilitySum, reliabilityN := 0.0, 0
	for _, q := range quotes {
		freshness += Freshness(q.CachedAt, now)
		if q.BasePrice > 0 {
			prices = append(prices, q.BasePrice)
		}
		if q.Reliability != nil {
			reliabilitySum += *q.Reliability
			reliabilityN++
		}
	}
	freshness /= float64(len(quotes))

	dispersion := 0.5
	if len(prices) > 1 {
		cv := 1.0
		if mean := Mean(prices); mean > 0 {
			cv = StdDev(prices) / mean
		}
		dispersion = math.Max(0, 1-cv)
	}

	reliability := defaultReliability
	if reliabilityN > 0 {
		reliability = reliabilitySum / float64(reliabilityN)
	}

	score := source*sourceWeight +
		freshness*freshnessWeight +
		dispersion*dispersionWeight +
		reliability*reliabilityWeight
	return Clamp01(score)
}

// Freshness decays linearly from 1 at age zero to 0 after one week. A missing
// timestamp scores 0.5.
func Freshness(cachedAt *time.Time, now time.Time) float64 {
	if cachedAt == nil {
		return 0.5
	}
	age := now.Sub(*cachedAt).Hours()
	return Clamp01(1 - age/freshnessWindowHrs)
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
