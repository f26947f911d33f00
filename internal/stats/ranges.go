package stats

import (
	"math"

	"github.com/Valeamar/tidal2025/internal/models"
)

// OutlierThreshold is the modified z-score above which a value is rejected.
const OutlierThreshold = 2.5

// RemoveOutliers drops values whose modified z-score 0.6745*(x-median)/MAD
// reaches threshold. Sets smaller than three, or with zero MAD, are returned
// unchanged. The input slice is never modified.
func RemoveOutliers(values []float64, threshold float64) []float64 {
	kept := make([]float64, len(values))
	copy(kept, values)
	if len(values) < 3 {
		return kept
	}

	median := Median(values)
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - median)
	}
	mad := Median(deviations)
	if mad == 0 {
		return kept
	}

	kept = kept[:0]
	for _, v := range values {
		z := 0.6745 * (v - median) / mad
		if math.Abs(z) < threshold {
			kept = append(kept, v)
		}
	}
	return kept
}

// PriceRanges computes the p10/p25/p35/p50/p90 band over costs after outlier
// removal. When fewer than two values survive cleaning the band is derived
// from the mean of the original costs.
func PriceRanges(costs []float64) models.PriceRange {
	if len(costs) == 0 {
		return models.PriceRange{}
	}

	cleaned := RemoveOutliers(costs, OutlierThreshold)
	if len(cleaned) < 2 {
		avg := Mean(costs)
		return models.PriceRange{
			P10: avg * 0.9,
			P25: avg * 0.95,
			P35: avg * 0.97,
			P50: avg,
			P90: avg * 1.1,
		}
	}

	sorted := sortedCopy(cleaned)
	return models.PriceRange{
		P10: Percentile(sorted, 10),
		P25: Percentile(sorted, 25),
		P35: Percentile(sorted, 35),
		P50: Percentile(sorted, 50),
		P90: Percentile(sorted, 90),
	}
}
