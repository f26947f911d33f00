package analysis

import (
	"strings"

	"github.com/Valeamar/tidal2025/internal/models"
)

// SpecAnalysis summarises the product specification across the quotes.
type SpecAnalysis struct {
	CanonicalSpec     string   `json:"canonical_spec"`
	PurityGrade       string   `json:"purity_grade,omitempty"`
	PackSize          string   `json:"pack_size,omitempty"`
	SubstituteSKUs    []string `json:"substitute_skus"`
	QualityAdjustment float64  `json:"quality_adjustment_factor"`
}

var substitutes = []struct {
	key  string
	skus []string
}{
	{"corn seed", []string{"hybrid corn", "gmo corn", "non-gmo corn"}},
	{"nitrogen fertilizer", []string{"urea", "ammonium nitrate", "liquid nitrogen"}},
	{"herbicide", []string{"glyphosate", "2,4-d", "atrazine"}},
}

// Specification analyses the product and its quotes.
func Specification(product models.ProductInput, quotes []models.PriceQuote) SpecAnalysis {
	purities := make([]string, 0, len(quotes))
	packs := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if q.PurityGrade != "" {
			purities = append(purities, q.PurityGrade)
		}
		if q.PackSize != "" {
			packs = append(packs, q.PackSize)
		}
	}
	purity := mostCommon(purities)
	pack := mostCommon(packs)

	return SpecAnalysis{
		CanonicalSpec:     CanonicalSpec(product),
		PurityGrade:       purity,
		PackSize:          pack,
		SubstituteSKUs:    Substitutes(product.Name),
		QualityAdjustment: QualityAdjustment(purity, pack),
	}
}

// CanonicalSpec renders "name | specifications | per unit", omitting empty specifications.
func CanonicalSpec(product models.ProductInput) string {
	parts := []string{strings.TrimSpace(product.Name)}
	if specs := strings.TrimSpace(product.Specifications); specs != "" {
		parts = append(parts, specs)
	}
	parts = append(parts, "per "+product.Unit)
	return strings.Join(parts, " | ")
}

// Substitutes returns known alternative SKUs for a product name.
func Substitutes(productName string) []string {
	name := strings.ToLower(productName)
	for _, s := range substitutes {
		if strings.Contains(name, s.key) {
			out := make([]string, len(s.skus))
			copy(out, s.skus)
			return out
		}
	}
	return []string{}
}

// QualityAdjustment prices in purity grade and pack size.
func QualityAdjustment(purity, pack string) float64 {
	adjustment := 1.0

	p := strings.ToLower(purity)
	switch {
	case strings.Contains(p, "premium") || strings.Contains(p, "99%"):
		adjustment *= 1.05
	case strings.Contains(p, "economy"):
		adjustment *= 0.95
	}

	s := strings.ToLower(pack)
	switch {
	case strings.Contains(s, "bulk") || strings.Contains(s, "50lb") || strings.Contains(s, "25kg"):
		adjustment *= 0.98
	case strings.Contains(s, "small") || strings.Contains(s, "5lb"):
		adjustment *= 1.02
	}

	return adjustment
}

// mostCommon returns the most frequent value; ties go to whichever value
// reached the top count first.
func mostCommon(values []string) string {
	counts := make(map[string]int, len(values))
	best, bestCount := "", 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}
