package recommend

import (
	"strings"

	"github.com/Valeamar/tidal2025/internal/models"
)

// MinConfidence is the lowest confidence a recommendation may carry.
const MinConfidence = 0.3

// Constraints are the caller's purchasing constraints.
type Constraints struct {
	UrgentPurchase bool    `json:"urgent_purchase"`
	ImmediateNeed  bool    `json:"immediate_need"`
	MaxBudget      float64 `json:"max_budget"`
}

// Validate drops recommendations that are incomplete, low-confidence or
// incompatible with c. Order is preserved.
func Validate(recs []models.Recommendation, product models.ProductInput, c Constraints) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.Description == "" || r.ActionRequired == "" || r.Confidence < MinConfidence {
			continue
		}
		action := strings.ToLower(r.ActionRequired)
		if c.UrgentPurchase && r.Type == models.Timing && strings.Contains(action, "delay") {
			continue
		}
		if c.MaxBudget > 0 && r.Type == models.BulkDiscount &&
			product.Quantity*product.MaxPriceOr(defaultMaxPrice) > c.MaxBudget {
			continue
		}
		if c.ImmediateNeed && r.Type == models.SeasonalOptimization && strings.Contains(action, "month") {
			continue
		}
		out = append(out, r)
	}
	return out
}
