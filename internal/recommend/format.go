package recommend

import (
	"strings"

	"github.com/Valeamar/tidal2025/internal/models"
)

// Formatted is a recommendation decorated for display.
type Formatted struct {
	ID                       int                       `json:"id"`
	Type                     models.RecommendationType `json:"type"`
	Priority                 string                    `json:"priority"`
	Title                    string                    `json:"title"`
	Description              string                    `json:"description"`
	ActionRequired           string                    `json:"action_required"`
	PotentialSavings         float64                   `json:"potential_savings"`
	ConfidenceScore          float64                   `json:"confidence_score"`
	ConfidenceLevel          string                    `json:"confidence_level"`
	Urgency                  string                    `json:"urgency"`
	ImplementationDifficulty string                    `json:"implementation_difficulty"`
}

var titles = map[models.RecommendationType]string{
	models.BulkDiscount:         "Bulk Purchase Opportunity",
	models.Timing:               "Optimal Timing Strategy",
	models.Substitute:           "Alternative Product Option",
	models.GroupPurchase:        "Group Purchasing Opportunity",
	models.SeasonalOptimization: "Seasonal Price Optimization",
	models.SupplyRisk:           "Supply Risk Alert",
	models.AnomalyAlert:         "Market Anomaly Alert",
}

// Format numbers recs from 1 and attaches display labels.
func Format(recs []models.Recommendation) []Formatted {
	out := make([]Formatted, len(recs))
	for i, r := range recs {
		title, ok := titles[r.Type]
		if !ok {
			title = "Optimization Opportunity"
		}
		out[i] = Formatted{
			ID:                       i + 1,
			Type:                     r.Type,
			Priority:                 priority(r),
			Title:                    title,
			Description:              r.Description,
			ActionRequired:           r.ActionRequired,
			PotentialSavings:         r.PotentialSavings,
			ConfidenceScore:          r.Confidence,
			ConfidenceLevel:          confidenceLevel(r.Confidence),
			Urgency:                  urgencyLabel(r),
			ImplementationDifficulty: difficulty(r.Type),
		}
	}
	return out
}

func alert(t models.RecommendationType) bool {
	return t == models.SupplyRisk || t == models.AnomalyAlert
}

func priority(r models.Recommendation) string {
	switch {
	case r.PotentialSavings > 500 || alert(r.Type):
		return "high"
	case r.PotentialSavings > 100 || r.Confidence > 0.8:
		return "medium"
	default:
		return "low"
	}
}

func confidenceLevel(c float64) string {
	switch {
	case c >= 0.8:
		return "high"
	case c >= 0.6:
		return "medium"
	default:
		return "low"
	}
}

func urgencyLabel(r models.Recommendation) string {
	switch {
	case alert(r.Type):
		return "urgent"
	case r.Type == models.Timing && strings.Contains(strings.ToLower(r.ActionRequired), "soon"):
		return "high"
	default:
		return "normal"
	}
}

func difficulty(t models.RecommendationType) string {
	switch t {
	case models.Substitute, models.GroupPurchase:
		return "high"
	case models.BulkDiscount, models.Timing:
		return "medium"
	default:
		return "low"
	}
}
