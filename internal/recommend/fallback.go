package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Valeamar/tidal2025/internal/models"
)

// fallback covers thin or missing market data with generic advice.
func (g generator) fallback() []models.Recommendation {
	var out []models.Recommendation
	qty := g.qty()

	if g.quality.OverallScore < 0.3 {
		out = append(out, rec(models.Substitute,
			"Limited market data available - manual research recommended",
			0,
			"Contact local suppliers directly for current pricing and availability",
			0.9))
	}
	if !g.quality.SupplierDataFound {
		out = append(out, rec(models.Substitute,
			"No supplier contact information found in market data",
			0,
			"Research regional agricultural suppliers and cooperatives",
			0.8))
	}

	if qty < 500 {
		rate := 0.05
		if qty < 100 {
			rate = 0.08
		}
		savings := qty * g.maxPrice * rate
		out = append(out,
			rec(models.GroupPurchase,
				fmt.Sprintf("Quantity (%s units) qualifies for %.0f%% group purchasing discount", humanize.Ftoa(qty), rate*100),
				savings,
				"Contact local farm cooperatives or organize group purchase with neighboring farms",
				0.7),
			rec(models.GroupPurchase,
				"Regional farm cooperatives may offer volume discounts and shared logistics",
				savings*1.2,
				"Research regional agricultural cooperatives and buying groups in your area",
				0.6),
		)
	}

	if g.month >= time.March && g.month <= time.May {
		out = append(out, rec(models.Timing,
			"Currently in peak planting season - prices typically higher",
			0,
			"Consider if purchase can be delayed to off-season for better pricing",
			0.6))
	}

	if strings.Contains(strings.ToLower(g.product.Specifications), "premium") {
		out = append(out, rec(models.Substitute,
			"Premium grade may be substitutable with standard grade for significant savings",
			qty*g.maxPrice*0.12,
			"Compare premium vs. standard grade specifications against actual crop requirements",
			0.7))
	}
	if len(g.product.PreferredBrands) > 0 {
		out = append(out, rec(models.Substitute,
			"Generic alternatives may offer equivalent performance at lower cost",
			qty*g.maxPrice*0.15,
			"Research generic or store-brand alternatives with similar active ingredients",
			0.6))
	}

	name := strings.ToLower(g.product.Name)
	switch {
	case strings.Contains(name, "fertilizer"):
		out = append(out, rec(models.Substitute,
			"Consider alternative fertilizer formulations or organic options",
			qty*g.maxPrice*0.08,
			"Evaluate liquid vs. granular fertilizers or organic alternatives for cost savings",
			0.5))
	case strings.Contains(name, "seed"):
		out = append(out, rec(models.Substitute,
			"Alternative seed varieties may offer better value or performance",
			qty*g.maxPrice*0.06,
			"Compare different seed varieties for yield potential vs. cost",
			0.6))
	}
	return out
}
