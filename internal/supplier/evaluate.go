package supplier

import (
	"math"
	"sort"

	"github.com/Valeamar/tidal2025/internal/models"
)

const (
	DefaultLeadTimeDays = 14
	DefaultReliability  = 0.7
)

// Evaluation is one quote scored against the requested quantity.
type Evaluation struct {
	Supplier          string  `json:"supplier"`
	BasePrice         float64 `json:"base_price"`
	EffectivePrice    float64 `json:"effective_price"`
	MOQMet            bool    `json:"moq_met"`
	MOQShortfall      float64 `json:"moq_shortfall,omitempty"`
	PriceBreakApplied bool    `json:"price_break_applied"`
	PriceBreakSavings float64 `json:"price_break_savings,omitempty"`
	PromotionApplied  bool    `json:"promotion_applied"`
	LeadTimeDays      int     `json:"lead_time"`
	Reliability       float64 `json:"reliability_score"`
	ValueScore        float64 `json:"value_score"`

	Quote models.PriceQuote `json:"-"`
}

// Evaluator ranks competing quotes by price, reliability and lead time.
type Evaluator struct {
	discounts DiscountParser
}

// NewEvaluator returns an Evaluator. A nil parser uses DefaultDiscounts.
func NewEvaluator(discounts DiscountParser) *Evaluator {
	if discounts == nil {
		discounts = DefaultDiscounts()
	}
	return &Evaluator{discounts: discounts}
}

// Evaluate returns one evaluation per quote, ordered by descending value
// score. Ties keep input order.
func (e *Evaluator) Evaluate(quotes []models.PriceQuote, quantity float64) []Evaluation {
	if len(quotes) == 0 {
		return []Evaluation{}
	}

	minBase := math.Inf(1)
	for _, q := range quotes {
		minBase = math.Min(minBase, q.BasePrice)
	}

	evaluations := make([]Evaluation, 0, len(quotes))
	for _, q := range quotes {
		ev := Evaluation{
			Supplier:       q.Supplier,
			BasePrice:      q.BasePrice,
			EffectivePrice: q.BasePrice,
			MOQMet:         true,
			LeadTimeDays:   q.LeadTimeOr(DefaultLeadTimeDays),
			Reliability:    q.ReliabilityOr(DefaultReliability),
			Quote:          q,
		}

		if moq, ok := q.MinimumOrder(); ok && quantity < float64(moq) {
			ev.MOQMet = false
			ev.MOQShortfall = float64(moq) - quantity
		}

		if ev.MOQMet {
			if price, ok := bestBreak(q.PriceBreaks, quantity); ok {
				ev.EffectivePrice = price
				ev.PriceBreakApplied = true
				ev.PriceBreakSavings = q.BasePrice - price
			}
		}

		if mult, ok := e.discounts.Discount(q.Promotions); ok {
			ev.EffectivePrice *= mult
			ev.PromotionApplied = true
		}

		ev.ValueScore = 0.6*priceScore(minBase, ev.EffectivePrice) +
			0.3*ev.Reliability +
			0.1*math.Max(0.1, 1-float64(ev.LeadTimeDays)/60)

		evaluations = append(evaluations, ev)
	}

	sort.SliceStable(evaluations, func(i, j int) bool {
		return evaluations[i].ValueScore > evaluations[j].ValueScore
	})
	return evaluations
}

// bestBreak picks the tier with the highest threshold not above quantity.
func bestBreak(breaks map[int]float64, quantity float64) (float64, bool) {
	best, found := 0, false
	for threshold := range breaks {
		if float64(threshold) <= quantity && (!found || threshold > best) {
			best, found = threshold, true
		}
	}
	if !found {
		return 0, false
	}
	return breaks[best], true
}

func priceScore(minBase, effective float64) float64 {
	if effective <= 0 {
		return 1
	}
	return minBase / effective
}
