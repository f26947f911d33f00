package models

// RecommendationType tags an OptimizationRecommendation.
type RecommendationType string

const (
	BulkDiscount         RecommendationType = "BULK_DISCOUNT"
	Timing               RecommendationType = "TIMING"
	Substitute           RecommendationType = "SUBSTITUTE"
	GroupPurchase        RecommendationType = "GROUP_PURCHASE"
	SeasonalOptimization RecommendationType = "SEASONAL_OPTIMIZATION"
	SupplyRisk           RecommendationType = "SUPPLY_RISK"
	AnomalyAlert         RecommendationType = "ANOMALY_ALERT"
)

// MarketDataQuality summarises how trustworthy the quotes behind an analysis are.
type MarketDataQuality struct {
	SourceScore       float64 `json:"source_score"`
	ReliabilityScore  float64 `json:"reliability_score"`
	FreshnessScore    float64 `json:"freshness_score"`
	OverallScore      float64 `json:"overall_score"`
	QuoteCount        int     `json:"quote_count"`
	UniqueSources     int     `json:"unique_sources"`
	SupplierDataFound bool    `json:"supplier_data_found"`
}

// Recommendation is a single actionable piece of purchase advice.
type Recommendation struct {
	Type             RecommendationType `json:"type"`
	Description      string             `json:"description"`
	PotentialSavings float64            `json:"potential_savings"`
	ActionRequired   string             `json:"action_required"`
	Confidence       float64            `json:"confidence"`
}
