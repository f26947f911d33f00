package agent

import (
	"time"

	"github.com/Valeamar/tidal2025/internal/models"
)

// SupplierRecommendation is one of the best-value suppliers for a product.
type SupplierRecommendation struct {
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DeliveryTerms string   `json:"delivery_terms,omitempty"`
	LeadTime      *int     `json:"lead_time,omitempty"`
	Reliability   *float64 `json:"reliability,omitempty"`
	MOQ           *int     `json:"moq,omitempty"`
	ContactInfo   string   `json:"contact_info,omitempty"`
	Location      string   `json:"location,omitempty"`
}

// PriceAnalysis is the per-product summary returned to callers.
type PriceAnalysis struct {
	ProductID       string                   `json:"product_id"`
	ProductName     string                   `json:"product_name"`
	EffectiveCost   models.PriceRange        `json:"effective_delivered_cost"`
	TargetPrice     *float64                 `json:"target_price"`
	ConfidenceScore float64                  `json:"confidence_score"`
	Suppliers       []SupplierRecommendation `json:"suppliers"`
	Recommendations []models.Recommendation  `json:"recommendations"`
	DataLimitations []string                 `json:"data_limitations"`
}

// Budget is a low/target/high cost projection.
type Budget struct {
	Low       float64 `json:"low"`
	Target    float64 `json:"target"`
	High      float64 `json:"high"`
	TotalCost float64 `json:"total_cost"`
}

// DataAvailability reports which kinds of data backed an analysis.
type DataAvailability struct {
	PriceDataFound         bool     `json:"price_data_found"`
	SupplierDataFound      bool     `json:"supplier_data_found"`
	ForecastDataAvailable  bool     `json:"forecast_data_available"`
	SentimentDataAvailable bool     `json:"sentiment_data_available"`
	MissingDataSections    []string `json:"missing_data_sections"`
}

// ProductResult is the full outcome for one requested product.
type ProductResult struct {
	ProductID        string           `json:"product_id"`
	ProductName      string           `json:"product_name"`
	Analysis         PriceAnalysis    `json:"analysis"`
	IndividualBudget Budget           `json:"individual_budget"`
	DataAvailability DataAvailability `json:"data_availability"`
}

// DataQualityReport groups products by how well the market covers them.
type DataQualityReport struct {
	OverallDataCoverage float64  `json:"overall_data_coverage"`
	ReliableProducts    []string `json:"reliable_products"`
	LimitedDataProducts []string `json:"limited_data_products"`
	NoDataProducts      []string `json:"no_data_products"`
}

// Response is the result of analysing a product list.
type Response struct {
	AnalysisID        string              `json:"analysis_id"`
	FarmLocation      models.FarmLocation `json:"farm_location"`
	ProductAnalyses   []ProductResult     `json:"product_analyses"`
	OverallBudget     Budget              `json:"overall_budget"`
	DataQualityReport DataQualityReport   `json:"data_quality_report"`
	GeneratedAt       time.Time           `json:"generated_at"`
}

// ErrorResult is what a product gets when its analysis fails.
func ErrorResult(productID string, product models.ProductInput, msg string) ProductResult {
	return ProductResult{
		ProductID:   productID,
		ProductName: product.Name,
		Analysis: PriceAnalysis{
			ProductID:       productID,
			ProductName:     product.Name,
			Suppliers:       []SupplierRecommendation{},
			Recommendations: []models.Recommendation{},
			DataLimitations: []string{
				"Analysis failed due to technical error",
				"Error: " + msg,
				"Manual research required for this product",
			},
		},
		DataAvailability: DataAvailability{
			MissingDataSections: []string{"All data sources unavailable due to error"},
		},
	}
}
