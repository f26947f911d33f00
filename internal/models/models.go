package models

import (
	"strings"
	"time"
)

// PriceQuote is one supplier's offer for a product at a location.
type PriceQuote struct {
	Supplier      string          `json:"supplier"`
	ProductName   string          `json:"product_name"`
	BasePrice     float64         `json:"base_price"`
	Unit          string          `json:"unit"`
	Location      string          `json:"location,omitempty"`
	Source        string          `json:"source,omitempty"`
	MOQ           *int            `json:"moq,omitempty"`
	DeliveryTerms string          `json:"delivery_terms,omitempty"`
	LeadTimeDays  *int            `json:"lead_time,omitempty"`
	Reliability   *float64        `json:"reliability_score,omitempty"`
	ContactInfo   string          `json:"contact_info,omitempty"`
	PurityGrade   string          `json:"purity_grade,omitempty"`
	PackSize      string          `json:"pack_size,omitempty"`
	Promotions    string          `json:"promotions,omitempty"`
	PriceBreaks   map[int]float64 `json:"price_breaks,omitempty"`
	CachedAt      *time.Time      `json:"cached_at,omitempty"`
}

// ReliabilityOr returns the quote's reliability score, or def when it is unset or zero.
func (q PriceQuote) ReliabilityOr(def float64) float64 {
	if q.Reliability == nil || *q.Reliability == 0 {
		return def
	}
	return *q.Reliability
}

// LeadTimeOr returns the quote's lead time in days, or def when it is unset or zero.
func (q PriceQuote) LeadTimeOr(def int) int {
	if q.LeadTimeDays == nil || *q.LeadTimeDays == 0 {
		return def
	}
	return *q.LeadTimeDays
}

// MinimumOrder returns the quote's MOQ and whether one applies.
func (q PriceQuote) MinimumOrder() (int, bool) {
	if q.MOQ == nil || *q.MOQ <= 0 {
		return 0, false
	}
	return *q.MOQ, true
}

// ProductInput is a requested purchase.
type ProductInput struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Quantity        float64  `json:"quantity"`
	Unit            string   `json:"unit"`
	Specifications  string   `json:"specifications,omitempty"`
	PreferredBrands []string `json:"preferred_brands,omitempty"`
	MaxPrice        *float64 `json:"max_price,omitempty"`
}

// MaxPriceOr returns the caller's max price, or def when none was given.
func (p ProductInput) MaxPriceOr(def float64) float64 {
	if p.MaxPrice == nil || *p.MaxPrice <= 0 {
		return def
	}
	return *p.MaxPrice
}

// FarmLocation is where the purchase is delivered.
type FarmLocation struct {
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	County        string `json:"county"`
	ZipCode       string `json:"zip_code"`
	Country       string `json:"country"`
}

// StateCode returns the trimmed, upper-cased state used for table lookups.
func (l FarmLocation) StateCode() string {
	return strings.ToUpper(strings.TrimSpace(l.State))
}

// Label renders the location as "City, ST".
func (l FarmLocation) Label() string {
	city := strings.TrimSpace(l.City)
	if city == "" {
		return l.StateCode()
	}
	return city + ", " + l.StateCode()
}

// PriceRange holds percentile bands over adjusted effective costs. P35 is the target price.
type PriceRange struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P35 float64 `json:"p35"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
}

// IsZero reports whether no range was computed.
func (r PriceRange) IsZero() bool {
	return r == PriceRange{}
}
