package analysis

import (
	"math"
	"strings"

	"github.com/Valeamar/tidal2025/internal/models"
)

// DefaultDistance is the assumed supplier distance when no lookup applies.
const DefaultDistance = 400.0

// LocationFactors are multipliers derived from where the farm and its suppliers are.
type LocationFactors struct {
	RegionalMarketDensity        float64 `json:"regional_market_density"`
	AvgDistanceToSuppliers       float64 `json:"avg_distance_to_suppliers_km"`
	LocalCompetitionLevel        float64 `json:"local_competition_level"`
	TransportationInfrastructure float64 `json:"transportation_infrastructure"`
	LocalSuppliers               int     `json:"local_suppliers"`
}

var marketDensity = map[string]float64{
	"IA": 1.0, "IL": 1.0, "IN": 1.0, "NE": 0.95, "KS": 0.95,
	"CA": 1.1, "TX": 1.05, "FL": 1.1, "NY": 1.15,
	"MT": 0.9, "WY": 0.9, "ND": 0.9, "SD": 0.9,
}

var infrastructure = map[string]float64{
	"CA": 1.0, "TX": 1.0, "FL": 1.0, "IL": 1.0, "NY": 1.0,
	"IA": 0.98, "NE": 0.98, "KS": 0.98, "IN": 0.99,
	"MT": 0.95, "WY": 0.95, "AK": 0.9, "HI": 0.9,
}

var stateDistances = map[string]map[string]float64{
	"CA": {"CA": 200, "NV": 300, "OR": 400, "AZ": 500},
	"TX": {"TX": 250, "OK": 300, "LA": 350, "NM": 400},
	"IL": {"IL": 150, "IN": 200, "IA": 250, "WI": 200},
}

// Location computes location factors for a farm and the quotes offered to it.
func Location(loc models.FarmLocation, quotes []models.PriceQuote) LocationFactors {
	state := loc.StateCode()

	density, ok := marketDensity[state]
	if !ok {
		density = 1.0
	}
	infra, ok := infrastructure[state]
	if !ok {
		infra = 0.98
	}

	total, located, local := 0.0, 0, 0
	for _, q := range quotes {
		if strings.TrimSpace(q.Location) == "" {
			continue
		}
		supplierState := SupplierState(q.Location, state)
		total += distance(state, supplierState)
		located++
		if state != "" && supplierState == state {
			local++
		}
	}

	avgDistance := DefaultDistance
	if located > 0 {
		avgDistance = total / float64(located)
	}

	return LocationFactors{
		RegionalMarketDensity:        density,
		AvgDistanceToSuppliers:       avgDistance,
		LocalCompetitionLevel:        math.Min(1.1, 0.9+0.05*float64(local)),
		TransportationInfrastructure: infra,
		LocalSuppliers:               local,
	}
}

// SupplierState reads the state code from the tail of a "City, ST" location.
// Locations shorter than two characters resolve to fallback.
func SupplierState(location, fallback string) string {
	location = strings.TrimSpace(location)
	if len(location) < 2 {
		return fallback
	}
	return strings.ToUpper(location[len(location)-2:])
}

func distance(farmState, supplierState string) float64 {
	if d, ok := stateDistances[farmState][supplierState]; ok {
		return d
	}
	return DefaultDistance
}
