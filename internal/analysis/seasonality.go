package analysis

import (
	"time"

	"github.com/Valeamar/tidal2025/internal/catalog"
)

// SeasonalityFactors describe how the purchase month affects price.
type SeasonalityFactors struct {
	CurrentMonth              int     `json:"current_month"`
	CurrentSeasonMultiplier   float64 `json:"current_season_multiplier"`
	OptimalPurchaseMonth      int     `json:"optimal_purchase_month"`
	OptimalMultiplier         float64 `json:"optimal_multiplier"`
	SeasonalSavingsPotential  float64 `json:"seasonal_savings_potential_pct"`
	PlantingCalendarAlignment float64 `json:"planting_calendar_alignment"`
}

// seasonalTables are indexed by month-1.
var seasonalTables = map[catalog.Category][12]float64{
	catalog.Seeds:      {0.95, 0.90, 1.10, 1.20, 1.15, 1.05, 0.95, 0.90, 0.95, 1.00, 0.95, 0.90},
	catalog.Fertilizer: {1.05, 1.10, 1.20, 1.25, 1.15, 1.00, 0.95, 0.90, 0.95, 1.00, 1.05, 1.00},
	catalog.Pesticides: {1.00, 1.05, 1.15, 1.20, 1.25, 1.10, 1.00, 0.95, 0.95, 1.00, 1.00, 1.00},
}

var plantingMonths = map[catalog.Category][]time.Month{
	catalog.Seeds:      {time.March, time.April, time.May},
	catalog.Fertilizer: {time.February, time.March, time.April},
	catalog.Pesticides: {time.April, time.May, time.June},
	catalog.Equipment:  {time.January, time.February, time.March},
	catalog.Fuel: {
		time.January, time.February, time.March, time.April, time.May, time.June,
		time.July, time.August, time.September, time.October, time.November, time.December,
	},
	catalog.Other: {time.March, time.April, time.May},
}

// Seasonality computes seasonality factors for category in month.
func Seasonality(category catalog.Category, month time.Month) SeasonalityFactors {
	table, ok := seasonalTables[category]
	if !ok {
		table = [12]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	}

	current := table[month-1]
	optimal := 0
	for i := 1; i < len(table); i++ {
		if table[i] < table[optimal] {
			optimal = i
		}
	}

	savings := 0.0
	if current > 0 {
		savings = (current - table[optimal]) / current * 100
	}
	if savings < 0 {
		savings = 0
	}

	return SeasonalityFactors{
		CurrentMonth:              int(month),
		CurrentSeasonMultiplier:   current,
		OptimalPurchaseMonth:      optimal + 1,
		OptimalMultiplier:         table[optimal],
		SeasonalSavingsPotential:  savings,
		PlantingCalendarAlignment: calendarAlignment(category, month),
	}
}

func calendarAlignment(category catalog.Category, month time.Month) float64 {
	months, ok := plantingMonths[category]
	if !ok {
		months = plantingMonths[catalog.Other]
	}
	for _, m := range months {
		if m == month {
			return 1.1
		}
	}
	for _, m := range months {
		if previousMonth(m) == month {
			return 1.05
		}
	}
	return 0.95
}

func previousMonth(m time.Month) time.Month {
	if m == time.January {
		return time.December
	}
	return m - 1
}

// MonthName returns the English name of a 1-based month, or "Unknown".
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "Unknown"
	}
	return time.Month(month).String()
}
