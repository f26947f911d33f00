package pricing

import (
	"math"
	"testing"

	"github.com/Valeamar/tidal2025/internal/catalog"
	"github.com/Valeamar/tidal2025/internal/models"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestCalculate_UnknownStateOtherCategory(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)
	quote := models.PriceQuote{Supplier: "Co-op", ProductName: "Baling twine", BasePrice: 100, Unit: "each"}
	product := models.ProductInput{Name: "Baling twine", Quantity: 10, Unit: "each"}

	result := calc.Calculate(quote, models.FarmLocation{State: "ZZ"}, product)

	nearlyEqual(t, "basePrice", result.BasePrice, 100)
	nearlyEqual(t, "freight", result.Logistics.Freight, 2.5)
	nearlyEqual(t, "fuelSurcharge", result.Logistics.FuelSurcharge, 0.375)
	nearlyEqual(t, "logistics total", result.Logistics.Total, 4.125)
	nearlyEqual(t, "salesTax", result.TaxesAndFees.SalesTax, 6)
	nearlyEqual(t, "paymentProcessing", result.TaxesAndFees.PaymentProcessing, 2.9)
	nearlyEqual(t, "taxes total", result.TaxesAndFees.Total, 9.4)
	nearlyEqual(t, "wastage", result.WastageAdjustment, 1)
	nearlyEqual(t, "total", result.TotalEffectiveCost, 114.525)
}

func TestCalculate_OrganicCertification(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)
	loc := models.FarmLocation{City: "Ames", State: "IA"}

	organic := calc.Calculate(
		models.PriceQuote{ProductName: "Organic Corn Seed", BasePrice: 50, Unit: "bag"},
		loc,
		models.ProductInput{Name: "Organic Corn Seed", Quantity: 1, Unit: "bag"},
	)
	conventional := calc.Calculate(
		models.PriceQuote{ProductName: "Corn Seed", BasePrice: 50, Unit: "bag"},
		loc,
		models.ProductInput{Name: "Corn Seed", Quantity: 1, Unit: "bag"},
	)

	nearlyEqual(t, "organic certification", organic.TaxesAndFees.CertificationCosts, 0.25)
	nearlyEqual(t, "conventional certification", conventional.TaxesAndFees.CertificationCosts, 0)
	nearlyEqual(t, "organic component", organic.Components["certification_costs"], 0.25)
	nearlyEqual(t, "difference", organic.TotalEffectiveCost-conventional.TotalEffectiveCost, 0.25)
}

func TestCalculate_StateTaxAndRemotePremium(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)
	product := models.ProductInput{Name: "Diesel", Quantity: 1, Unit: "gal"}
	quote := models.PriceQuote{ProductName: "Diesel", BasePrice: 10, Unit: "gal"}

	ca := calc.Calculate(quote, models.FarmLocation{State: "ca"}, product)
	mt := calc.Calculate(quote, models.FarmLocation{State: "MT"}, product)

	nearlyEqual(t, "CA sales tax", ca.TaxesAndFees.SalesTax, 0.725)
	nearlyEqual(t, "CA premium", ca.Logistics.DeliveryPremium, 0)
	nearlyEqual(t, "MT premium", mt.Logistics.DeliveryPremium, 2)
	nearlyEqual(t, "MT sales tax", mt.TaxesAndFees.SalesTax, 0.6)
}

func TestCalculate_CategoryWastage(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)
	loc := models.FarmLocation{State: "TX"}

	seeds := calc.Calculate(models.PriceQuote{BasePrice: 100}, loc, models.ProductInput{Name: "Soybean seed"})
	pest := calc.Calculate(models.PriceQuote{BasePrice: 100}, loc, models.ProductInput{Name: "Fungicide"})
	tractor := calc.Calculate(models.PriceQuote{BasePrice: 100}, loc, models.ProductInput{Name: "Tractor tire"})

	nearlyEqual(t, "seeds wastage", seeds.WastageAdjustment, 2)
	nearlyEqual(t, "pesticides wastage", pest.WastageAdjustment, 0.5)
	nearlyEqual(t, "equipment wastage", tractor.WastageAdjustment, 0)
}

func TestCalculate_InjectedCategorizer(t *testing.T) {
	calc := NewCalculator(DefaultRates(), catalog.Func(func(string) catalog.Category { return catalog.Seeds }))

	result := calc.Calculate(models.PriceQuote{BasePrice: 100}, models.FarmLocation{State: "TX"}, models.ProductInput{Name: "Twine"})

	nearlyEqual(t, "wastage", result.WastageAdjustment, 2)
}

func TestCalculate_StoredTaxTable(t *testing.T) {
	rates := DefaultRates().WithSalesTax(map[string]float64{"TX": 0.1})
	calc := NewCalculator(rates, nil)

	result := calc.Calculate(models.PriceQuote{BasePrice: 100}, models.FarmLocation{State: "TX"}, models.ProductInput{Name: "Twine"})

	nearlyEqual(t, "sales tax", result.TaxesAndFees.SalesTax, 10)
	nearlyEqual(t, "default rate", rates.TaxRate("CA"), 0.06)
}

func TestNormalizePrice(t *testing.T) {
	nearlyEqual(t, "lb to kg", NormalizePrice(1, "LB", "kg"), 2.20462)
	nearlyEqual(t, "gal to l", NormalizePrice(2, "gal", "L"), 7.57082)
	nearlyEqual(t, "unknown pair", NormalizePrice(5, "bag", "ton"), 5)
}
