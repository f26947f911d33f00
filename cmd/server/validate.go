package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Valeamar/tidal2025/internal/models"
)

const (
	maxProductsPerRequest = 50
	defaultCountry        = "US"
)

type analyzeRequest struct {
	FarmLocation models.FarmLocation   `json:"farm_location"`
	Products     []models.ProductInput `json:"products"`
}

// normalize trims string fields in place and fills defaults.
func (req *analyzeRequest) normalize() {
	loc := &req.FarmLocation
	loc.StreetAddress = strings.TrimSpace(loc.StreetAddress)
	loc.City = strings.TrimSpace(loc.City)
	loc.State = strings.TrimSpace(loc.State)
	loc.County = strings.TrimSpace(loc.County)
	loc.ZipCode = strings.TrimSpace(loc.ZipCode)
	loc.Country = strings.TrimSpace(loc.Country)
	if loc.Country == "" {
		loc.Country = defaultCountry
	}

	for i := range req.Products {
		p := &req.Products[i]
		p.Name = strings.TrimSpace(p.Name)
		p.Unit = strings.TrimSpace(p.Unit)
		p.Specifications = strings.TrimSpace(p.Specifications)
	}
}

func (req analyzeRequest) validate() error {
	if err := validateLocation(req.FarmLocation); err != nil {
		return err
	}
	if len(req.Products) == 0 {
		return fmt.Errorf("products must not be empty")
	}
	if len(req.Products) > maxProductsPerRequest {
		return fmt.Errorf("products must contain at most %d items", maxProductsPerRequest)
	}
	for i, p := range req.Products {
		if err := validateProduct(p); err != nil {
			return fmt.Errorf("products[%d]: %w", i, err)
		}
	}
	return nil
}

func validateLocation(loc models.FarmLocation) error {
	if loc.StreetAddress == "" {
		return fmt.Errorf("farm_location.street_address is required")
	}
	if loc.City == "" {
		return fmt.Errorf("farm_location.city is required")
	}
	if loc.County == "" {
		return fmt.Errorf("farm_location.county is required")
	}
	if err := checkLength("farm_location.state", loc.State, 2, 50); err != nil {
		return err
	}
	if err := checkLength("farm_location.zip_code", loc.ZipCode, 5, 10); err != nil {
		return err
	}
	return checkLength("farm_location.country", loc.Country, 2, 50)
}

func validateProduct(p models.ProductInput) error {
	if err := checkLength("name", p.Name, 1, 200); err != nil {
		return err
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than 0")
	}
	if err := checkLength("unit", p.Unit, 1, 50); err != nil {
		return err
	}
	if utf8.RuneCountInString(p.Specifications) > 500 {
		return fmt.Errorf("specifications must be at most 500 characters")
	}
	if p.MaxPrice != nil && *p.MaxPrice <= 0 {
		return fmt.Errorf("max_price must be greater than 0")
	}
	return nil
}

func checkLength(field, value string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(value)
	if n < minLen || n > maxLen {
		return fmt.Errorf("%s must be between %d and %d characters", field, minLen, maxLen)
	}
	return nil
}

func parseTaxRate(rate *float64) (float64, error) {
	if rate == nil {
		return 0, fmt.Errorf("rate is required")
	}
	if *rate < 0 || *rate > maxTaxRate {
		return 0, fmt.Errorf("rate must be between 0 and %.2f", maxTaxRate)
	}
	return *rate, nil
}
