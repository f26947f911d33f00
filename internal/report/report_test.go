package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Valeamar/tidal2025/internal/agent"
	"github.com/Valeamar/tidal2025/internal/models"
)

func sampleRun() Run {
	target := 42.5
	return Run{
		CreatedAt: time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC),
		Response: &agent.Response{
			AnalysisID:   "run-1",
			FarmLocation: models.FarmLocation{City: "Ames", State: "ia", ZipCode: "50010"},
			ProductAnalyses: []agent.ProductResult{
				{
					ProductID:   "p1",
					ProductName: "nitrogen fertilizer",
					Analysis: agent.PriceAnalysis{
						EffectiveCost:   models.PriceRange{P10: 40, P25: 41, P35: 42.5, P50: 44, P90: 50},
						TargetPrice:     &target,
						ConfidenceScore: 0.75,
						Suppliers:       []agent.SupplierRecommendation{{Name: "Prairie Co-op", Price: 42}},
						Recommendations: []models.Recommendation{
							{Type: models.Timing, Description: "Buy before spring", ActionRequired: "Order now", PotentialSavings: 120, Confidence: 0.7},
							{Type: models.BulkDiscount, Description: "Consolidate orders", ActionRequired: "Combine", PotentialSavings: 80, Confidence: 0.6},
						},
					},
					IndividualBudget: agent.Budget{Low: 400, Target: 425, High: 500, TotalCost: 425},
				},
				{
					ProductID:   "p2",
					ProductName: "soybean seed",
					Analysis: agent.PriceAnalysis{
						DataLimitations: []string{"No market data found"},
					},
				},
			},
			OverallBudget: agent.Budget{Low: 400, Target: 425, High: 500, TotalCost: 425},
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleRun()); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != summarySheet {
		t.Fatalf("sheets = %v", sheets)
	}

	cases := []struct {
		sheet, cell, want string
	}{
		{summarySheet, "B2", "run-1"},
		{summarySheet, "B3", "2025-03-04 15:30 UTC"},
		{summarySheet, "B4", "Ames, IA 50010"},
		{summarySheet, "B7", "425"},
		{productsSheet, "A1", "Product"},
		{productsSheet, "A2", "Nitrogen Fertilizer"},
		{productsSheet, "D2", "42.5"},
		{productsSheet, "L2", "Prairie Co-op"},
		{productsSheet, "M2", "2"},
		{productsSheet, "A3", "Soybean Seed"},
		{productsSheet, "M3", "0"},
		{recommendationsSheet, "B2", "TIMING"},
		{recommendationsSheet, "C3", "Consolidate orders"},
		{recommendationsSheet, "A4", ""},
	}
	for _, tc := range cases {
		got, err := f.GetCellValue(tc.sheet, tc.cell)
		if err != nil {
			t.Fatalf("%s!%s: %v", tc.sheet, tc.cell, err)
		}
		if got != tc.want {
			t.Errorf("%s!%s = %q, want %q", tc.sheet, tc.cell, got, tc.want)
		}
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleRun()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a pdf: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestWritePDFManyRecommendations(t *testing.T) {
	run := sampleRun()
	p := &run.Response.ProductAnalyses[0].Analysis
	for range 12 {
		p.Recommendations = append(p.Recommendations, models.Recommendation{
			Type: models.SupplyRisk, Description: "Diversify suppliers", ActionRequired: "Call", Confidence: 0.5,
		})
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, run); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty pdf")
	}
}

func TestMoney(t *testing.T) {
	if got := money(1234567.891); got != "$1,234,567.89" {
		t.Fatalf("money = %q", got)
	}
}
