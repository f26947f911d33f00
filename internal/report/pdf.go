package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF writes run as a printable budget summary.
func WritePDF(w io.Writer, run Run) error {
	resp := run.Response

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(190, 10, "Farm Input Budget Analysis")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(190, 6, tr("Location: "+locationLine(resp.FarmLocation)))
	pdf.Ln(6)
	pdf.Cell(190, 6, "Generated: "+run.CreatedAt.UTC().Format("January 2, 2006 15:04 MST"))
	pdf.Ln(6)
	pdf.Cell(190, 6, "Analysis ID: "+resp.AnalysisID)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(63, 8, "Budget Low", "1", 0, "L", true, 0, "")
	pdf.CellFormat(63, 8, "Budget Target", "1", 0, "L", true, 0, "")
	pdf.CellFormat(64, 8, "Budget High", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	b := resp.OverallBudget
	pdf.CellFormat(63, 8, money(b.Low), "1", 0, "L", false, 0, "")
	pdf.CellFormat(63, 8, money(b.Target), "1", 0, "L", false, 0, "")
	pdf.CellFormat(64, 8, money(b.High), "1", 1, "L", false, 0, "")
	pdf.Ln(6)

	for _, r := range resp.ProductAnalyses {
		a := r.Analysis

		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(190, 8, tr(title(r.ProductName)))
		pdf.Ln(9)

		pdf.SetFont("Arial", "", 10)
		if a.EffectiveCost.IsZero() {
			pdf.Cell(190, 6, "No price data available")
			pdf.Ln(6)
		} else {
			pdf.Cell(190, 6, fmt.Sprintf("Delivered cost: P10 %s  P35 %s  P90 %s",
				money(a.EffectiveCost.P10), money(a.EffectiveCost.P35), money(a.EffectiveCost.P90)))
			pdf.Ln(6)
			pdf.Cell(190, 6, fmt.Sprintf("Budget: %s (range %s - %s)  Confidence: %.0f%%",
				money(r.IndividualBudget.Target), money(r.IndividualBudget.Low), money(r.IndividualBudget.High),
				a.ConfidenceScore*100))
			pdf.Ln(6)
		}
		if s := topSupplier(r); s != "" {
			pdf.Cell(190, 6, tr("Best value supplier: "+s))
			pdf.Ln(6)
		}

		recs := a.Recommendations
		if len(recs) > maxRecommendationLines {
			recs = recs[:maxRecommendationLines]
		}
		for _, rec := range recs {
			pdf.MultiCell(190, 5, tr("- "+rec.Description), "", "L", false)
		}
		for _, l := range a.DataLimitations {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(190, 5, tr("Note: "+l), "", "L", false)
			pdf.SetFont("Arial", "", 10)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
