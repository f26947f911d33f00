package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet         = "Summary"
	productsSheet        = "Products"
	recommendationsSheet = "Recommendations"
)

var productHeader = []any{
	"Product", "P10", "P25", "P35", "P50", "P90", "Target Price", "Confidence",
	"Budget Low", "Budget Target", "Budget High", "Top Supplier", "Recommendations",
}

var recommendationHeader = []any{
	"Product", "Type", "Description", "Action", "Potential Savings", "Confidence",
}

// WriteXLSX writes run as a three-sheet workbook.
func WriteXLSX(w io.Writer, run Run) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	for _, name := range []string{productsSheet, recommendationsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create %s sheet: %w", name, err)
		}
	}

	resp := run.Response
	budget := resp.OverallBudget
	summary := [][]any{
		{"Farm Input Budget Analysis"},
		{"Analysis ID", resp.AnalysisID},
		{"Created", run.CreatedAt.UTC().Format("2006-01-02 15:04 MST")},
		{"Location", locationLine(resp.FarmLocation)},
		{"Products", len(resp.ProductAnalyses)},
		{"Budget Low", budget.Low},
		{"Budget Target", budget.Target},
		{"Budget High", budget.High},
		{"Data Coverage", resp.DataQualityReport.OverallDataCoverage},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	if err := setRow(f, productsSheet, 1, productHeader); err != nil {
		return err
	}
	if err := setRow(f, recommendationsSheet, 1, recommendationHeader); err != nil {
		return err
	}

	recRow := 2
	for i, r := range resp.ProductAnalyses {
		a := r.Analysis
		target := 0.0
		if a.TargetPrice != nil {
			target = *a.TargetPrice
		}
		row := []any{
			title(r.ProductName),
			a.EffectiveCost.P10, a.EffectiveCost.P25, a.EffectiveCost.P35, a.EffectiveCost.P50, a.EffectiveCost.P90,
			target, a.ConfidenceScore,
			r.IndividualBudget.Low, r.IndividualBudget.Target, r.IndividualBudget.High,
			topSupplier(r), len(a.Recommendations),
		}
		if err := setRow(f, productsSheet, i+2, row); err != nil {
			return err
		}

		for _, rec := range a.Recommendations {
			if err := setRow(f, recommendationsSheet, recRow, []any{
				title(r.ProductName), string(rec.Type), rec.Description, rec.ActionRequired, rec.PotentialSavings, rec.Confidence,
			}); err != nil {
				return err
			}
			recRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
