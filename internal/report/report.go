// Package report renders a stored analysis as a spreadsheet or PDF.
package report

import (
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Valeamar/tidal2025/internal/agent"
	"github.com/Valeamar/tidal2025/internal/models"
)

const maxRecommendationLines = 8

// Run is an analysis response together with when it was stored.
type Run struct {
	CreatedAt time.Time
	Response  *agent.Response
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func title(s string) string {
	return cases.Title(language.Und).String(s)
}

func locationLine(loc models.FarmLocation) string {
	line := loc.Label()
	if loc.ZipCode != "" {
		line += " " + loc.ZipCode
	}
	return line
}

func topSupplier(r agent.ProductResult) string {
	if len(r.Analysis.Suppliers) == 0 {
		return ""
	}
	return r.Analysis.Suppliers[0].Name
}
