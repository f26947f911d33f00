package marketdata

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/multierr"

	"github.com/Valeamar/tidal2025/internal/models"
)

const maxItemsPerSite = 5

// Selectors are the CSS selectors locating products on a search page.
type Selectors struct {
	Product string `json:"product"`
	Name    string `json:"name"`
	Price   string `json:"price"`
	Unit    string `json:"unit"`
}

// Site is a supplier storefront with a product search page.
type Site struct {
	Name       string
	BaseURL    string
	SearchPath string
	Selectors  Selectors
}

// SearchURL returns the search page for productName.
func (s Site) SearchURL(productName string) string {
	return s.BaseURL + s.SearchPath + "?q=" + url.QueryEscape(productName)
}

// DefaultSites lists the storefronts scraped when none are configured.
func DefaultSites() []Site {
	return []Site{
		{
			Name:       "AgriSupply",
			BaseURL:    "https://www.agrisupply.com",
			SearchPath: "/search",
			Selectors:  Selectors{Product: ".product-item", Name: ".product-name", Price: ".price", Unit: ".unit"},
		},
		{
			Name:       "TractorSupply",
			BaseURL:    "https://www.tractorsupply.com",
			SearchPath: "/search",
			Selectors:  Selectors{Product: ".product-tile", Name: ".product-title", Price: ".price-current", Unit: ".price-unit"},
		},
	}
}

// scrapedItem is what the page script extracts for one product tile.
type scrapedItem struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Unit  string `json:"unit"`
}

var priceRe = regexp.MustCompile(`\$?(\d+\.?\d*)`)

// ParsePrice pulls the first price-looking number out of text.
func ParsePrice(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(strings.ReplaceAll(text, ",", ""))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ScrapeSource reads supplier search pages with a headless browser.
type ScrapeSource struct {
	sites      []Site
	chromePath string
	timeout    time.Duration
	now        func() time.Time
	scrape     func(browserCtx context.Context, site Site, productName string) ([]scrapedItem, error)
}

func NewScrapeSource(sites []Site, chromePath string, timeout time.Duration) *ScrapeSource {
	if len(sites) == 0 {
		sites = DefaultSites()
	}
	s := &ScrapeSource{sites: sites, chromePath: chromePath, timeout: timeout, now: time.Now}
	s.scrape = s.scrapeSite
	return s
}

func (s *ScrapeSource) Name() string { return "scraper" }

func (s *ScrapeSource) Prices(ctx context.Context, productName string, loc models.FarmLocation) ([]models.PriceQuote, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var quotes []models.PriceQuote
	var errs []error
	for _, site := range s.sites {
		items, err := s.scrape(browserCtx, site, productName)
		if err != nil {
			log.Printf("scraper: %s: %v", site.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", site.Name, err))
			continue
		}
		quotes = append(quotes, s.toQuotes(site, items)...)
	}
	// Partial failures are logged only; an error means every site failed.
	if len(errs) == len(s.sites) {
		return nil, multierr.Combine(errs...)
	}
	return quotes, nil
}

func (s *ScrapeSource) scrapeSite(browserCtx context.Context, site Site, productName string) ([]scrapedItem, error) {
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.timeout)
	defer cancelTimeout()

	var items []scrapedItem
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(site.SearchURL(productName)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(extractScript(site.Selectors), &items),
	)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", site.SearchURL(productName), err)
	}
	return items, nil
}

func extractScript(sel Selectors) string {
	return fmt.Sprintf(`
		(function() {
			var out = [];
			var tiles = document.querySelectorAll(%q);
			for (var i = 0; i < tiles.length && out.length < %d; i++) {
				var name = tiles[i].querySelector(%q);
				var price = tiles[i].querySelector(%q);
				var unit = %q ? tiles[i].querySelector(%q) : null;
				if (!name || !price) continue;
				out.push({
					name: name.textContent.trim(),
					price: price.textContent.trim(),
					unit: unit ? unit.textContent.trim() : ''
				});
			}
			return out;
		})()
	`, sel.Product, maxItemsPerSite, sel.Name, sel.Price, sel.Unit, sel.Unit)
}

func (s *ScrapeSource) toQuotes(site Site, items []scrapedItem) []models.PriceQuote {
	now := s.now().UTC()
	quotes := make([]models.PriceQuote, 0, len(items))
	for _, item := range items {
		if len(quotes) == maxItemsPerSite {
			break
		}
		price, ok := ParsePrice(item.Price)
		if !ok {
			continue
		}
		unit := strings.TrimSpace(item.Unit)
		if unit == "" {
			unit = "each"
		}
		quotes = append(quotes, models.PriceQuote{
			Supplier:    site.Name,
			ProductName: strings.TrimSpace(item.Name),
			BasePrice:   price,
			Unit:        unit,
			Source:      s.Name(),
			Reliability: ptr(0.7),
			CachedAt:    ptr(now),
		})
	}
	return quotes
}
