package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"github.com/Valeamar/tidal2025/internal/models"
)

// HTTPProvider fetches insights from a remote service at baseURL + "/insights".
type HTTPProvider struct {
	baseURL string
	client  *resty.Client
	backoff func() retry.Backoff
}

type insightsRequest struct {
	ProductName  string         `json:"product_name"`
	State        string         `json:"state"`
	City         string         `json:"city,omitempty"`
	QuoteCount   int            `json:"quote_count"`
	PriceHistory []HistoryPoint `json:"price_history"`
}

// NewHTTPProvider returns a provider with the given per-request timeout.
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
		},
	}
}

func (p *HTTPProvider) Insights(ctx context.Context, productName string, quotes []models.PriceQuote, loc models.FarmLocation) (*Insights, error) {
	body := insightsRequest{
		ProductName:  productName,
		State:        loc.StateCode(),
		City:         loc.City,
		QuoteCount:   len(quotes),
		PriceHistory: PriceHistory(quotes),
	}

	var raw Response
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		resp, err := p.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(p.baseURL + "/insights")
		if err != nil {
			return retry.RetryableError(fmt.Errorf("post insights: %w", err))
		}
		if resp.StatusCode() >= 500 {
			log.Printf("insights: %s returned %d, retrying", p.baseURL, resp.StatusCode())
			return retry.RetryableError(fmt.Errorf("insights service status %d", resp.StatusCode()))
		}
		if resp.IsError() {
			return fmt.Errorf("insights service status %d", resp.StatusCode())
		}
		if err := json.Unmarshal(resp.Body(), &raw); err != nil {
			return fmt.Errorf("decode insights: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return Assemble(&raw, len(quotes)), nil
}
