package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"github.com/Valeamar/tidal2025/internal/models"
)

const usdaSupplier = "USDA Market Average"

var usdaCommodities = map[string]string{
	"corn seed":    "CORN",
	"soybean seed": "SOYBEANS",
	"wheat seed":   "WHEAT",
	"fertilizer":   "FERTILIZER",
	"nitrogen":     "FERTILIZER, NITROGEN",
	"phosphorus":   "FERTILIZER, PHOSPHORUS",
	"potassium":    "FERTILIZER, POTASH",
	"diesel fuel":  "FUEL, DIESEL",
	"gasoline":     "FUEL, GASOLINE",
}

// Commodity maps a product name to its Quick Stats commodity description.
func Commodity(productName string) string {
	name := strings.ToLower(strings.TrimSpace(productName))
	if c, ok := usdaCommodities[name]; ok {
		return c
	}
	return strings.ToUpper(strings.TrimSpace(productName))
}

// USDASource reads commodity averages from the NASS Quick Stats API.
type USDASource struct {
	apiKey  string
	baseURL string
	client  *resty.Client
	backoff func() retry.Backoff
	now     func() time.Time
}

type usdaResponse struct {
	Data []struct {
		Value    string `json:"Value"`
		UnitDesc string `json:"unit_desc"`
	} `json:"data"`
}

func NewUSDASource(apiKey, baseURL string, timeout time.Duration) *USDASource {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &USDASource{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
		},
		now: time.Now,
	}
}

func (u *USDASource) Name() string { return "usda" }

func (u *USDASource) Prices(ctx context.Context, productName string, loc models.FarmLocation) ([]models.PriceQuote, error) {
	var body usdaResponse
	err := retry.Do(ctx, u.backoff(), func(ctx context.Context) error {
		resp, err := u.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"key":            u.apiKey,
				"commodity_desc": Commodity(productName),
				"state_alpha":    loc.StateCode(),
				"format":         "JSON",
			}).
			Get(u.baseURL + "/api_GET/")
		if err != nil {
			return retry.RetryableError(fmt.Errorf("get usda prices: %w", err))
		}
		if resp.StatusCode() >= 500 {
			log.Printf("usda: status %d, retrying", resp.StatusCode())
			return retry.RetryableError(fmt.Errorf("usda status %d", resp.StatusCode()))
		}
		if resp.IsError() {
			return fmt.Errorf("usda status %d", resp.StatusCode())
		}
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return fmt.Errorf("decode usda response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	location := loc.Label()
	quotes := make([]models.PriceQuote, 0, len(body.Data))
	for _, item := range body.Data {
		raw := strings.ReplaceAll(strings.TrimSpace(item.Value), ",", "")
		if raw == "" || raw == "(D)" {
			continue
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		quotes = append(quotes, models.PriceQuote{
			Supplier:    usdaSupplier,
			ProductName: productName,
			BasePrice:   price,
			Unit:        item.UnitDesc,
			Location:    location,
			Source:      u.Name(),
			Reliability: ptr(0.9),
			CachedAt:    ptr(now),
		})
	}
	return quotes, nil
}
