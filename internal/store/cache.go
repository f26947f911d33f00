package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Valeamar/tidal2025/internal/models"
)

// MarketCache stores fetched quotes per product and location.
type MarketCache struct {
	db  *sql.DB
	now func() time.Time
}

func NewMarketCache(db *sql.DB, now func() time.Time) *MarketCache {
	if now == nil {
		now = time.Now
	}
	return &MarketCache{db: db, now: now}
}

// CacheKey is the lowercase "product|location" key.
func CacheKey(productName, location string) string {
	return strings.ToLower(strings.TrimSpace(productName) + "|" + strings.TrimSpace(location))
}

// Get returns cached quotes younger than ttl. ok is false on a miss.
func (c *MarketCache) Get(ctx context.Context, productName, location string, ttl time.Duration) (quotes []models.PriceQuote, ok bool, err error) {
	var raw, cachedAt string
	err = c.db.QueryRowContext(ctx, `
		SELECT quotes_json, cached_at
		FROM market_cache
		WHERE cache_key = ?
	`, CacheKey(productName, location)).Scan(&raw, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query market cache: %w", err)
	}

	if c.now().Sub(parseTime(cachedAt)) > ttl {
		return nil, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &quotes); err != nil {
		return nil, false, fmt.Errorf("decode cached quotes: %w", err)
	}
	return quotes, true, nil
}

// Put replaces the cached quotes for product and location.
func (c *MarketCache) Put(ctx context.Context, productName, location string, quotes []models.PriceQuote) error {
	raw, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encode quotes: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, `
		INSERT INTO market_cache (cache_key, product_name, location, quotes_json, cached_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			quotes_json = excluded.quotes_json,
			cached_at = excluded.cached_at
	`, CacheKey(productName, location), productName, location, string(raw), formatTime(c.now())); err != nil {
		return fmt.Errorf("upsert market cache: %w", err)
	}
	return nil
}

// PurgeExpired deletes rows older than ttl and returns how many went.
func (c *MarketCache) PurgeExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM market_cache WHERE cached_at < ?`, formatTime(c.now().Add(-ttl)))
	if err != nil {
		return 0, fmt.Errorf("purge market cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count purged rows: %w", err)
	}
	return n, nil
}
