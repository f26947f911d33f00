package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// TaxRate is one editable state sales tax rate.
type TaxRate struct {
	State     string    `json:"state"`
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaxRates is the state_tax_rates repository.
type TaxRates struct {
	db  *sql.DB
	now func() time.Time
}

func NewTaxRates(db *sql.DB) *TaxRates {
	return &TaxRates{db: db, now: time.Now}
}

// List returns every rate ordered by state.
func (r *TaxRates) List(ctx context.Context) ([]TaxRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT state, rate, updated_at
		FROM state_tax_rates
		ORDER BY state
	`)
	if err != nil {
		return nil, fmt.Errorf("query tax rates: %w", err)
	}
	defer rows.Close()

	rates := make([]TaxRate, 0)
	for rows.Next() {
		var tr TaxRate
		var updated string
		if err := rows.Scan(&tr.State, &tr.Rate, &updated); err != nil {
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		tr.UpdatedAt = parseTime(updated)
		rates = append(rates, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tax rates: %w", err)
	}
	return rates, nil
}

// Table returns the rates keyed by state code.
func (r *TaxRates) Table(ctx context.Context) (map[string]float64, error) {
	rates, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	table := make(map[string]float64, len(rates))
	for _, tr := range rates {
		table[tr.State] = tr.Rate
	}
	return table, nil
}

// Set inserts or replaces the rate for state.
func (r *TaxRates) Set(ctx context.Context, state string, rate float64) (TaxRate, error) {
	tr := TaxRate{State: strings.ToUpper(strings.TrimSpace(state)), Rate: rate, UpdatedAt: r.now().UTC()}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO state_tax_rates (state, rate, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(state) DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at
	`, tr.State, tr.Rate, formatTime(tr.UpdatedAt)); err != nil {
		return TaxRate{}, fmt.Errorf("upsert tax rate: %w", err)
	}
	return tr, nil
}
