package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AnalysisRun is a persisted analysis response.
type AnalysisRun struct {
	ID           string
	CreatedAt    time.Time
	FarmState    string
	FarmCity     string
	ProductNames []string
	TotalTarget  float64
	Response     []byte
}

// AnalysisSummary is one row of the analyses list.
type AnalysisSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	FarmState    string    `json:"farm_state"`
	FarmCity     string    `json:"farm_city"`
	ProductNames []string  `json:"product_names"`
	ProductCount int       `json:"product_count"`
	TotalTarget  float64   `json:"total_target"`
}

// Analyses is the analysis_runs repository.
type Analyses struct {
	db *sql.DB
}

func NewAnalyses(db *sql.DB) *Analyses {
	return &Analyses{db: db}
}

const namesSep = "\n"

// Save inserts run.
func (a *Analyses) Save(ctx context.Context, run AnalysisRun) error {
	if _, err := a.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (
			id,
			created_at,
			farm_state,
			farm_city,
			product_names,
			product_count,
			total_target,
			response_json
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, formatTime(run.CreatedAt), run.FarmState, run.FarmCity,
		strings.Join(run.ProductNames, namesSep), len(run.ProductNames), run.TotalTarget, string(run.Response)); err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

// Get loads the run with id.
func (a *Analyses) Get(ctx context.Context, id string) (AnalysisRun, error) {
	var run AnalysisRun
	var created, names, response string
	err := a.db.QueryRowContext(ctx, `
		SELECT id, created_at, farm_state, farm_city, product_names, total_target, response_json
		FROM analysis_runs
		WHERE id = ?
	`, id).Scan(&run.ID, &created, &run.FarmState, &run.FarmCity, &names, &run.TotalTarget, &response)
	if errors.Is(err, sql.ErrNoRows) {
		return AnalysisRun{}, ErrNotFound
	}
	if err != nil {
		return AnalysisRun{}, fmt.Errorf("query analysis run: %w", err)
	}
	run.CreatedAt = parseTime(created)
	run.ProductNames = splitNames(names)
	run.Response = []byte(response)
	return run, nil
}

// List returns runs newest first, filtered on product names or city when
// query is non-empty.
func (a *Analyses) List(ctx context.Context, query string) ([]AnalysisSummary, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := a.db.QueryContext(ctx, `
		SELECT
			id,
			created_at,
			farm_state,
			farm_city,
			product_names,
			product_count,
			total_target
		FROM analysis_runs
		WHERE (? = '' OR product_names LIKE ? OR farm_city LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	runs := make([]AnalysisSummary, 0)
	for rows.Next() {
		var item AnalysisSummary
		var created, names string
		if err := rows.Scan(&item.ID, &created, &item.FarmState, &item.FarmCity, &names, &item.ProductCount, &item.TotalTarget); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		item.CreatedAt = parseTime(created)
		item.ProductNames = splitNames(names)
		runs = append(runs, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return runs, nil
}

func splitNames(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, namesSep)
}
