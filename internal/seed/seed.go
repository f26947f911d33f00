package seed

import (
	"database/sql"
	"fmt"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/Valeamar/tidal2025/internal/pricing"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureTaxRates(tx, pricing.DefaultStateTaxRates(), &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// ensureTaxRates inserts missing states only; rates edited by an admin stay.
func ensureTaxRates(tx *sql.Tx, rates map[string]float64, stats *Stats) error {
	states := make([]string, 0, len(rates))
	for state := range rates {
		states = append(states, state)
	}
	sort.Strings(states)

	for _, state := range states {
		res, err := tx.Exec(`
			INSERT INTO state_tax_rates (state, rate)
			VALUES (?, ?)
			ON CONFLICT(state) DO NOTHING
		`, state, rates[state])
		if err != nil {
			return fmt.Errorf("insert tax rate %s: %w", state, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("count tax rate insert: %w", err)
		}
		stats.Inserts += int(n)
	}
	return nil
}
