// Package points keeps the totals of the points players score in finished games.
package points

import (
	"context"
	"fmt"
	"strings"
)

type (
	// Total is the sum of the points a player has scored.
	Total struct {
		Name   string `json:"name"`
		Points int    `json:"points"`
	}

	// Backend stores the totals.
	Backend interface {
		// UpdatePointsIncrement adds the points to the totals of the players with the names, creating totals that do not exist.
		UpdatePointsIncrement(ctx context.Context, playerPoints map[string]int) error
		// Top reads the totals with the most points, highest first.
		Top(ctx context.Context, n int) ([]Total, error)
	}

	// Dao checks requests to the backend.
	Dao struct {
		backend Backend
		DaoConfig
	}

	// DaoConfig is used to create a Dao.
	DaoConfig struct {
		// MaxTop is the most totals that can be read at once.
		MaxTop int
	}
)

// NewDao creates a Dao on the backend.
func (cfg DaoConfig) NewDao(b Backend) (*Dao, error) {
	if err := cfg.validate(b); err != nil {
		return nil, fmt.Errorf("creating points dao: validation: %w", err)
	}
	d := Dao{
		backend:   b,
		DaoConfig: cfg,
	}
	return &d, nil
}

// validate checks fields to set up the dao.
func (cfg DaoConfig) validate(b Backend) error {
	switch {
	case b == nil:
		return fmt.Errorf("backend required")
	case cfg.MaxTop < 1:
		return fmt.Errorf("positive max top required")
	}
	return nil
}

// UpdatePointsIncrement adds the points to the totals of the players.
// Players without names and players that did not score are skipped.
func (d Dao) UpdatePointsIncrement(ctx context.Context, playerPoints map[string]int) error {
	m := make(map[string]int, len(playerPoints))
	for name, points := range playerPoints {
		name = strings.TrimSpace(name)
		switch {
		case len(name) == 0, points == 0:
			continue
		case points < 0:
			return fmt.Errorf("incrementing points: %v cannot lose %v points", name, -points)
		}
		m[name] += points
	}
	if len(m) == 0 {
		return nil
	}
	if err := d.backend.UpdatePointsIncrement(ctx, m); err != nil {
		return fmt.Errorf("incrementing points: %w", err)
	}
	return nil
}

// Top reads the totals with the most points.
func (d Dao) Top(ctx context.Context, n int) ([]Total, error) {
	switch {
	case n < 1:
		return nil, fmt.Errorf("reading top points: positive count required")
	case n > d.MaxTop:
		n = d.MaxTop
	}
	totals, err := d.backend.Top(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("reading top points: %w", err)
	}
	return totals, nil
}
