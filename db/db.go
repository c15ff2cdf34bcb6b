// Package db stores the points players score so they can be read after the server restarts.
package db

import (
	"fmt"
	"time"
)

// Config contains the properties shared by database backends.
type Config struct {
	// QueryPeriod is the amount of time each request to the database can take.
	QueryPeriod time.Duration
}

// Validate ensures the configuration has no errors.
func (cfg Config) Validate() error {
	if cfg.QueryPeriod <= 0 {
		return fmt.Errorf("positive query period required")
	}
	return nil
}
