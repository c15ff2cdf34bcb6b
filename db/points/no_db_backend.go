package points

import (
	"context"
	"sort"
	"sync"
)

// NoDatabaseBackend keeps the totals in memory.  The totals are lost when the server stops.
type NoDatabaseBackend struct {
	mu     sync.Mutex
	totals map[string]int
}

// UpdatePointsIncrement adds the points to the totals in memory.
func (b *NoDatabaseBackend) UpdatePointsIncrement(ctx context.Context, playerPoints map[string]int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.totals == nil {
		b.totals = make(map[string]int, len(playerPoints))
	}
	for name, points := range playerPoints {
		b.totals[name] += points
	}
	return nil
}

// Top sorts the totals in memory.  Totals with the same points are sorted by name.
func (b *NoDatabaseBackend) Top(ctx context.Context, n int) ([]Total, error) {
	b.mu.Lock()
	totals := make([]Total, 0, len(b.totals))
	for name, points := range b.totals {
		totals = append(totals, Total{Name: name, Points: points})
	}
	b.mu.Unlock()
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Points != totals[j].Points {
			return totals[i].Points > totals[j].Points
		}
		return totals[i].Name < totals[j].Name
	})
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals, nil
}
