package sql

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"sort"

	"github.com/jacobpatterson1549/wibble/db/points"
)

type (
	// PointsBackend stores points in the player_points table.
	PointsBackend struct {
		Database PointsDatabase
		queries  pointsQueries
	}

	// PointsDatabase contains the methods the backend uses to read and change data.
	PointsDatabase interface {
		// Setup initializes the database by reading the files.
		Setup(ctx context.Context, files []io.Reader) error
		// QueryRows reads rows from the database without updating it.
		QueryRows(ctx context.Context, q Query, scan func(s Scanner) error) error
		// Exec makes a change to existing data, creating/modifying/removing it.
		Exec(ctx context.Context, queries ...Query) error
	}

	pointsQueries struct {
		setup     []byte
		increment string
		top       string
	}
)

//go:embed sql
var sqlFS embed.FS

// NewPointsBackend creates a backend on the database with the embedded queries.
func NewPointsBackend(d PointsDatabase) (*PointsBackend, error) {
	if d == nil {
		return nil, fmt.Errorf("creating sql points backend: database required")
	}
	files := []string{"setup", "points_increment", "points_top"}
	contents := make([][]byte, len(files))
	for i, f := range files {
		b, err := sqlFS.ReadFile("sql/" + f + ".sql")
		if err != nil {
			return nil, fmt.Errorf("creating sql points backend: reading %v query: %w", f, err)
		}
		contents[i] = b
	}
	pb := PointsBackend{
		Database: d,
		queries: pointsQueries{
			setup:     contents[0],
			increment: string(contents[1]),
			top:       string(contents[2]),
		},
	}
	return &pb, nil
}

// Setup creates the player_points table if it does not exist.
func (pb *PointsBackend) Setup(ctx context.Context) error {
	files := []io.Reader{
		bytes.NewReader(pb.queries.setup),
	}
	if err := pb.Database.Setup(ctx, files); err != nil {
		return fmt.Errorf("setting up points table: %w", err)
	}
	return nil
}

// UpdatePointsIncrement adds the points for all of the players in a single transaction.
// The players are updated in order of their names so concurrent updates do not deadlock.
func (pb *PointsBackend) UpdatePointsIncrement(ctx context.Context, playerPoints map[string]int) error {
	names := make([]string, 0, len(playerPoints))
	for name := range playerPoints {
		names = append(names, name)
	}
	sort.Strings(names)
	queries := make([]Query, len(names))
	for i, name := range names {
		queries[i] = NewRowStatement("points_increment", pb.queries.increment, name, playerPoints[name])
	}
	if err := pb.Database.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("incrementing player points: %w", err)
	}
	return nil
}

// Top reads the players with the most points.
func (pb *PointsBackend) Top(ctx context.Context, n int) ([]points.Total, error) {
	q := NewStatement(pb.queries.top, n)
	totals := make([]points.Total, 0, n)
	scan := func(s Scanner) error {
		var t points.Total
		if err := s.Scan(&t.Name, &t.Points); err != nil {
			return err
		}
		totals = append(totals, t)
		return nil
	}
	if err := pb.Database.QueryRows(ctx, q, scan); err != nil {
		return nil, fmt.Errorf("reading top player points: %w", err)
	}
	return totals, nil
}
