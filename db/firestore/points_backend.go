// Package firestore stores points in a google cloud firestore database.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/jacobpatterson1549/wibble/db"
	"github.com/jacobpatterson1549/wibble/db/points"
)

const (
	serviceName    = "wibble"
	collectionName = "points"
	nameField      = "name"
	pointsField    = "points"
)

type (
	// PointsBackend stores the points of each player in a document named by the player.
	PointsBackend struct {
		client *firestore.Client
		db.Config
	}

	// pointsDocument is the firestore form of a total.
	pointsDocument struct {
		Name   string `firestore:"name"`
		Points int    `firestore:"points"`
	}
)

// NewPointsBackend creates a client for the project.
func NewPointsBackend(ctx context.Context, cfg db.Config, projectID string) (*PointsBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating firestore points backend: validation: %w", err)
	}
	client, err := firestore.NewClient(ctx, projectID) // do not timeout context - the client is used by the backend
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	pb := PointsBackend{
		client: client,
		Config: cfg,
	}
	return &pb, nil
}

// pointsCollection is where the documents are stored.
func (pb *PointsBackend) pointsCollection() *firestore.CollectionRef {
	return pb.client.Collection("services").Doc(serviceName).Collection(collectionName)
}

// withTimeoutContext configures the context to timeout when running the function.
func (pb *PointsBackend) withTimeoutContext(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, pb.QueryPeriod)
	defer cancelFunc()
	return f(ctx)
}

// UpdatePointsIncrement increments the points for all of the players in a batch, creating documents for new players.
func (pb *PointsBackend) UpdatePointsIncrement(ctx context.Context, playerPoints map[string]int) error {
	if err := pb.withTimeoutContext(ctx, func(ctx context.Context) error {
		docs := pb.pointsCollection()
		b := pb.client.Batch()
		for name, points := range playerPoints {
			b.Set(docs.Doc(name), incrementData(name, points), firestore.MergeAll)
		}
		_, err := b.Commit(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("incrementing player points: %w", err)
	}
	return nil
}

// Top reads the documents with the most points.
func (pb *PointsBackend) Top(ctx context.Context, n int) ([]points.Total, error) {
	var totals []points.Total
	if err := pb.withTimeoutContext(ctx, func(ctx context.Context) error {
		q := pb.pointsCollection().
			OrderBy(pointsField, firestore.Desc).
			OrderBy(nameField, firestore.Asc).
			Limit(n)
		snapshots, err := q.Documents(ctx).GetAll()
		if err != nil {
			return err
		}
		totals = make([]points.Total, len(snapshots))
		for i, s := range snapshots {
			var doc pointsDocument
			if err := s.DataTo(&doc); err != nil {
				return err
			}
			totals[i] = points.Total{
				Name:   doc.Name,
				Points: doc.Points,
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reading top player points: %w", err)
	}
	return totals, nil
}

// incrementData sets the name of the player and increments their points on the server.
func incrementData(name string, points int) map[string]interface{} {
	return map[string]interface{}{
		nameField:   name,
		pointsField: firestore.Increment(points),
	}
}
