// Package mongo stores points in a mongodb collection.
package mongo

import (
	"context"
	"fmt"

	"github.com/jacobpatterson1549/wibble/db"
	"github.com/jacobpatterson1549/wibble/db/points"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	databaseName   = "wibble-db"
	collectionName = "points"
	nameField      = "name"
	pointsField    = "points"
)

type (
	// PointsBackend stores the points of each player in a document.
	PointsBackend struct {
		Points *mongo.Collection
		db.Config
	}

	// pointsDocument is the bson form of a total.
	pointsDocument struct {
		Name   string `bson:"name"`
		Points int    `bson:"points"`
	}
)

// NewPointsBackend connects to the database at the url.
func NewPointsBackend(ctx context.Context, cfg db.Config, databaseURL string) (*PointsBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating mongo points backend: validation: %w", err)
	}
	clientOptions := options.Client()
	clientOptions.ApplyURI(databaseURL)
	ctx, cancelFunc := context.WithTimeout(ctx, cfg.QueryPeriod)
	defer cancelFunc()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	pointsCollection := client.Database(databaseName).Collection(collectionName)
	pb := PointsBackend{
		Points: pointsCollection,
		Config: cfg,
	}
	return &pb, nil
}

// Setup ensures each player has only one document.
func (pb *PointsBackend) Setup(ctx context.Context) error {
	indexOptions := options.Index()
	indexOptions.SetUnique(true)
	model := mongo.IndexModel{
		Keys:    d(e(nameField, 1)),
		Options: indexOptions,
	}
	ctx, cancelFunc := context.WithTimeout(ctx, pb.QueryPeriod)
	defer cancelFunc()
	if _, err := pb.Points.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("creating unique name index: %w", err)
	}
	return nil
}

// UpdatePointsIncrement increments the points for all of the players, creating documents for new players.
func (pb *PointsBackend) UpdatePointsIncrement(ctx context.Context, playerPoints map[string]int) error {
	ctx, cancelFunc := context.WithTimeout(ctx, pb.QueryPeriod)
	defer cancelFunc()
	if _, err := pb.Points.BulkWrite(ctx, incrementModels(playerPoints)); err != nil {
		return fmt.Errorf("incrementing player points: %w", err)
	}
	return nil
}

// Top reads the documents with the most points.
func (pb *PointsBackend) Top(ctx context.Context, n int) ([]points.Total, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, pb.QueryPeriod)
	defer cancelFunc()
	cur, err := pb.Points.Find(ctx, d(), topOptions(n))
	if err != nil {
		return nil, fmt.Errorf("finding top player points: %w", err)
	}
	var docs []pointsDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading top player points: %w", err)
	}
	totals := make([]points.Total, len(docs))
	for i, doc := range docs {
		totals[i] = points.Total{
			Name:   doc.Name,
			Points: doc.Points,
		}
	}
	return totals, nil
}

// incrementModels creates an upsert for each player that increments their points.
func incrementModels(playerPoints map[string]int) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(playerPoints))
	for name, points := range playerPoints {
		m := mongo.NewUpdateOneModel()
		m.SetFilter(d(e(nameField, name)))
		m.SetUpdate(d(e("$inc", d(e(pointsField, points)))))
		m.SetUpsert(true)
		models = append(models, m)
	}
	return models
}

// topOptions sorts by points, highest first, and then by name.
func topOptions(n int) *options.FindOptions {
	o := options.Find()
	o.SetSort(d(e(pointsField, -1), e(nameField, 1)))
	o.SetLimit(int64(n))
	return o
}

// d is a helper function to create bson.D elements.
func d(e ...bson.E) bson.D {
	return bson.D(e)
}

// e is a helper function to create bson.E elements.
func e(key string, value interface{}) bson.E {
	return bson.E{Key: key, Value: value}
}
