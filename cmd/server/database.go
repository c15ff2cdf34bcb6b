package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jacobpatterson1549/wibble/db"
	"github.com/jacobpatterson1549/wibble/db/firestore"
	"github.com/jacobpatterson1549/wibble/db/mongo"
	"github.com/jacobpatterson1549/wibble/db/points"
	"github.com/jacobpatterson1549/wibble/db/sql"
	_ "github.com/lib/pq"           // register "postgres" database driver from package init() function
	_ "github.com/mattn/go-sqlite3" // register "sqlite3" database driver from package init() function
)

type (
	// backendKind is the type of database that stores points.
	backendKind int

	// backendSource is the database that points are stored in.
	backendSource struct {
		kind backendKind
		// driverName is the name of the sql driver for sql databases.
		driverName string
		// dataSource is passed to the driver or client of the database.
		dataSource string
	}
)

const (
	noDatabase backendKind = iota
	sqlDatabase
	mongoDatabase
	firestoreDatabase
)

// queryPeriod is the amount of time that each database request can take.
const queryPeriod = 5 * time.Second

// parseBackendSource determines the database from the scheme of the url.
func parseBackendSource(databaseURL string) (*backendSource, error) {
	if len(databaseURL) == 0 {
		return &backendSource{kind: noDatabase}, nil
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		return &backendSource{kind: sqlDatabase, driverName: "postgres", dataSource: databaseURL}, nil
	case "sqlite", "sqlite3":
		dataSource := strings.TrimPrefix(databaseURL, u.Scheme+"://")
		if len(dataSource) == 0 {
			return nil, fmt.Errorf("sqlite database file required")
		}
		return &backendSource{kind: sqlDatabase, driverName: "sqlite3", dataSource: dataSource}, nil
	case "file":
		return &backendSource{kind: sqlDatabase, driverName: "sqlite3", dataSource: databaseURL}, nil
	case "mongodb", "mongodb+srv":
		return &backendSource{kind: mongoDatabase, dataSource: databaseURL}, nil
	case "firestore":
		if len(u.Host) == 0 {
			return nil, fmt.Errorf("firestore project id required as host of database url")
		}
		return &backendSource{kind: firestoreDatabase, dataSource: u.Host}, nil
	}
	return nil, fmt.Errorf("unknown database url scheme: %q", u.Scheme)
}

// pointsBackend creates and sets up the backend that stores the points of players.
func (bs backendSource) pointsBackend(ctx context.Context) (points.Backend, error) {
	cfg := db.Config{
		QueryPeriod: queryPeriod,
	}
	switch bs.kind {
	case sqlDatabase:
		dbCfg := sql.DatabaseConfig{
			DriverName:  bs.driverName,
			DatabaseURL: bs.dataSource,
			Config:      cfg,
		}
		d, err := dbCfg.NewDatabase()
		if err != nil {
			return nil, err
		}
		pb, err := sql.NewPointsBackend(d)
		if err != nil {
			return nil, err
		}
		if err := pb.Setup(ctx); err != nil {
			return nil, fmt.Errorf("setting up %v points backend: %w", bs.driverName, err)
		}
		return pb, nil
	case mongoDatabase:
		pb, err := mongo.NewPointsBackend(ctx, cfg, bs.dataSource)
		if err != nil {
			return nil, err
		}
		if err := pb.Setup(ctx); err != nil {
			return nil, fmt.Errorf("setting up mongo points backend: %w", err)
		}
		return pb, nil
	case firestoreDatabase:
		return firestore.NewPointsBackend(ctx, cfg, bs.dataSource)
	}
	return new(points.NoDatabaseBackend), nil
}

// String describes the database without the credentials in the data source.
func (k backendKind) String() string {
	switch k {
	case sqlDatabase:
		return "sql"
	case mongoDatabase:
		return "mongodb"
	case firestoreDatabase:
		return "firestore"
	}
	return "memory"
}
