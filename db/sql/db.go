// Package sql stores points in SQL databases such as Postgres and SQLite.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/jacobpatterson1549/wibble/db"
)

type (
	// Database is a SQL database with additional configuration.
	Database struct {
		DB *sql.DB
		db.Config
	}

	// DatabaseConfig is used to open a Database.
	DatabaseConfig struct {
		// DriverName is the name of the registered driver, such as "postgres" or "sqlite3".
		DriverName string
		// DatabaseURL is the data source name of the database.
		DatabaseURL string
		db.Config
	}

	// Scanner reads the columns of a row.
	Scanner interface {
		Scan(dest ...interface{}) error
	}
)

// ErrNoRows is returned by Query when there are no rows to scan.
var ErrNoRows = sql.ErrNoRows

// NewDatabase opens a database with the driver.  The driver must be registered.
func (cfg DatabaseConfig) NewDatabase() (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating sql database: validation: %w", err)
	}
	sqlDB, err := sql.Open(cfg.DriverName, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	d := Database{
		DB:     sqlDB,
		Config: cfg.Config,
	}
	return &d, nil
}

// Setup initializes the database by reading the files and executing their contents as raw queries.
func (d Database) Setup(ctx context.Context, files []io.Reader) error {
	queries := make([]Query, len(files))
	for i, f := range files {
		b, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("reading sql setup query %v: %w", i, err)
		}
		queries[i] = RawQuery(b)
	}
	if err := d.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("running setup queries: %w", err)
	}
	return nil
}

// Query queries a single row, scanning into the destination array.
func (d Database) Query(ctx context.Context, q Query, dest ...interface{}) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.QueryPeriod)
	defer cancelFunc()
	row := d.DB.QueryRowContext(ctx, q.Cmd(), q.Args()...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("querying into destination arguments: %w", err)
	}
	return nil
}

// QueryRows calls the scan function for each row of the query.
func (d Database) QueryRows(ctx context.Context, q Query, scan func(s Scanner) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.QueryPeriod)
	defer cancelFunc()
	rows, err := d.DB.QueryContext(ctx, q.Cmd(), q.Args()...)
	if err != nil {
		return fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading rows: %w", err)
	}
	return nil
}

// Exec evaluates multiple queries in a transaction, ensuring each row statement only changes one row.
func (d Database) Exec(ctx context.Context, queries ...Query) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.QueryPeriod)
	defer cancelFunc()
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for i, q := range queries {
		result, err := tx.ExecContext(ctx, q.Cmd(), q.Args()...)
		if s, ok := q.(RowStatement); err == nil && ok {
			var n int64
			n, err = result.RowsAffected()
			if err == nil && n != 1 {
				err = fmt.Errorf("wanted to change 1 row, but changed %d when running %s", n, s.name)
			}
		}
		if err != nil {
			err = fmt.Errorf("executing query %v: %w", i, err)
			if err2 := tx.Rollback(); err2 != nil {
				return fmt.Errorf("rolling back transaction due to %v: %w", err, err2)
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
