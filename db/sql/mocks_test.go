package sql

import (
	"context"
	"database/sql/driver"
	"io"
)

// mockDriver implements the sql/driver.Driver interface.
type mockDriver struct {
	OpenFunc func(name string) (driver.Conn, error)
}

func (m *mockDriver) Open(name string) (driver.Conn, error) {
	return m.OpenFunc(name)
}

// mockConn implements the sql/driver.Conn interface.
type mockConn struct {
	PrepareFunc func(query string) (driver.Stmt, error)
	BeginFunc   func() (driver.Tx, error)
}

func (m mockConn) Prepare(query string) (driver.Stmt, error) {
	return m.PrepareFunc(query)
}

func (mockConn) Close() error {
	return nil
}

func (m mockConn) Begin() (driver.Tx, error) {
	return m.BeginFunc()
}

// mockStmt implements the sql/driver.Stmt interface.
type mockStmt struct {
	NumInputFunc func() int
	ExecFunc     func(args []driver.Value) (driver.Result, error)
	QueryFunc    func(args []driver.Value) (driver.Rows, error)
}

func (mockStmt) Close() error {
	return nil
}

func (m mockStmt) NumInput() int {
	return m.NumInputFunc()
}

func (m mockStmt) Exec(args []driver.Value) (driver.Result, error) {
	return m.ExecFunc(args)
}

func (m mockStmt) Query(args []driver.Value) (driver.Rows, error) {
	return m.QueryFunc(args)
}

// mockTx implements the sql/driver.Tx interface.
type mockTx struct {
	CommitFunc   func() error
	RollbackFunc func() error
}

func (m mockTx) Commit() error {
	return m.CommitFunc()
}

func (m mockTx) Rollback() error {
	return m.RollbackFunc()
}

// mockResult implements the sql/driver.Result interface.
type mockResult struct {
	RowsAffectedFunc func() (int64, error)
}

func (mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	return m.RowsAffectedFunc()
}

// mockRows implements the sql/driver.Rows interface.  Each row is copied into the destination until io.EOF is returned.
type mockRows struct {
	columns []string
	rows    [][]driver.Value
}

func (m *mockRows) Columns() []string {
	return m.columns
}

func (*mockRows) Close() error {
	return nil
}

func (m *mockRows) Next(dest []driver.Value) error {
	if len(m.rows) == 0 {
		return io.EOF
	}
	copy(dest, m.rows[0])
	m.rows = m.rows[1:]
	return nil
}

// mockPointsDatabase implements the PointsDatabase interface.
type mockPointsDatabase struct {
	setupFunc     func(ctx context.Context, files []io.Reader) error
	queryRowsFunc func(ctx context.Context, q Query, scan func(s Scanner) error) error
	execFunc      func(ctx context.Context, queries ...Query) error
}

func (m mockPointsDatabase) Setup(ctx context.Context, files []io.Reader) error {
	return m.setupFunc(ctx, files)
}

func (m mockPointsDatabase) QueryRows(ctx context.Context, q Query, scan func(s Scanner) error) error {
	return m.queryRowsFunc(ctx, q, scan)
}

func (m mockPointsDatabase) Exec(ctx context.Context, queries ...Query) error {
	return m.execFunc(ctx, queries...)
}

// mockScanner implements the Scanner interface.
type mockScanner func(dest ...interface{}) error

func (m mockScanner) Scan(dest ...interface{}) error {
	return m(dest...)
}
