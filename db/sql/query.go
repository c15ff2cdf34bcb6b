package sql

type (
	// Query is a message that is sent to the database.
	Query interface {
		// Cmd is the injection-safe message to send to the database.
		Cmd() string
		// Args are the user-provided properties of the message which should be escaped.
		Args() []interface{}
	}

	// Statement is a Query that reads data.
	Statement struct {
		cmd       string
		arguments []interface{}
	}

	// RowStatement is a Query that changes exactly one row.
	RowStatement struct {
		name      string
		cmd       string
		arguments []interface{}
	}

	// RawQuery is a Query that changes data and has no arguments.
	RawQuery string
)

// NewStatement creates a Query that reads data.
func NewStatement(cmd string, args ...interface{}) Statement {
	s := Statement{
		cmd:       cmd,
		arguments: args,
	}
	return s
}

// NewRowStatement creates a named Query that changes a single row.
func NewRowStatement(name, cmd string, args ...interface{}) RowStatement {
	s := RowStatement{
		name:      name,
		cmd:       cmd,
		arguments: args,
	}
	return s
}

// Cmd returns the SQL of the statement.
func (s Statement) Cmd() string {
	return s.cmd
}

// Cmd returns the SQL of the statement.
func (s RowStatement) Cmd() string {
	return s.cmd
}

// Cmd returns the raw SQL query.
func (r RawQuery) Cmd() string {
	return string(r)
}

// Args returns the arguments for the statement.
func (s Statement) Args() []interface{} {
	return s.arguments
}

// Args returns the arguments for the statement.
func (s RowStatement) Args() []interface{} {
	return s.arguments
}

// Args returns nil for the raw SQL query.
func (RawQuery) Args() []interface{} {
	return nil
}
