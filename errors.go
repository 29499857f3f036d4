package dbal

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTransaction is returned (wrapped in a TransactionError) when
	// Commit or Rollback is called without an open transaction.
	ErrNoTransaction = errors.New("no transaction in progress")

	// ErrTransactionOpen is returned (wrapped in a TransactionError) when
	// Begin is called while a transaction is already open.
	ErrTransactionOpen = errors.New("transaction already in progress")
)

// ConnectionError reports a failure to establish or tear down a database
// connection.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("dbal: connect %s: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a statement preparation or execution failure and
// carries the original SQL text.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("dbal: query failed: %v (sql: %s)", e.Err, e.SQL)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ValidationError reports empty or otherwise unusable caller input. It is
// raised before any I/O is attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "dbal: " + e.Reason }

// TransactionError reports a begin/commit/rollback failure.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("dbal: %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
