// Package dbal is a thin abstraction over database/sql. It builds
// parameterized statements from associative data, establishes its
// connection lazily, and exposes transaction boundaries as plain method
// calls.
//
// A DB owns at most one live connection and is not safe for concurrent use;
// callers needing concurrency serialize externally or use separate
// instances.
package dbal // import "github.com/mohamad-slime/dbal"

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/mohamad-slime/dbal/internal/core"
	"github.com/mohamad-slime/dbal/pkg/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not know
	// out of the box.
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// Params maps parameter names to scalar values. Permitted kinds are
// string, integer, float, boolean and nil; anything else is rejected with
// a ValidationError before any I/O.
type Params map[string]any

// Row is a single result row keyed by column name.
type Row map[string]any

// DB wraps one lazily-established database connection. The zero transaction
// state is idle; while a transaction is open every statement routes through
// it.
type DB struct {
	cfg    config.Config
	driver string
	conn   *sqlx.DB
	tx     *sqlx.Tx
	hooks  Hooks
}

// New returns an unconnected DB; the connection is established on first
// use.
func New(cfg config.Config) *DB {
	return &DB{cfg: cfg, driver: cfg.Driver}
}

// NewFromConn wraps an existing connection. driverName decides placeholder
// binding and last-insert-id behavior; it must match the connection's
// driver.
func NewFromConn(driverName string, conn *sqlx.DB) *DB {
	return &DB{driver: driverName, conn: conn}
}

// SetHooks installs lifecycle callbacks around Insert, Update and Delete.
func (d *DB) SetHooks(h Hooks) { d.hooks = h }

// InTransaction reports whether a transaction is currently open.
func (d *DB) InTransaction() bool { return d.tx != nil }

// Connect establishes the connection when there is none and verifies it
// with a ping. Subsequent calls reuse the cached handle.
func (d *DB) Connect() error {
	if d.conn != nil {
		return nil
	}
	dsn, err := d.cfg.DSN()
	if err != nil {
		return &ConnectionError{Driver: d.driver, Err: err}
	}
	conn, err := sqlx.Connect(d.driver, dsn)
	if err != nil {
		return &ConnectionError{Driver: d.driver, Err: err}
	}
	if d.driver == config.DriverSQLite && d.cfg.Name == ":memory:" {
		// In-memory sqlite databases are per connection; more than one
		// open connection makes the schema invisible across statements.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}
	d.conn = conn
	log.Debug().Str("driver", d.driver).Msg("database connection established")
	return nil
}

// Disconnect drops the cached handle; no-op when already disconnected. Any
// open transaction handle is discarded with the connection.
func (d *DB) Disconnect() error {
	if d.conn == nil {
		return nil
	}
	d.tx = nil
	err := d.conn.Close()
	d.conn = nil
	log.Debug().Str("driver", d.driver).Msg("database connection closed")
	if err != nil {
		return &ConnectionError{Driver: d.driver, Err: err}
	}
	return nil
}

// executor returns the open transaction when there is one, otherwise the
// live connection, connecting lazily.
func (d *DB) executor() (sqlx.Ext, error) {
	if d.tx != nil {
		return d.tx, nil
	}
	if err := d.Connect(); err != nil {
		return nil, err
	}
	return d.conn, nil
}

// Exec runs a named-parameter statement that returns no rows (INSERT,
// UPDATE, DELETE, DDL).
func (d *DB) Exec(query string, params Params) (sql.Result, error) {
	ext, err := d.executor()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("sql", query).Msg("exec")
	res, err := sqlx.NamedExec(ext, query, map[string]any(normalize(params)))
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	return res, nil
}

// Query runs a named-parameter statement that returns rows. The caller
// owns the returned rows and must close them.
func (d *DB) Query(query string, params Params) (*sqlx.Rows, error) {
	ext, err := d.executor()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("sql", query).Msg("query")
	rows, err := sqlx.NamedQuery(ext, query, map[string]any(normalize(params)))
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	return rows, nil
}

// Insert builds and executes an INSERT from the data map and returns the
// last-inserted-row id as a string. On postgres the statement gains a
// `RETURNING id` clause (lib/pq has no LastInsertId), so the table is
// expected to carry an `id` column there.
func (d *DB) Insert(table string, data Params) (string, error) {
	if len(data) == 0 {
		return "", &ValidationError{Reason: "insert data cannot be empty"}
	}
	if err := core.CheckParams(data); err != nil {
		return "", &ValidationError{Reason: err.Error()}
	}
	if d.hooks != nil {
		if err := d.hooks.BeforeInsert(table, data); err != nil {
			return "", err
		}
	}
	query, params := core.BuildInsert(table, data)

	var id string
	if d.driver == config.DriverPostgres {
		returning := query + " RETURNING id"
		rows, err := d.Query(returning, params)
		if err != nil {
			return "", err
		}
		defer rows.Close()
		if rows.Next() {
			var v any
			if err := rows.Scan(&v); err != nil {
				return "", &QueryError{SQL: returning, Err: err}
			}
			id = formatID(v)
		}
		if err := rows.Err(); err != nil {
			return "", &QueryError{SQL: returning, Err: err}
		}
	} else {
		res, err := d.Exec(query, params)
		if err != nil {
			return "", err
		}
		n, err := res.LastInsertId()
		if err != nil {
			return "", &QueryError{SQL: query, Err: err}
		}
		id = strconv.FormatInt(n, 10)
	}

	if d.hooks != nil {
		if err := d.hooks.AfterInsert(table, data, id); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Select builds and executes a SELECT. Empty columns select every column;
// empty conditions select every row.
func (d *DB) Select(table string, columns []string, conditions Params) ([]Row, error) {
	if err := core.CheckParams(conditions); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	query, params := core.BuildSelect(table, columns, conditions)
	return d.FetchAll(query, params)
}

// Update builds and executes an UPDATE and returns the affected-row count.
// Data and conditions must both be non-empty.
func (d *DB) Update(table string, data, conditions Params) (int64, error) {
	if len(data) == 0 {
		return 0, &ValidationError{Reason: "update data cannot be empty"}
	}
	if len(conditions) == 0 {
		return 0, &ValidationError{Reason: "update conditions cannot be empty"}
	}
	if err := core.CheckParams(data); err != nil {
		return 0, &ValidationError{Reason: err.Error()}
	}
	if err := core.CheckParams(conditions); err != nil {
		return 0, &ValidationError{Reason: err.Error()}
	}
	if d.hooks != nil {
		if err := d.hooks.BeforeUpdate(table, data, conditions); err != nil {
			return 0, err
		}
	}
	query, params := core.BuildUpdate(table, data, conditions)
	res, err := d.Exec(query, params)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, &QueryError{SQL: query, Err: err}
	}
	if d.hooks != nil {
		if err := d.hooks.AfterUpdate(table, data, conditions, affected); err != nil {
			return affected, err
		}
	}
	return affected, nil
}

// Delete builds and executes a DELETE and returns the affected-row count.
// Conditions must be non-empty.
func (d *DB) Delete(table string, conditions Params) (int64, error) {
	if len(conditions) == 0 {
		return 0, &ValidationError{Reason: "delete conditions cannot be empty"}
	}
	if err := core.CheckParams(conditions); err != nil {
		return 0, &ValidationError{Reason: err.Error()}
	}
	if d.hooks != nil {
		if err := d.hooks.BeforeDelete(table, conditions); err != nil {
			return 0, err
		}
	}
	query, params := core.BuildDelete(table, conditions)
	res, err := d.Exec(query, params)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, &QueryError{SQL: query, Err: err}
	}
	if d.hooks != nil {
		if err := d.hooks.AfterDelete(table, conditions, affected); err != nil {
			return affected, err
		}
	}
	return affected, nil
}

// Fetch returns the first row of the result, or nil when the result is
// empty. Zero rows are a normal outcome, not an error.
func (d *DB) Fetch(query string, params Params) (Row, error) {
	rows, err := d.Query(query, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, &QueryError{SQL: query, Err: err}
		}
		return nil, nil
	}
	row := Row{}
	if err := rows.MapScan(row); err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	return row, nil
}

// FetchAll returns every row of the result in result-set order; the slice
// may be empty.
func (d *DB) FetchAll(query string, params Params) ([]Row, error) {
	rows, err := d.Query(query, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []Row
	for rows.Next() {
		row := Row{}
		if err := rows.MapScan(row); err != nil {
			return nil, &QueryError{SQL: query, Err: err}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	return results, nil
}

// Begin opens a transaction. Nested transactions and savepoints are not
// supported; beginning while one is open is an error.
func (d *DB) Begin() error {
	if d.tx != nil {
		return &TransactionError{Op: "begin", Err: ErrTransactionOpen}
	}
	if err := d.Connect(); err != nil {
		return err
	}
	tx, err := d.conn.Beginx()
	if err != nil {
		return &TransactionError{Op: "begin", Err: err}
	}
	d.tx = tx
	log.Debug().Msg("transaction started")
	return nil
}

// Commit commits the open transaction. Pairing Begin with Commit or
// Rollback is the caller's responsibility; there is no automatic rollback
// when a statement inside the transaction fails.
func (d *DB) Commit() error {
	if d.tx == nil {
		return &TransactionError{Op: "commit", Err: ErrNoTransaction}
	}
	err := d.tx.Commit()
	d.tx = nil
	if err != nil {
		return &TransactionError{Op: "commit", Err: err}
	}
	log.Debug().Msg("transaction committed")
	return nil
}

// Rollback aborts the open transaction.
func (d *DB) Rollback() error {
	if d.tx == nil {
		return &TransactionError{Op: "rollback", Err: ErrNoTransaction}
	}
	err := d.tx.Rollback()
	d.tx = nil
	if err != nil {
		return &TransactionError{Op: "rollback", Err: err}
	}
	log.Debug().Msg("transaction rolled back")
	return nil
}

// normalize turns a nil Params into an empty map so statements without
// parameters bind cleanly.
func normalize(params Params) Params {
	if params == nil {
		return Params{}
	}
	return params
}

// formatID renders a scanned last-insert id as a string.
func formatID(v any) string {
	switch id := v.(type) {
	case int64:
		return strconv.FormatInt(id, 10)
	case []byte:
		return string(id)
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
