package dbal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamad-slime/dbal"
	"github.com/mohamad-slime/dbal/pkg/config"
)

// newSQLiteDB spins up an in-memory database with a users table. Everything
// below runs against a real engine end to end.
func newSQLiteDB(t *testing.T) *dbal.DB {
	t.Helper()
	cfg := config.New(config.DriverSQLite, "", ":memory:", "", "", "")
	db := dbal.New(cfg)
	t.Cleanup(func() { _ = db.Disconnect() })

	_, err := db.Exec(
		`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, age INTEGER)`,
		nil,
	)
	require.NoError(t, err)
	return db
}

func TestSQLite_InsertFetchRoundtrip(t *testing.T) {
	db := newSQLiteDB(t)

	id, err := db.Insert("users", dbal.Params{"name": "John Doe", "age": 30})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	row, err := db.Fetch("SELECT * FROM users WHERE id = :id", dbal.Params{"id": id})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "John Doe", row["name"])
	assert.Equal(t, int64(30), row["age"])
}

func TestSQLite_UpdateAffectedCountAndRefetch(t *testing.T) {
	db := newSQLiteDB(t)

	_, err := db.Insert("users", dbal.Params{"name": "John Doe", "age": 30})
	require.NoError(t, err)
	_, err = db.Insert("users", dbal.Params{"name": "John Doe", "age": 35})
	require.NoError(t, err)

	affected, err := db.Update("users", dbal.Params{"age": 40}, dbal.Params{"name": "John Doe"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	rows, err := db.Select("users", nil, dbal.Params{"age": 40})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSQLite_UpdateSameColumnInDataAndConditions(t *testing.T) {
	db := newSQLiteDB(t)

	_, err := db.Insert("users", dbal.Params{"name": "John Doe", "age": 30})
	require.NoError(t, err)

	affected, err := db.Update("users", dbal.Params{"name": "Jane Doe"}, dbal.Params{"name": "John Doe"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	row, err := db.Fetch("SELECT * FROM users WHERE name = :name", dbal.Params{"name": "Jane Doe"})
	require.NoError(t, err)
	require.NotNil(t, row)
}

func TestSQLite_DeleteThenFetchReturnsNil(t *testing.T) {
	db := newSQLiteDB(t)

	id, err := db.Insert("users", dbal.Params{"name": "John Doe", "age": 30})
	require.NoError(t, err)

	affected, err := db.Delete("users", dbal.Params{"id": id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	row, err := db.Fetch("SELECT * FROM users WHERE id = :id", dbal.Params{"id": id})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestSQLite_SelectAllRows(t *testing.T) {
	db := newSQLiteDB(t)

	for _, name := range []string{"a", "b", "c"} {
		_, err := db.Insert("users", dbal.Params{"name": name, "age": 20})
		require.NoError(t, err)
	}

	rows, err := db.Select("users", nil, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	names, err := db.Select("users", []string{"name"}, dbal.Params{"age": 20})
	require.NoError(t, err)
	require.Len(t, names, 3)
	// Only the requested column comes back.
	_, hasID := names[0]["id"]
	assert.False(t, hasID)
}

func TestSQLite_FetchAllEmptyResult(t *testing.T) {
	db := newSQLiteDB(t)

	rows, err := db.FetchAll("SELECT * FROM users", nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSQLite_CommitMakesInsertVisible(t *testing.T) {
	db := newSQLiteDB(t)

	require.NoError(t, db.Begin())
	id, err := db.Insert("users", dbal.Params{"name": "Jane Doe", "age": 27})
	require.NoError(t, err)
	require.NoError(t, db.Commit())

	row, err := db.Fetch("SELECT * FROM users WHERE id = :id", dbal.Params{"id": id})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Jane Doe", row["name"])
}

func TestSQLite_RollbackMakesInsertInvisible(t *testing.T) {
	db := newSQLiteDB(t)

	require.NoError(t, db.Begin())
	id, err := db.Insert("users", dbal.Params{"name": "Jane Doe", "age": 27})
	require.NoError(t, err)
	require.NoError(t, db.Rollback())

	row, err := db.Fetch("SELECT * FROM users WHERE id = :id", dbal.Params{"id": id})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestSQLite_InvalidSQLInsideTransaction(t *testing.T) {
	db := newSQLiteDB(t)

	require.NoError(t, db.Begin())
	_, err := db.Insert("users", dbal.Params{"name": "Jane Doe", "age": 27})
	require.NoError(t, err)

	_, err = db.Query("THIS IS NOT SQL", nil)
	var qerr *dbal.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "THIS IS NOT SQL", qerr.SQL)

	// Nothing was silently committed; the caller still decides.
	assert.True(t, db.InTransaction())
	require.NoError(t, db.Rollback())

	row, err := db.Fetch("SELECT * FROM users WHERE name = :name", dbal.Params{"name": "Jane Doe"})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestSQLite_DisconnectThenReconnect(t *testing.T) {
	db := newSQLiteDB(t)

	require.NoError(t, db.Disconnect())
	// Double disconnect is a no-op.
	require.NoError(t, db.Disconnect())

	// The next statement reconnects; an in-memory database starts fresh,
	// so the schema has to be recreated.
	_, err := db.Exec(
		`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, age INTEGER)`,
		nil,
	)
	require.NoError(t, err)

	row, err := db.Fetch("SELECT * FROM users", nil)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestSQLite_NullParameterRoundtrip(t *testing.T) {
	db := newSQLiteDB(t)

	id, err := db.Insert("users", dbal.Params{"name": "John Doe", "age": nil})
	require.NoError(t, err)

	row, err := db.Fetch("SELECT * FROM users WHERE id = :id", dbal.Params{"id": id})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Nil(t, row["age"])
}
