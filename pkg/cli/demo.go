package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohamad-slime/dbal"
	"github.com/mohamad-slime/dbal/pkg/config"
)

// NewDemoCmd builds the `demo` command: a sequential walkthrough of
// insert, fetch, update, fetchAll, delete and both transaction outcomes
// against the environment-configured database (sqlite in-memory by
// default).
func NewDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the insert/fetch/update/delete/transaction walkthrough",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			db := dbal.New(cfg)
			defer func() { _ = db.Disconnect() }()
			return runDemo(cmd, db, cfg)
		},
	}
}

func runDemo(cmd *cobra.Command, db *dbal.DB, cfg config.Config) error {
	if _, err := db.Exec(usersTableDDL(cfg.Driver), nil); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	id, err := db.Insert("users", dbal.Params{"name": "John Doe", "age": 30})
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	cmd.Printf("inserted user %s\n", id)

	row, err := db.Fetch("SELECT * FROM users WHERE id = :id", dbal.Params{"id": id})
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	cmd.Printf("fetched: %v\n", row)

	affected, err := db.Update("users", dbal.Params{"age": 31}, dbal.Params{"name": "John Doe"})
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	cmd.Printf("updated %d row(s)\n", affected)

	all, err := db.Select("users", nil, nil)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	cmd.Printf("all users: %v\n", all)

	affected, err = db.Delete("users", dbal.Params{"id": id})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	cmd.Printf("deleted %d row(s)\n", affected)

	// Committed work stays visible.
	if err := db.Begin(); err != nil {
		return err
	}
	janeID, err := db.Insert("users", dbal.Params{"name": "Jane Doe", "age": 27})
	if err != nil {
		_ = db.Rollback()
		return fmt.Errorf("insert in transaction: %w", err)
	}
	if err := db.Commit(); err != nil {
		return err
	}
	row, err = db.Fetch("SELECT * FROM users WHERE id = :id", dbal.Params{"id": janeID})
	if err != nil {
		return fmt.Errorf("fetch after commit: %w", err)
	}
	cmd.Printf("after commit: %v\n", row)

	// Rolled-back work vanishes.
	if err := db.Begin(); err != nil {
		return err
	}
	joeID, err := db.Insert("users", dbal.Params{"name": "Joe Bloggs", "age": 44})
	if err != nil {
		_ = db.Rollback()
		return fmt.Errorf("insert in transaction: %w", err)
	}
	if err := db.Rollback(); err != nil {
		return err
	}
	row, err = db.Fetch("SELECT * FROM users WHERE id = :id", dbal.Params{"id": joeID})
	if err != nil {
		return fmt.Errorf("fetch after rollback: %w", err)
	}
	cmd.Printf("after rollback: %v\n", row)

	return nil
}

func usersTableDDL(driver string) string {
	switch driver {
	case config.DriverMySQL:
		return "CREATE TABLE IF NOT EXISTS users (id INT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(255), age INT)"
	case config.DriverPostgres:
		return "CREATE TABLE IF NOT EXISTS users (id SERIAL PRIMARY KEY, name TEXT, age INTEGER)"
	default:
		return "CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, age INTEGER)"
	}
}
