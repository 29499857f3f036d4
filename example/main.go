package main

import (
	"fmt"

	"github.com/mohamad-slime/dbal"
	"github.com/mohamad-slime/dbal/pkg/config"
)

func main() {
	// 1) Configuration comes from DBAL_* environment variables (or .env);
	// the default is an in-memory sqlite database.
	cfg := config.FromEnv()
	db := dbal.New(cfg)
	defer db.Disconnect()

	// The schema below is the sqlite form; point DBAL_DRIVER elsewhere and
	// adjust the DDL accordingly.
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, age INTEGER)`,
		nil,
	); err != nil {
		panic(fmt.Errorf("create table: %w", err))
	}

	// 2) Insert a user from an associative map
	id, err := db.Insert("users", dbal.Params{"name": "John Doe", "age": 30})
	if err != nil {
		panic(fmt.Errorf("insert user: %w", err))
	}
	fmt.Printf("✅ Created user %s\n", id)

	// 3) Query it back
	row, err := db.Fetch("SELECT * FROM users WHERE id = :id", dbal.Params{"id": id})
	if err != nil {
		panic(fmt.Errorf("fetch user: %w", err))
	}
	fmt.Printf("✅ Fetched user: %v %v\n", row["name"], row["age"])

	// 4) Update and re-read
	if _, err := db.Update("users", dbal.Params{"age": 31}, dbal.Params{"id": id}); err != nil {
		panic(fmt.Errorf("update user: %w", err))
	}
	all, err := db.FetchAll("SELECT * FROM users", nil)
	if err != nil {
		panic(fmt.Errorf("fetch all users: %w", err))
	}
	fmt.Printf("✅ %d user(s) after update\n", len(all))

	// 5) Transactional insert, rolled back
	if err := db.Begin(); err != nil {
		panic(err)
	}
	if _, err := db.Insert("users", dbal.Params{"name": "Jane Doe", "age": 27}); err != nil {
		db.Rollback()
		panic(fmt.Errorf("insert in transaction: %w", err))
	}
	if err := db.Rollback(); err != nil {
		panic(err)
	}
	fmt.Println("✅ Rolled back Jane")

	// 6) Delete John
	if _, err := db.Delete("users", dbal.Params{"id": id}); err != nil {
		panic(fmt.Errorf("delete user: %w", err))
	}
	fmt.Println("✅ Deleted John")
}
