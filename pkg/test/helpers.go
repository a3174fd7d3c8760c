package test

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"taskhub/internal/adapter/database"
	"taskhub/internal/adapter/database/sqlite"
)

// InitTestDB opens a private in-memory SQLite database with the schema
// applied. The pool is pinned to one connection so the database survives
// for the lifetime of the handle.
func InitTestDB() *database.DB {
	db, err := sql.Open("sqlite3", sqlite.DSN(":memory:"))
	if err != nil {
		log.Fatal(err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := sqlite.RunMigrations(db); err != nil {
		log.Fatal(err)
	}

	return sqlite.Wrap(db)
}
