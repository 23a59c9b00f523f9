package test_utils

import (
	"database/sql"
	"testing"

	"github.com/dancestudio/manager/internal/config"
	"github.com/dancestudio/manager/internal/database"
)

// NewInMemoryDB creates a new in-memory SQLite database for testing.
// Each database is completely isolated from others.
func NewInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(config.Database{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SetupTestDB creates a new in-memory SQLite database and applies all migrations
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db := NewInMemoryDB(t)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return db
}

// InsertStudent adds a student row directly, for tests of tables referencing students.
func InsertStudent(t *testing.T, db *sql.DB, firstName, lastName string) int {
	t.Helper()

	result, err := db.Exec("INSERT INTO students (first_name, last_name, dob) VALUES (?, ?, ?)", firstName, lastName, "2012-05-01")
	if err != nil {
		t.Fatalf("Failed to insert student: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read student id: %v", err)
	}
	return int(id)
}
