package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/codr1/courtside/internal/db"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedAdvertisable inserts a free-plan row into courts, instructors or partner_search_ads.
func SeedAdvertisable(t *testing.T, database *db.DB, table, id string) {
	t.Helper()

	nameColumn := "name"
	switch table {
	case "courts", "instructors":
	case "partner_search_ads":
		nameColumn = "title"
	default:
		t.Fatalf("seed advertisable: unknown table %q", table)
	}

	_, err := database.Exec(
		"INSERT INTO "+table+" (id, "+nameColumn+", updated_at) VALUES (?, ?, ?)",
		id, "seed "+id, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed %s %s: %v", table, id, err)
	}
}
