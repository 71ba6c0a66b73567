package testutil

import (
	"os"
	"testing"

	"github.com/freshfold/laundry-api/config"
	"github.com/freshfold/laundry-api/models"
	"gorm.io/gorm"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test for the duration of the test.
// Use this in suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	t.Setenv("GO_ENV", "test")
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// OpenTestDB opens a migrated in-memory SQLite database.
// The pool is pinned to one connection so every query sees the same memory database.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.LaundryService{}, &models.LaundryOrder{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}
