/* test_helpers.go
 * Contains test helper functions for store package tests
 * Authors: AIRO Web Team
 */

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"airo-web/api/shared"
)

// CreateTestStore creates a Store connected to the test database named by MONGO_TEST_URI, skipping the test when it
// is not set. The database is dropped when the test finishes
func CreateTestStore(t *testing.T) *Store {
	t.Helper()
	mongoURI := os.Getenv("MONGO_TEST_URI")
	if mongoURI == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := NewMongoStore(ctx, mongoURI, "airo_test")
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	t.Cleanup(func() {
		// Drop test database
		store.Database.Drop(context.Background())
		// Disconnect client
		store.Close(context.Background())
	})
	return store
}

// CreateSampleRecord creates a signed in Record for testing
func CreateSampleRecord(gender shared.Gender) Record {
	return Record{
		Token: "tok",
		User:  &shared.User{ID: "u1", Email: "asha@college.edu", Name: "Asha", Role: "USER", Gender: gender},
	}
}
