package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// CreateTestDatabase connects to TEST_MONGODB_URI and returns a fresh
// database that is dropped when the test ends. Tests are skipped when the
// URI is not set.
func CreateTestDatabase(t testing.TB) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI is not set.")
	}
	ctx := context.Background()
	client, err := Connect(ctx, uri, 10*time.Second)
	if err != nil {
		t.Fatalf("Could not connect to MongoDB: %v", err)
	}
	database := client.Database(fmt.Sprintf("ovidot_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		database.Drop(context.Background())
		client.Disconnect(context.Background())
	})
	return database
}
