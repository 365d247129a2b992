package storage

import (
	"context"
	"testing"
)

func TestMigrate_ReachesExpectedVersion(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
}

func TestMigrate_SizeColumnTracksWrites(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Bucket("clients").Write(ctx, "a.json", []byte(`{"a":1}`), WriteOptions{}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	var size int
	if err := store.db.QueryRowContext(ctx, `SELECT size FROM objects WHERE bucket = 'clients' AND key = 'a.json'`).Scan(&size); err != nil {
		t.Fatalf("Failed to read size: %v", err)
	}
	if size != 7 {
		t.Errorf("size = %d, want 7", size)
	}
}
