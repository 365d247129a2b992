// Package testutil provides shared test helpers: an in-memory object store
// and fixture writers.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/loansiya/internal/storage"
)

// Bucket names used across tests.
const (
	ClientBucket   = "loansiya-clients"
	AccountsBucket = "loansiya-accounts"
)

// TestStore is a migrated in-memory SQLite object store.
type TestStore struct {
	Store    *storage.SQLiteStore
	Clients  *storage.SQLiteBucket
	Accounts *storage.SQLiteBucket
	t        *testing.T
}

// SetupTestStore creates a new in-memory store with both buckets.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	ts := testutil.SetupTestStore(t)
//	ts.PutJSON(ts.Clients, "clients/clients.json", clients)
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()

	signer, err := storage.NewURLSigner("test-signing-key", "http://localhost:5600")
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}

	store, err := storage.NewSQLiteStore(":memory:", signer)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestStore{
		Store:    store,
		Clients:  store.Bucket(ClientBucket),
		Accounts: store.Bucket(AccountsBucket),
		t:        t,
	}
}

// PutJSON encodes v and stores it at key, failing the test on error.
func (ts *TestStore) PutJSON(b storage.Bucket, key string, v any) {
	ts.t.Helper()
	if err := storage.WriteJSON(context.Background(), b, key, v); err != nil {
		ts.t.Fatalf("failed to seed %s: %v", key, err)
	}
}

// PutRaw stores data at key verbatim, failing the test on error.
func (ts *TestStore) PutRaw(b storage.Bucket, key string, data string) {
	ts.t.Helper()
	if err := b.Write(context.Background(), key, []byte(data), storage.WriteOptions{ContentType: storage.ContentTypeJSON}); err != nil {
		ts.t.Fatalf("failed to seed %s: %v", key, err)
	}
}

// MustReadJSON reads key into v, failing the test on error.
func (ts *TestStore) MustReadJSON(b storage.Bucket, key string, v any) {
	ts.t.Helper()
	if err := storage.ReadJSON(context.Background(), b, key, v); err != nil {
		ts.t.Fatalf("failed to read %s: %v", key, err)
	}
}

// MustRead returns the raw bytes stored at key, failing the test on error.
func (ts *TestStore) MustRead(b storage.Bucket, key string) []byte {
	ts.t.Helper()
	data, err := b.Read(context.Background(), key)
	if err != nil {
		ts.t.Fatalf("failed to read %s: %v", key, err)
	}
	return data
}
