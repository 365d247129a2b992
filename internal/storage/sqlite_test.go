package storage

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/loansiya/internal/common"
)

// Helper function to create test storage.
func createTestStore(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "objects.db")

	signer, err := NewURLSigner("test-secret", "http://localhost:5600")
	if err != nil {
		t.Fatalf("Failed to create signer: %v", err)
	}

	store, err := NewSQLiteStore(dbPath, signer)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestSQLiteBucket_WriteRead(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	bucket := store.Bucket("clients")

	if err := bucket.Write(ctx, "scores/CID-1.json", []byte(`{"creditScore":700}`), WriteOptions{ContentType: ContentTypeJSON}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	got, err := bucket.Read(ctx, "scores/CID-1.json")
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if string(got) != `{"creditScore":700}` {
		t.Errorf("Unexpected content: %s", got)
	}

	// Overwrite replaces the object
	if err := bucket.Write(ctx, "scores/CID-1.json", []byte(`{"creditScore":710}`), WriteOptions{}); err != nil {
		t.Fatalf("Failed to overwrite: %v", err)
	}
	got, err = bucket.Read(ctx, "scores/CID-1.json")
	if err != nil {
		t.Fatalf("Failed to read after overwrite: %v", err)
	}
	if string(got) != `{"creditScore":710}` {
		t.Errorf("Overwrite not applied: %s", got)
	}
}

func TestSQLiteBucket_WriteFromReader(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	bucket := store.Bucket("clients")

	if err := bucket.WriteFrom(ctx, "uploads/CID-1/stub.txt", strings.NewReader("streamed body"), WriteOptions{ContentType: "text/plain"}); err != nil {
		t.Fatalf("Failed to write from reader: %v", err)
	}

	got, err := bucket.Read(ctx, "uploads/CID-1/stub.txt")
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if string(got) != "streamed body" {
		t.Errorf("Unexpected content: %s", got)
	}
}

func TestSQLiteBucket_ReadMissing(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()

	_, err := store.Bucket("clients").Read(context.Background(), "clients/clients.json")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteBucket_BucketsAreIsolated(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Bucket("clients").Write(ctx, "loan_officers.json", []byte(`[]`), WriteOptions{}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	exists, err := store.Bucket("accounts").Exists(ctx, "loan_officers.json")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Object leaked across buckets")
	}

	exists, err = store.Bucket("clients").Exists(ctx, "loan_officers.json")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected object to exist in its own bucket")
	}
}

func TestSQLiteBucket_RejectsInvalidKeys(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	bucket := store.Bucket("clients")

	for _, key := range []string{"", "  ", "/abs.json", "a//b.json", "clients/../secret.json"} {
		if err := bucket.Write(ctx, key, []byte("x"), WriteOptions{}); err == nil {
			t.Errorf("Expected error for key %q", key)
		}
	}
}

func TestSQLiteStore_SignedURLRoundTrip(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()
	bucket := store.Bucket("clients")

	key := "documents/CID-1/2026-10-18/pay stub.pdf"
	if err := bucket.Write(ctx, key, []byte("%PDF"), WriteOptions{ContentType: "application/pdf", CacheControl: "no-cache"}); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	signed, err := bucket.SignedURL(ctx, key, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("Signed URL does not parse: %v", err)
	}
	if !strings.HasPrefix(u.Path, FilesRoute+"/clients/documents/CID-1/") {
		t.Errorf("Unexpected path %q", u.Path)
	}

	obj, err := store.OpenSigned(ctx, "clients", key, u.Query().Get("expires"), u.Query().Get("signature"))
	if err != nil {
		t.Fatalf("OpenSigned failed: %v", err)
	}
	if string(obj.Data) != "%PDF" || obj.ContentType != "application/pdf" || obj.CacheControl != "no-cache" {
		t.Errorf("Unexpected object: %+v", obj)
	}

	_, err = store.OpenSigned(ctx, "clients", "documents/CID-1/2026-10-18/other.pdf", u.Query().Get("expires"), u.Query().Get("signature"))
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for a different key, got %v", err)
	}
}

func TestNewSQLiteStore_RequiresSigner(t *testing.T) {
	if _, err := NewSQLiteStore(":memory:", nil); !errors.Is(err, common.ErrMissingConfig) {
		t.Fatalf("Expected ErrMissingConfig, got %v", err)
	}
}
