package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/loansiya/internal/common"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps every bucket's objects in a single SQLite database.
// It backs local development and tests.
type SQLiteStore struct {
	db     *sql.DB
	signer *URLSigner
	dbPath string
}

// NewSQLiteStore opens (or creates) the database at dbPath. Pass ":memory:"
// for an ephemeral store. signer issues the references returned by SignedURL.
func NewSQLiteStore(dbPath string, signer *URLSigner) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if signer == nil {
		return nil, fmt.Errorf("%w: signer", common.ErrMissingConfig)
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		signer: signer,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Bucket returns a handle for the named bucket.
func (s *SQLiteStore) Bucket(name string) *SQLiteBucket {
	return &SQLiteBucket{store: s, name: name}
}

// Object is a stored blob with its metadata.
type Object struct {
	UpdatedAt    time.Time
	ContentType  string
	CacheControl string
	Data         []byte
}

// OpenSigned returns the object addressed by a reference previously issued
// by SignedURL. Expired or tampered references fail with common.ErrUnauthorized.
func (s *SQLiteStore) OpenSigned(ctx context.Context, bucket, key, expires, signature string) (Object, error) {
	if err := s.signer.Verify(bucket, key, expires, signature); err != nil {
		return Object{}, err
	}
	return s.Bucket(bucket).object(ctx, key)
}

// SQLiteBucket implements Bucket on top of SQLiteStore.
type SQLiteBucket struct {
	store *SQLiteStore
	name  string
}

// Name implements Bucket.
func (b *SQLiteBucket) Name() string {
	return b.name
}

// Read implements Bucket.
func (b *SQLiteBucket) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.object(ctx, key)
	if err != nil {
		return nil, err
	}
	return obj.Data, nil
}

func (b *SQLiteBucket) object(ctx context.Context, key string) (Object, error) {
	if err := validateAccess(ctx, key); err != nil {
		return Object{}, err
	}

	var obj Object
	err := b.store.db.QueryRowContext(ctx, `
		SELECT data, content_type, cache_control, updated_at
		FROM objects
		WHERE bucket = ? AND key = ?
	`, b.name, key).Scan(&obj.Data, &obj.ContentType, &obj.CacheControl, &obj.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Object{}, notFound(b.name, key)
	}
	if err != nil {
		return Object{}, storageErr("read", b.name, key, err)
	}
	return obj, nil
}

// Write implements Bucket. Objects are stored decoded; Gzip is ignored.
func (b *SQLiteBucket) Write(ctx context.Context, key string, data []byte, opts WriteOptions) error {
	if err := validateAccess(ctx, key); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	_, err := b.store.db.ExecContext(ctx, `
		INSERT INTO objects (bucket, key, data, content_type, cache_control, size, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bucket, key) DO UPDATE SET
			data = excluded.data,
			content_type = excluded.content_type,
			cache_control = excluded.cache_control,
			size = excluded.size,
			updated_at = excluded.updated_at
	`, b.name, key, data, opts.ContentType, opts.CacheControl, len(data), time.Now().UTC())
	if err != nil {
		return storageErr("write", b.name, key, err)
	}
	return nil
}

// WriteFrom implements Bucket. The blob column needs the whole object, so r
// is read fully before the insert.
func (b *SQLiteBucket) WriteFrom(ctx context.Context, key string, r io.Reader, opts WriteOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return storageErr("write", b.name, key, err)
	}
	return b.Write(ctx, key, data, opts)
}

// Exists implements Bucket.
func (b *SQLiteBucket) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateAccess(ctx, key); err != nil {
		return false, err
	}

	var found int
	err := b.store.db.QueryRowContext(ctx,
		`SELECT 1 FROM objects WHERE bucket = ? AND key = ?`, b.name, key).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("stat", b.name, key, err)
	}
	return true, nil
}

// SignedURL implements Bucket with an HMAC-signed link to the local file route.
func (b *SQLiteBucket) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := validateAccess(ctx, key); err != nil {
		return "", err
	}
	return b.store.signer.Sign(b.name, key, ttl), nil
}

// Probe checks that the database is reachable.
func (b *SQLiteBucket) Probe(ctx context.Context) error {
	return b.store.db.PingContext(ctx)
}
