// Package storage provides the object store gateway: flat, string-keyed
// buckets of blobs backed by Google Cloud Storage or a local SQLite file.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/loansiya/internal/common"
)

// ContentTypeJSON is the content type used for every JSON object.
const ContentTypeJSON = "application/json"

// WriteOptions carries object metadata for a write.
type WriteOptions struct {
	ContentType  string
	CacheControl string
	// Gzip stores the object gzip-encoded where the backend supports
	// transparent decompression on read.
	Gzip bool
}

// Bucket is a namespaced blob store keyed by string paths.
type Bucket interface {
	// Name returns the bucket name.
	Name() string
	// Read returns the object's content. Missing objects yield an error
	// wrapping common.ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write creates or overwrites the object.
	Write(ctx context.Context, key string, data []byte, opts WriteOptions) error
	// WriteFrom creates or overwrites the object with the contents of r.
	WriteFrom(ctx context.Context, key string, r io.Reader, opts WriteOptions) error
	// Exists reports whether the object is present.
	Exists(ctx context.Context, key string) (bool, error)
	// SignedURL issues a read-only reference to the object valid for ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ReadJSON reads key and decodes it into v. Undecodable content yields an
// error wrapping common.ErrMalformedInput.
func ReadJSON(ctx context.Context, b Bucket, key string, v any) error {
	data, err := b.Read(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s/%s: %v", common.ErrMalformedInput, b.Name(), key, err)
	}
	return nil
}

// WriteJSON encodes v with two-space indentation and writes it to key.
func WriteJSON(ctx context.Context, b Bucket, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", b.Name(), key, err)
	}
	return b.Write(ctx, key, data, WriteOptions{ContentType: ContentTypeJSON})
}

func notFound(bucket, key string) error {
	return fmt.Errorf("%w: %s/%s", common.ErrNotFound, bucket, key)
}

func storageErr(op, bucket, key string, err error) error {
	return fmt.Errorf("%w: %s %s/%s: %v", common.ErrStorage, op, bucket, key, err)
}
