package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// GCSConfig configures the Google Cloud Storage backend.
type GCSConfig struct {
	// CredentialsJSON is a service-account key. When empty, application
	// default credentials are used and URL signing falls back to the
	// library's own identity detection.
	CredentialsJSON []byte
}

// GCSClient owns the process-wide Cloud Storage handle.
type GCSClient struct {
	client   *gcs.Client
	logger   *slog.Logger
	accessID string
	key      []byte
}

// NewGCSClient creates the Cloud Storage client.
func NewGCSClient(ctx context.Context, cfg GCSConfig, logger *slog.Logger) (*GCSClient, error) {
	var opts []option.ClientOption
	c := &GCSClient{logger: logger}

	if len(cfg.CredentialsJSON) > 0 {
		creds, err := google.CredentialsFromJSON(ctx, cfg.CredentialsJSON, gcs.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))

		jwtConfig, err := google.JWTConfigFromJSON(cfg.CredentialsJSON, gcs.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("unable to read signing identity: %w", err)
		}
		c.accessID = jwtConfig.Email
		c.key = jwtConfig.PrivateKey
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create storage client: %w", err)
	}
	c.client = client

	return c, nil
}

// Bucket returns a handle for the named bucket.
func (c *GCSClient) Bucket(name string) *GCSBucket {
	return &GCSBucket{
		name:   name,
		handle: c.client.Bucket(name),
		owner:  c,
		now:    time.Now,
	}
}

// Close releases the underlying client.
func (c *GCSClient) Close() error {
	return c.client.Close()
}

// GCSBucket implements Bucket on a Cloud Storage bucket.
type GCSBucket struct {
	handle *gcs.BucketHandle
	owner  *GCSClient
	now    func() time.Time
	name   string
}

// Name implements Bucket.
func (b *GCSBucket) Name() string {
	return b.name
}

// Read implements Bucket.
func (b *GCSBucket) Read(ctx context.Context, key string) ([]byte, error) {
	if err := validateAccess(ctx, key); err != nil {
		return nil, err
	}

	r, err := b.handle.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, notFound(b.name, key)
		}
		return nil, storageErr("read", b.name, key, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, storageErr("read", b.name, key, err)
	}
	return data, nil
}

// Write implements Bucket.
func (b *GCSBucket) Write(ctx context.Context, key string, data []byte, opts WriteOptions) error {
	return b.WriteFrom(ctx, key, bytes.NewReader(data), opts)
}

// WriteFrom implements Bucket, copying r straight into the object writer.
func (b *GCSBucket) WriteFrom(ctx context.Context, key string, r io.Reader, opts WriteOptions) error {
	if err := validateAccess(ctx, key); err != nil {
		return err
	}

	w := b.handle.Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	w.CacheControl = opts.CacheControl

	var body io.Writer = w
	var gz *gzip.Writer
	if opts.Gzip {
		w.ContentEncoding = "gzip"
		gz = gzip.NewWriter(w)
		body = gz
	}

	n, err := io.Copy(body, r)
	if err != nil {
		_ = w.Close()
		return storageErr("write", b.name, key, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			_ = w.Close()
			return storageErr("write", b.name, key, err)
		}
	}
	if err := w.Close(); err != nil {
		return storageErr("write", b.name, key, err)
	}

	b.owner.logger.Debug("object written", "bucket", b.name, "key", key, "bytes", n)
	return nil
}

// Exists implements Bucket.
func (b *GCSBucket) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateAccess(ctx, key); err != nil {
		return false, err
	}

	_, err := b.handle.Object(key).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("stat", b.name, key, err)
	}
	return true, nil
}

// SignedURL implements Bucket with a V4 signed GET URL served inline.
func (b *GCSBucket) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := validateAccess(ctx, key); err != nil {
		return "", err
	}

	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: b.now().Add(ttl),
		QueryParameters: url.Values{
			"response-content-disposition": {"inline"},
		},
	}
	if b.owner.accessID != "" {
		opts.GoogleAccessID = b.owner.accessID
		opts.PrivateKey = b.owner.key
	}

	signed, err := b.handle.SignedURL(key, opts)
	if err != nil {
		return "", storageErr("sign", b.name, key, err)
	}
	return signed, nil
}

// Probe checks that the bucket is reachable.
func (b *GCSBucket) Probe(ctx context.Context) error {
	if _, err := b.handle.Attrs(ctx); err != nil {
		return fmt.Errorf("bucket %s unreachable: %w", b.name, err)
	}
	return nil
}
