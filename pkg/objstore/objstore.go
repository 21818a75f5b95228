// Package objstore provides S3-compatible object storage for query
// result uploads and a freshness-windowed query cache.
package objstore

import (
	"context"
	"io"
	"time"
)

// Config holds object-store connection settings.
type Config struct {
	// Endpoint is the S3-compatible host, e.g. "storage.example.com:9000".
	Endpoint string `koanf:"endpoint"`
	// Bucket is the target bucket. Required.
	Bucket string `koanf:"bucket"`
	// AccessKey and SecretKey authenticate requests.
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	// Secure selects TLS.
	Secure bool `koanf:"secure"`
	// Region is optional; most S3-compatible stores ignore it.
	Region string `koanf:"region"`
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Store is the object storage contract. Keys are slash-separated paths
// within a single bucket.
type Store interface {
	// Put writes an object, replacing any existing one under the key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens an object for reading. Missing objects fail with the
	// not_found kind.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Stat returns object metadata without reading the body. Missing
	// objects fail with the not_found kind.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}
