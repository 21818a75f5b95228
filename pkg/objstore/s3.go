package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dreams-labs/datacore/pkg/core"
)

// S3Store implements Store on any S3-compatible service.
type S3Store struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

var _ Store = (*S3Store)(nil)

// NewS3 builds an S3-compatible store from cfg.
func NewS3(cfg Config, logger *slog.Logger) (*S3Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, core.E(core.KindValidation, "objstore.new", cfg.Bucket,
			fmt.Errorf("endpoint and bucket are required"))
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, core.E(core.KindValidation, "objstore.new", cfg.Endpoint, err)
	}

	return &S3Store{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Put writes an object, replacing any existing one under the key.
func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return classifyS3("objstore.put", key, err)
	}

	s.logger.Debug("object uploaded", "bucket", s.bucket, "key", key, "size", size)
	return nil
}

// Get opens an object for reading.
func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	// StatObject first: GetObject defers errors until the first read.
	if _, err := s.Stat(ctx, key); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyS3("objstore.get", key, err)
	}
	return obj, nil
}

// Stat returns object metadata without reading the body.
func (s *S3Store) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, classifyS3("objstore.stat", key, err)
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		LastModified: info.LastModified,
		ContentType:  info.ContentType,
	}, nil
}

// classifyS3 maps S3 error responses onto the failure taxonomy.
func classifyS3(op, ref string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" ||
		resp.StatusCode == http.StatusNotFound:
		return core.E(core.KindNotFound, op, ref, err)
	case resp.Code == "AccessDenied" ||
		resp.StatusCode == http.StatusForbidden ||
		resp.StatusCode == http.StatusUnauthorized:
		return core.E(core.KindAccessDenied, op, ref, err)
	case resp.Code == "SlowDown" || resp.StatusCode == http.StatusTooManyRequests:
		return core.E(core.KindQuotaExceeded, op, ref, err)
	case resp.StatusCode >= 500:
		return core.E(core.KindTransient, op, ref, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return core.E(core.KindTimeout, op, ref, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return core.E(core.KindTransient, op, ref, err)
	}

	return core.E(core.KindTransient, op, ref, err)
}
