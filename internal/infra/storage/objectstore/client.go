package objectstore

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"rental-engine/internal/pkg/config"
	"rental-engine/internal/pkg/errs"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectPutter is the part of *minio.Client the store uses.
type objectPutter interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Store keeps license images in a private S3-compatible bucket.
type Store struct {
	bucket string
	client objectPutter

	bucketInitOnce sync.Once
	bucketInitErr  error
}

func NewStore(cfg config.StorageConfig) (*Store, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errs.New("storage bucket is required")
	}
	client, err := minio.New(strings.TrimSpace(cfg.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errs.Wrap(err, "create object storage client")
	}
	return newStore(bucket, client), nil
}

func newStore(bucket string, client objectPutter) *Store {
	return &Store{bucket: bucket, client: client}
}

func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return errs.New("object key is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errs.Wrapf(err, "put object %s", key)
	}
	return nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	s.bucketInitOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.bucketInitErr = errs.Wrap(err, "check bucket")
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.bucketInitErr = errs.Wrap(err, "create bucket")
		}
	})
	return s.bucketInitErr
}
