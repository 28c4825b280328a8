package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements BlobStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool, publicURL string) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioStore{client: client, bucket: bucket, publicURL: publicURL}, nil
}

// Put uploads obj as dir/<uuid>-<name>.
func (m *MinioStore) Put(ctx context.Context, dir string, obj Object) (string, error) {
	key := objectKey(dir, obj.Name)
	size := obj.Size
	if size <= 0 {
		size = -1
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, obj.Body, size, minio.PutObjectOptions{ContentType: obj.ContentType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return publicPath(m.publicURL, key), nil
}

// Delete removes an object.
func (m *MinioStore) Delete(ctx context.Context, stored string) error {
	key := keyFromPublic(m.publicURL, stored)
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// Owns reports whether stored names an object uploaded by Put under dir.
func (m *MinioStore) Owns(stored, dir string) bool {
	return ownsKey(m.publicURL, stored, dir)
}
