// Package storage persists uploaded product and category images.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"shop-service/pkg/config"
)

// Object is one uploaded file.
type Object struct {
	Name        string
	Body        io.Reader
	Size        int64
	ContentType string
}

// BlobStore stores objects under a directory and returns the path that
// should be persisted for them.
type BlobStore interface {
	Put(ctx context.Context, dir string, obj Object) (string, error)
	Delete(ctx context.Context, stored string) error
	// Owns reports whether stored is a path this store returned from Put
	// for dir.
	Owns(stored, dir string) bool
}

// New builds the BlobStore selected by cfg.Driver
func New(cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "local":
		return NewFileStore(cfg.LocalDir, cfg.PublicURL)
	case "minio":
		return NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// objectKey returns dir/<uuid>-<name> with the original name sanitized.
func objectKey(dir, name string) string {
	return path.Join(dir, uuid.NewString()+"-"+safeFilename(name))
}

func publicPath(prefix, key string) string {
	if prefix == "" {
		return "/" + key
	}
	return strings.TrimRight(prefix, "/") + "/" + key
}

func keyFromPublic(prefix, stored string) string {
	if prefix != "" {
		stored = strings.TrimPrefix(stored, strings.TrimRight(prefix, "/"))
	}
	return strings.TrimPrefix(stored, "/")
}

func ownsKey(prefix, stored, dir string) bool {
	base := strings.TrimRight(prefix, "/")
	if !strings.HasPrefix(stored, base+"/") {
		return false
	}
	key := strings.TrimPrefix(stored, base+"/")
	if strings.Contains(key, "..") || path.Clean(key) != key {
		return false
	}
	return path.Dir(key) == dir && path.Base(key) != ""
}

func safeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}
