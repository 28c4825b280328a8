package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore saves uploaded files to disk under a base directory.
type FileStore struct {
	basePath  string
	publicURL string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath, publicURL string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{basePath: basePath, publicURL: publicURL}, nil
}

// Root returns the directory served for dir.
func (f *FileStore) Root(dir string) string {
	return filepath.Join(f.basePath, dir)
}

// Put writes obj under basePath/dir.
func (f *FileStore) Put(_ context.Context, dir string, obj Object) (string, error) {
	if err := os.MkdirAll(f.Root(dir), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	key := objectKey(dir, obj.Name)

	target := filepath.Join(f.basePath, filepath.FromSlash(key))
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, obj.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("close file: %w", err)
	}
	return publicPath(f.publicURL, key), nil
}

// Owns reports whether stored names a file written by Put under dir.
func (f *FileStore) Owns(stored, dir string) bool {
	return ownsKey(f.publicURL, stored, dir)
}

// Delete removes a stored file. Missing files are not an error.
func (f *FileStore) Delete(_ context.Context, stored string) error {
	key := keyFromPublic(f.publicURL, stored)
	target := filepath.Join(f.basePath, filepath.FromSlash(filepath.Clean("/" + key)))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
