// Package filestore treats file storage as an opaque blob store: documents
// reference stored bytes by an engine-issued key and nothing downstream
// depends on where the bytes live.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore stores and retrieves opaque blobs by reference.
type FileStore interface {
	Store(content io.Reader, filename string) (ref string, err error)
	Retrieve(ref string) (io.ReadCloser, error)
	Remove(ref string) error
}

// LocalStore keeps blobs on the local filesystem under a base path.
// References are generated keys, never client-supplied paths.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a local file store rooted at basePath.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// Store writes the content and returns an opaque reference.
func (s *LocalStore) Store(content io.Reader, filename string) (string, error) {
	ext := filepath.Ext(filename)
	ref := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.basePath, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return ref, nil
}

// Retrieve opens the blob behind a reference.
func (s *LocalStore) Retrieve(ref string) (io.ReadCloser, error) {
	if !validRef(ref) {
		return nil, fmt.Errorf("invalid file reference")
	}
	f, err := os.Open(filepath.Join(s.basePath, ref))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Remove deletes the blob behind a reference. A missing blob is a no-op.
func (s *LocalStore) Remove(ref string) error {
	if !validRef(ref) {
		return fmt.Errorf("invalid file reference")
	}
	err := os.Remove(filepath.Join(s.basePath, ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// validRef rejects references that could escape the base path.
func validRef(ref string) bool {
	return ref != "" && !strings.Contains(ref, "/") && !strings.Contains(ref, "\\") && !strings.Contains(ref, "..")
}
