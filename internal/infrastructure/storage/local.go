package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes objects below a directory on disk. Uploaded files are
// served by the API under /files/.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/") + "/files/",
	}, nil
}

// Dir is the root directory of stored objects.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) resolve(path string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(path)) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.dir, filepath.FromSlash(path)), nil
}

func (s *LocalStore) Upload(_ context.Context, path, contentType string, r io.Reader) (*Object, error) {
	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create object: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(target)
		return nil, fmt.Errorf("failed to write object: %w", err)
	}

	return &Object{
		URL:         s.baseURL + path,
		Path:        path,
		ContentType: contentType,
		Name:        filepath.Base(target),
		Size:        size,
	}, nil
}

func (s *LocalStore) Delete(_ context.Context, path string) error {
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
