package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	stdpath "path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// firebaseDownloadTokenKey is the object metadata key Firebase Storage reads
// to authorize token-based download URLs.
const firebaseDownloadTokenKey = "firebaseStorageDownloadTokens"

// GCSStore keeps objects in a Cloud Storage bucket and hands out Firebase
// download URLs for them.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("storage bucket is not configured")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Upload(ctx context.Context, path, contentType string, r io.Reader) (*Object, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	token := uuid.NewString()
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{firebaseDownloadTokenKey: token}

	size, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize object: %w", err)
	}

	return &Object{
		URL:         downloadURL(s.bucket, path, token),
		Path:        path,
		ContentType: contentType,
		Name:        stdpath.Base(path),
		Size:        size,
	}, nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func downloadURL(bucket, path, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(path), token,
	)
}
