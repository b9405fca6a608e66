// Package storage holds the object stores that keep uploaded attachments.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid object path")

// Object describes an uploaded binary. Path is the handle needed to delete it.
type Object struct {
	URL         string
	Path        string
	ContentType string
	Name        string
	Size        int64
}

// ObjectStore uploads and removes binary attachments.
type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) (*Object, error)
	Delete(ctx context.Context, path string) error
}
