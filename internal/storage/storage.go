package storage

import (
	"context"
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// Object is blob-shaped metadata for a stored file, whichever backend
// holds it.
type Object struct {
	URL        string    `json:"url"`
	Pathname   string    `json:"pathname"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type ListOptions struct {
	Prefix string
	// Limit truncates the result when positive.
	Limit int
}

type Backend interface {
	Put(ctx context.Context, pathname string, data []byte, contentType string) (*Object, error)
	List(ctx context.Context, opts ListOptions) ([]Object, error)
	Delete(ctx context.Context, url string) error
	Name() string
}
