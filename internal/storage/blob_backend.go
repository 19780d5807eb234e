package storage

import (
	"context"

	"dropit/internal/platform/blob"
)

type BlobBackend struct {
	client *blob.Client
}

func NewBlobBackend(client *blob.Client) *BlobBackend {
	return &BlobBackend{client: client}
}

func (b *BlobBackend) Name() string {
	return "blob"
}

func (b *BlobBackend) Put(ctx context.Context, pathname string, data []byte, contentType string) (*Object, error) {
	result, err := b.client.Put(ctx, pathname, data, contentType)
	if err != nil {
		return nil, err
	}
	return &Object{
		URL:        result.URL,
		Pathname:   result.Pathname,
		Size:       int64(len(data)),
		UploadedAt: result.UploadedAt,
	}, nil
}

func (b *BlobBackend) List(ctx context.Context, opts ListOptions) ([]Object, error) {
	blobs, err := b.client.List(ctx, opts.Prefix, opts.Limit)
	if err != nil {
		return nil, err
	}
	objects := make([]Object, 0, len(blobs))
	for _, item := range blobs {
		objects = append(objects, Object{
			URL:        item.URL,
			Pathname:   item.Pathname,
			Size:       item.Size,
			UploadedAt: item.UploadedAt,
		})
	}
	return objects, nil
}

func (b *BlobBackend) Delete(ctx context.Context, url string) error {
	return b.client.Delete(ctx, url)
}
