package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"dropit/internal/metrics"
	"dropit/internal/model"
	"dropit/internal/storage"
)

var (
	ErrFileRequired    = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrURLRequired     = errors.New("file url is required")
	ErrFileNotFound    = errors.New("file not found")
)

var extensionTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"zip":  "application/zip",
	"rar":  "application/x-rar-compressed",
}

// contentTypeExtensions picks the stored extension from the validated type,
// so a client-chosen filename never decides how the file is served.
var contentTypeExtensions = map[string]string{
	"image/jpeg":         "jpg",
	"image/png":          "png",
	"image/gif":          "gif",
	"image/webp":         "webp",
	"application/pdf":    "pdf",
	"text/plain":         "txt",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"video/mp4":                    "mp4",
	"video/webm":                   "webm",
	"audio/mpeg":                   "mp3",
	"audio/wav":                    "wav",
	"application/zip":              "zip",
	"application/x-rar-compressed": "rar",
}

type FileStorage interface {
	Put(ctx context.Context, pathname string, data []byte, contentType string) (*storage.Object, error)
	List(ctx context.Context, opts storage.ListOptions) ([]storage.Object, error)
	Delete(ctx context.Context, url string) error
}

type UploadServiceOptions struct {
	MaxSize      int64
	AllowedTypes []string
	Prefix       string
	ListLimit    int
}

type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadService struct {
	storage   FileStorage
	maxSize   int64
	allowed   map[string]struct{}
	prefix    string
	listLimit int
	now       func() time.Time
}

func NewUploadService(fs FileStorage, opts UploadServiceOptions) *UploadService {
	if opts.MaxSize <= 0 {
		opts.MaxSize = 10 << 20
	}
	if opts.Prefix == "" {
		opts.Prefix = "dropit/"
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = 50
	}
	allowed := make(map[string]struct{}, len(opts.AllowedTypes))
	for _, t := range opts.AllowedTypes {
		allowed[normalizeMediaType(t)] = struct{}{}
	}
	return &UploadService{
		storage:   fs,
		maxSize:   opts.MaxSize,
		allowed:   allowed,
		prefix:    opts.Prefix,
		listLimit: opts.ListLimit,
		now:       time.Now,
	}
}

func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*model.UploadedFile, error) {
	file, err := s.upload(ctx, input)
	switch {
	case err == nil:
		metrics.Uploads.WithLabelValues("ok").Inc()
		metrics.UploadBytes.Add(float64(file.Size))
	case errors.Is(err, ErrFileRequired), errors.Is(err, ErrFileTooLarge), errors.Is(err, ErrUnsupportedType):
		metrics.Uploads.WithLabelValues("rejected").Inc()
	default:
		metrics.Uploads.WithLabelValues("failed").Inc()
	}
	return file, err
}

func (s *UploadService) upload(ctx context.Context, input UploadInput) (*model.UploadedFile, error) {
	if input.Body == nil {
		return nil, ErrFileRequired
	}
	if input.Size > s.maxSize {
		return nil, s.tooLarge()
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload failed: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, s.tooLarge()
	}

	contentType := normalizeMediaType(input.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = normalizeMediaType(mimetype.Detect(data).String())
	}
	if _, ok := s.allowed[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	uploadedAt := s.now().UnixMilli()
	pathname := fmt.Sprintf("%s%d.%s", s.prefix, uploadedAt, extensionForType(contentType))
	obj, err := s.storage.Put(ctx, pathname, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("store upload failed: %w", err)
	}

	return &model.UploadedFile{
		URL:        obj.URL,
		Pathname:   obj.Pathname,
		Size:       int64(len(data)),
		Type:       contentType,
		Filename:   path.Base(strings.ReplaceAll(input.Filename, "\\", "/")),
		UploadedAt: uploadedAt,
	}, nil
}

func (s *UploadService) List(ctx context.Context) ([]model.UploadedFile, error) {
	objects, err := s.storage.List(ctx, storage.ListOptions{Prefix: s.prefix, Limit: s.listLimit})
	if err != nil {
		return nil, fmt.Errorf("list files failed: %w", err)
	}
	files := make([]model.UploadedFile, 0, len(objects))
	for _, obj := range objects {
		filename := "unknown"
		if obj.Pathname != "" {
			filename = path.Base(obj.Pathname)
		}
		files = append(files, model.UploadedFile{
			URL:        obj.URL,
			Pathname:   obj.Pathname,
			Size:       obj.Size,
			Type:       TypeFromPath(obj.Pathname),
			Filename:   filename,
			UploadedAt: obj.UploadedAt.UnixMilli(),
		})
	}
	return files, nil
}

func (s *UploadService) Delete(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrURLRequired
	}
	if err := s.storage.Delete(ctx, url); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("%w: %v", ErrFileNotFound, err)
		}
		return fmt.Errorf("delete file failed: %w", err)
	}
	return nil
}

func (s *UploadService) tooLarge() error {
	return fmt.Errorf("%w: limit is %s", ErrFileTooLarge, humanize.IBytes(uint64(s.maxSize)))
}

// TypeFromPath infers a MIME type from the extension of a stored object.
func TypeFromPath(pathname string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(pathname)), ".")
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return "application/octet-stream"
}

func extensionForType(contentType string) string {
	if ext, ok := contentTypeExtensions[contentType]; ok {
		return ext
	}
	return "bin"
}

func normalizeMediaType(t string) string {
	t, _, _ = strings.Cut(t, ";")
	return strings.ToLower(strings.TrimSpace(t))
}
