package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStorage keeps files under a directory that is also served over HTTP
// at baseURL.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{
		root:    filepath.Clean(root),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Name() string {
	return "local"
}

func (s *LocalStorage) Put(_ context.Context, pathname string, data []byte, _ string) (*Object, error) {
	safePath := sanitizePathname(pathname)
	if safePath == "" {
		return nil, fmt.Errorf("invalid pathname %q", pathname)
	}
	fullPath, err := s.resolve(safePath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory failed: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write file failed: %w", err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("stat file failed: %w", err)
	}
	return &Object{
		URL:        s.baseURL + "/" + safePath,
		Pathname:   safePath,
		Size:       info.Size(),
		UploadedAt: info.ModTime(),
	}, nil
}

// List walks the whole tree, newest first.
func (s *LocalStorage) List(_ context.Context, opts ListOptions) ([]Object, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory failed: %w", err)
	}

	var objects []Object
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if opts.Prefix != "" && !strings.HasPrefix(rel, opts.Prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, Object{
			URL:        s.baseURL + "/" + rel,
			Pathname:   rel,
			Size:       info.Size(),
			UploadedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk upload directory failed: %w", err)
	}

	sort.SliceStable(objects, func(i, j int) bool {
		if objects[i].UploadedAt.Equal(objects[j].UploadedAt) {
			return objects[i].Pathname > objects[j].Pathname
		}
		return objects[i].UploadedAt.After(objects[j].UploadedAt)
	})
	if opts.Limit > 0 && len(objects) > opts.Limit {
		objects = objects[:opts.Limit]
	}
	return objects, nil
}

// Delete accepts either a URL previously returned by Put/List or a bare
// pathname relative to the root.
func (s *LocalStorage) Delete(_ context.Context, rawURL string) error {
	pathname := sanitizePathname(s.pathnameFromURL(rawURL))
	if pathname == "" {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, rawURL)
	}
	fullPath, err := s.resolve(pathname)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, pathname)
		}
		return fmt.Errorf("delete file failed: %w", err)
	}
	return nil
}

func (s *LocalStorage) pathnameFromURL(raw string) string {
	if s.baseURL != "" && strings.HasPrefix(raw, s.baseURL+"/") {
		return strings.TrimPrefix(raw, s.baseURL+"/")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Path == "" {
		return raw
	}
	basePath := s.baseURL
	if parsedBase, err := url.Parse(s.baseURL); err == nil {
		basePath = strings.TrimRight(parsedBase.Path, "/")
	}
	if basePath != "" && strings.HasPrefix(parsed.Path, basePath+"/") {
		return strings.TrimPrefix(parsed.Path, basePath+"/")
	}
	if parsed.IsAbs() {
		return strings.TrimLeft(parsed.Path, "/")
	}
	return raw
}

func (s *LocalStorage) resolve(pathname string) (string, error) {
	fullPath := filepath.Join(s.root, filepath.FromSlash(pathname))
	rel, err := filepath.Rel(s.root, fullPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("pathname %q escapes storage root", pathname)
	}
	return fullPath, nil
}

func sanitizePathname(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.ReplaceAll(p, "..", "")
	p = path.Clean(strings.TrimLeft(p, "/"))
	if p == "." || p == "/" {
		return ""
	}
	return p
}
