package storage

import (
	"context"

	"go.uber.org/zap"

	"dropit/internal/metrics"
)

// Adapter routes file operations to the remote backend when one is
// configured and falls back to local storage when it is absent or a call
// fails. Each operation gets exactly one remote attempt.
type Adapter struct {
	remote Backend
	local  *LocalStorage
	log    *zap.Logger
}

func NewAdapter(remote Backend, local *LocalStorage, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{remote: remote, local: local, log: log}
}

// Mode names the backend that serves requests while healthy.
func (a *Adapter) Mode() string {
	if a.remote != nil {
		return a.remote.Name()
	}
	return a.local.Name()
}

func (a *Adapter) Local() *LocalStorage {
	return a.local
}

func (a *Adapter) Put(ctx context.Context, pathname string, data []byte, contentType string) (*Object, error) {
	if a.remote != nil {
		obj, err := a.remote.Put(ctx, pathname, data, contentType)
		if err == nil {
			return obj, nil
		}
		a.degrade("put", err)
	}
	return a.local.Put(ctx, pathname, data, contentType)
}

func (a *Adapter) List(ctx context.Context, opts ListOptions) ([]Object, error) {
	if a.remote != nil {
		objects, err := a.remote.List(ctx, opts)
		if err == nil {
			return objects, nil
		}
		a.degrade("list", err)
	}
	return a.local.List(ctx, opts)
}

func (a *Adapter) Delete(ctx context.Context, url string) error {
	if a.remote != nil {
		err := a.remote.Delete(ctx, url)
		if err == nil {
			return nil
		}
		a.degrade("delete", err)
	}
	return a.local.Delete(ctx, url)
}

func (a *Adapter) degrade(op string, err error) {
	metrics.StorageFallbacks.WithLabelValues(a.remote.Name(), op).Inc()
	a.log.Warn("remote storage failed, falling back to local storage",
		zap.String("backend", a.remote.Name()),
		zap.String("op", op),
		zap.Error(err),
	)
}
