package cache

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"dropit/internal/metrics"
)

// FallbackStore serves from primary and degrades to fallback whenever a
// primary call fails. A nil primary means fallback serves everything.
type FallbackStore struct {
	primary  Store
	fallback Store
	log      *zap.Logger
}

func NewFallbackStore(primary, fallback Store, log *zap.Logger) *FallbackStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FallbackStore{primary: primary, fallback: fallback, log: log}
}

func (s *FallbackStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.primary != nil {
		value, err := s.primary.Get(ctx, key)
		if err == nil || errors.Is(err, ErrKeyNotFound) {
			return value, err
		}
		s.degrade("get", key, err)
	}
	return s.fallback.Get(ctx, key)
}

func (s *FallbackStore) Set(ctx context.Context, key string, value []byte) error {
	if s.primary != nil {
		err := s.primary.Set(ctx, key, value)
		if err == nil {
			return nil
		}
		s.degrade("set", key, err)
	}
	return s.fallback.Set(ctx, key, value)
}

func (s *FallbackStore) Del(ctx context.Context, key string) error {
	if s.primary != nil {
		err := s.primary.Del(ctx, key)
		if err == nil {
			return nil
		}
		s.degrade("del", key, err)
	}
	return s.fallback.Del(ctx, key)
}

// Name reports the backend requests are routed to when healthy.
func (s *FallbackStore) Name() string {
	if s.primary != nil {
		return s.primary.Name()
	}
	return s.fallback.Name()
}

func (s *FallbackStore) degrade(op, key string, err error) {
	metrics.StorageFallbacks.WithLabelValues(s.primary.Name(), op).Inc()
	s.log.Warn("kv primary failed, using fallback",
		zap.String("op", op),
		zap.String("key", key),
		zap.String("fallback", s.fallback.Name()),
		zap.Error(err),
	)
}
