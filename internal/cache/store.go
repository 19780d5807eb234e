package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MessagesKey = "dropit:messages"
	ContentKey  = "dropit:content"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is the key-value surface used for the shared message list and the
// legacy content value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Name() string
}

// GetJSON decodes the value at key into dst. It reports false when the key
// does not exist.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, s Store, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	return s.Set(ctx, key, payload)
}
