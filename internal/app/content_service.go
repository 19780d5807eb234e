package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dropit/internal/cache"
	"dropit/internal/metrics"
	"dropit/internal/model"
)

const MaxMessages = 100

var (
	ErrMessageEmpty       = errors.New("message content is empty")
	ErrInvalidMessageType = errors.New("message type must be text or file")
)

type MessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

type PostMessageInput struct {
	Content     string
	MessageType string
	FileData    *model.FileData
}

// ContentService owns the shared message list and the legacy content value.
// Appends are serialized within this process; across processes the list key
// is last-writer-wins.
type ContentService struct {
	store     cache.Store
	publisher MessagePublisher
	log       *zap.Logger
	now       func() time.Time

	mu sync.Mutex
}

func NewContentService(store cache.Store, publisher MessagePublisher, log *zap.Logger) *ContentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentService{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *ContentService) StorageName() string {
	return s.store.Name()
}

// ListMessages returns the stored messages in ascending timestamp order.
func (s *ContentService) ListMessages(ctx context.Context) ([]model.Message, error) {
	messages, err := s.loadMessages(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})
	return messages, nil
}

func (s *ContentService) PostMessage(ctx context.Context, input PostMessageInput) (*model.Message, error) {
	if input.Content == "" {
		return nil, ErrMessageEmpty
	}
	msgType := strings.TrimSpace(input.MessageType)
	if msgType == "" {
		msgType = model.MessageTypeText
	}
	if !model.IsValidMessageType(msgType) {
		return nil, ErrInvalidMessageType
	}

	now := s.now().UnixMilli()
	msg := model.Message{
		ID:        newMessageID(now),
		Type:      msgType,
		Content:   input.Content,
		Timestamp: now,
		FileData:  input.FileData,
	}

	s.mu.Lock()
	messages, err := s.loadMessages(ctx)
	if err == nil {
		messages = append(messages, msg)
		if len(messages) > MaxMessages {
			messages = messages[len(messages)-MaxMessages:]
		}
		err = cache.SetJSON(ctx, s.store, cache.MessagesKey, messages)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	metrics.MessagesPosted.WithLabelValues(msg.Type).Inc()
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, msg); err != nil {
			s.log.Warn("archive publish failed", zap.String("message_id", msg.ID), zap.Error(err))
		}
	}
	return &msg, nil
}

func (s *ContentService) ClearMessages(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Del(ctx, cache.MessagesKey)
}

// GetContent returns an empty value stamped now when nothing was saved yet.
func (s *ContentService) GetContent(ctx context.Context) (*model.ContentData, error) {
	var content model.ContentData
	found, err := cache.GetJSON(ctx, s.store, cache.ContentKey, &content)
	if err != nil {
		return nil, err
	}
	if !found {
		return &model.ContentData{Text: "", Timestamp: s.now().UnixMilli()}, nil
	}
	return &content, nil
}

func (s *ContentService) SaveContent(ctx context.Context, text string) (*model.ContentData, error) {
	content := &model.ContentData{Text: text, Timestamp: s.now().UnixMilli()}
	if err := cache.SetJSON(ctx, s.store, cache.ContentKey, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ContentService) ClearContent(ctx context.Context) error {
	return s.store.Del(ctx, cache.ContentKey)
}

func (s *ContentService) loadMessages(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	if _, err := cache.GetJSON(ctx, s.store, cache.MessagesKey, &messages); err != nil {
		return nil, fmt.Errorf("load messages failed: %w", err)
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

func newMessageID(ms int64) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("msg_%d_%s", ms, suffix)
}
