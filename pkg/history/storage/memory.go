package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/hermes/pkg/history"
)

// MemoryStore implements history.Store using in-memory maps.
// This implementation is intended for testing only and should not be used in production.
type MemoryStore struct {
	chats    map[string]*history.Chat
	messages map[string][]*history.Message // chat id -> append-ordered messages
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chats:    make(map[string]*history.Chat),
		messages: make(map[string][]*history.Message),
	}
}

// CreateChat creates a new chat with the given title.
func (s *MemoryStore) CreateChat(ctx context.Context, title string) (*history.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	chat := &history.Chat{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	chatCopy := *chat
	s.chats[chat.ID] = &chatCopy
	return chat, nil
}

// GetChat returns the chat with the given id, or nil when it does not exist.
func (s *MemoryStore) GetChat(ctx context.Context, id string) (*history.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, ok := s.chats[id]
	if !ok {
		return nil, nil
	}
	chatCopy := *chat
	return &chatCopy, nil
}

// ListChats returns chats ordered by most recently updated first.
func (s *MemoryStore) ListChats(ctx context.Context, limit int) ([]*history.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	chats := make([]*history.Chat, 0, len(s.chats))
	for _, chat := range s.chats {
		chatCopy := *chat
		chats = append(chats, &chatCopy)
	}

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})

	if len(chats) > limit {
		chats = chats[:limit]
	}
	return chats, nil
}

// AppendMessage appends a message to its chat.
func (s *MemoryStore) AppendMessage(ctx context.Context, msg *history.Message) error {
	if msg == nil {
		return history.NewStorageError("memory", "append", fmt.Errorf("message cannot be nil"))
	}
	if msg.ChatID == "" {
		return history.NewStorageError("memory", "append", fmt.Errorf("message chat id cannot be empty"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[msg.ChatID]
	if !ok {
		return history.NewStorageError("memory", "append",
			fmt.Errorf("chat %s does not exist", msg.ChatID))
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	msgCopy := *msg
	s.messages[msg.ChatID] = append(s.messages[msg.ChatID], &msgCopy)
	chat.UpdatedAt = msg.CreatedAt

	return nil
}

// Messages returns a chat's messages in append order.
func (s *MemoryStore) Messages(ctx context.Context, chatID string) ([]*history.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[chatID]
	out := make([]*history.Message, 0, len(msgs))
	for _, msg := range msgs {
		msgCopy := *msg
		out = append(out, &msgCopy)
	}
	return out, nil
}

// CountChats returns the total number of chats.
func (s *MemoryStore) CountChats(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.chats)), nil
}

// DeleteChatsOlderThan removes chats whose last update predates the cutoff.
func (s *MemoryStore) DeleteChatsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, chat := range s.chats {
		if chat.UpdatedAt.Before(cutoff) {
			delete(s.chats, id)
			delete(s.messages, id)
			deleted++
		}
	}
	return deleted, nil
}

// DeleteOldestChats removes the n least recently updated chats.
func (s *MemoryStore) DeleteOldestChats(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chats := make([]*history.Chat, 0, len(s.chats))
	for _, chat := range s.chats {
		chats = append(chats, chat)
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.Before(chats[j].UpdatedAt)
	})

	var deleted int64
	for _, chat := range chats {
		if deleted >= n {
			break
		}
		delete(s.chats, chat.ID)
		delete(s.messages, chat.ID)
		deleted++
	}
	return deleted, nil
}

// Close releases resources held by the store.
func (s *MemoryStore) Close() error {
	return nil
}
