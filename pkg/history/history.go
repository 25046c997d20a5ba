// Package history persists chat transcripts so sessions can be resumed and
// reviewed after the process exits.
//
// A Chat groups an ordered list of Messages. Messages record what was said,
// which model and provider produced assistant turns, token usage, and whether
// the turn was cut short mid-stream. Storage backends implement the Store
// interface; the sqlite backend in the storage subpackage is the production
// one. Everything in the chat pipeline accepts a nil Store, in which case
// transcripts simply are not kept.
package history

import (
	"context"
	"fmt"
	"time"
)

// Chat is one conversation: a titled container for an ordered message list.
type Chat struct {
	// ID is a UUID assigned when the chat is created.
	ID string `json:"id"`

	// Title is a short human-readable label, typically derived from the
	// first user message.
	Title string `json:"title"`

	// CreatedAt is when the chat was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when a message was last appended.
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one turn of a conversation as stored.
type Message struct {
	// ID is a UUID assigned when the message is appended.
	ID string `json:"id"`

	// ChatID identifies the chat this message belongs to.
	ChatID string `json:"chat_id"`

	// Role is the speaker: "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text. For an assistant turn that was cut
	// short this holds the partial text that was delivered.
	Content string `json:"content"`

	// Model and Provider record which backend produced an assistant turn.
	// Empty on user and system messages.
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"`

	// FinishReason is the provider's stop reason for assistant turns.
	FinishReason string `json:"finish_reason,omitempty"`

	// Token usage reported by the provider, when available.
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`

	// Partial marks an assistant turn whose stream ended before the
	// terminal event. The content up to the interruption is still kept.
	Partial bool `json:"partial,omitempty"`

	// CreatedAt is when the message was appended.
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence contract for chat transcripts.
type Store interface {
	// CreateChat creates a new chat with the given title and returns it
	// with its assigned id and timestamps.
	CreateChat(ctx context.Context, title string) (*Chat, error)

	// GetChat returns the chat with the given id, or nil when it does
	// not exist.
	GetChat(ctx context.Context, id string) (*Chat, error)

	// ListChats returns chats ordered by most recently updated first.
	// A limit of 0 applies a backend default.
	ListChats(ctx context.Context, limit int) ([]*Chat, error)

	// AppendMessage appends a message to its chat. The store assigns the
	// message id and timestamp when unset and bumps the chat's UpdatedAt.
	AppendMessage(ctx context.Context, msg *Message) error

	// Messages returns a chat's messages in append order.
	Messages(ctx context.Context, chatID string) ([]*Message, error)

	// CountChats returns the total number of chats.
	CountChats(ctx context.Context) (int64, error)

	// DeleteChatsOlderThan removes chats (and their messages) whose last
	// update predates the cutoff. Returns the number of chats deleted.
	DeleteChatsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldestChats removes the n least recently updated chats (and
	// their messages). Returns the number of chats deleted.
	DeleteOldestChats(ctx context.Context, n int64) (int64, error)

	// Close releases resources held by the store.
	Close() error
}

// StorageError represents an error from a history storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory", ...)
	Operation string // Operation that failed ("append", "query", "delete", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("history storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
