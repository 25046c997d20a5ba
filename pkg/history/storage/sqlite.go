package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"mercator-hq/hermes/pkg/history"
)

// SQLiteConfig contains configuration for the SQLite history store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements history.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger

	// prepared statements for the hot append path
	insertChatStmt    *sql.Stmt
	getChatStmt       *sql.Stmt
	insertMessageStmt *sql.Stmt
	touchChatStmt     *sql.Stmt
}

// NewSQLiteStore creates a new SQLite history store.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "history.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite history store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return history.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return history.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return history.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return history.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return s.prepareStatements()
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertChatStmt, err = s.db.Prepare(`
		INSERT INTO chats (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return history.NewStorageError("sqlite", "prepare_insert_chat", err)
	}

	s.getChatStmt, err = s.db.Prepare(`
		SELECT id, title, created_at, updated_at
		FROM chats
		WHERE id = ?
	`)
	if err != nil {
		return history.NewStorageError("sqlite", "prepare_get_chat", err)
	}

	s.insertMessageStmt, err = s.db.Prepare(`
		INSERT INTO messages (
			id, chat_id, role, content, model, provider, finish_reason,
			prompt_tokens, completion_tokens, total_tokens, partial, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return history.NewStorageError("sqlite", "prepare_insert_message", err)
	}

	s.touchChatStmt, err = s.db.Prepare(`
		UPDATE chats SET updated_at = ? WHERE id = ?
	`)
	if err != nil {
		return history.NewStorageError("sqlite", "prepare_touch_chat", err)
	}

	return nil
}

// CreateChat creates a new chat with the given title.
func (s *SQLiteStore) CreateChat(ctx context.Context, title string) (*history.Chat, error) {
	now := time.Now()
	chat := &history.Chat{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.insertChatStmt.ExecContext(ctx, chat.ID, chat.Title, now.Unix(), now.Unix())
	if err != nil {
		return nil, history.NewStorageError("sqlite", "create_chat", err)
	}

	return chat, nil
}

// GetChat returns the chat with the given id, or nil when it does not exist.
func (s *SQLiteStore) GetChat(ctx context.Context, id string) (*history.Chat, error) {
	var (
		chat      history.Chat
		createdAt int64
		updatedAt int64
	)

	err := s.getChatStmt.QueryRowContext(ctx, id).Scan(&chat.ID, &chat.Title, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, history.NewStorageError("sqlite", "get_chat", err)
	}

	chat.CreatedAt = time.Unix(createdAt, 0)
	chat.UpdatedAt = time.Unix(updatedAt, 0)
	return &chat, nil
}

// ListChats returns chats ordered by most recently updated first.
func (s *SQLiteStore) ListChats(ctx context.Context, limit int) ([]*history.Chat, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM chats
		ORDER BY updated_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "list_chats", err)
	}
	defer rows.Close()

	chats := []*history.Chat{}
	for rows.Next() {
		var (
			chat      history.Chat
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&chat.ID, &chat.Title, &createdAt, &updatedAt); err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		chat.CreatedAt = time.Unix(createdAt, 0)
		chat.UpdatedAt = time.Unix(updatedAt, 0)
		chats = append(chats, &chat)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "list_chats", err)
	}

	return chats, nil
}

// AppendMessage appends a message to its chat and bumps the chat's
// UpdatedAt, in one transaction.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *history.Message) error {
	if msg == nil {
		return history.NewStorageError("sqlite", "append", fmt.Errorf("message cannot be nil"))
	}
	if msg.ChatID == "" {
		return history.NewStorageError("sqlite", "append", fmt.Errorf("message chat id cannot be empty"))
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	// Convert empty strings to NULL for optional fields
	var modelVal, providerVal, finishVal interface{}
	if msg.Model != "" {
		modelVal = msg.Model
	}
	if msg.Provider != "" {
		providerVal = msg.Provider
	}
	if msg.FinishReason != "" {
		finishVal = msg.FinishReason
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return history.NewStorageError("sqlite", "append", err)
	}
	defer tx.Rollback()

	_, err = tx.StmtContext(ctx, s.insertMessageStmt).ExecContext(ctx,
		msg.ID, msg.ChatID, msg.Role, msg.Content,
		modelVal, providerVal, finishVal,
		msg.PromptTokens, msg.CompletionTokens, msg.TotalTokens,
		msg.Partial, msg.CreatedAt.Unix(),
	)
	if err != nil {
		return history.NewStorageError("sqlite", "append", err)
	}

	res, err := tx.StmtContext(ctx, s.touchChatStmt).ExecContext(ctx, msg.CreatedAt.Unix(), msg.ChatID)
	if err != nil {
		return history.NewStorageError("sqlite", "append", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return history.NewStorageError("sqlite", "append", err)
	}
	if affected == 0 {
		return history.NewStorageError("sqlite", "append",
			fmt.Errorf("chat %s does not exist", msg.ChatID))
	}

	if err := tx.Commit(); err != nil {
		return history.NewStorageError("sqlite", "append", err)
	}

	return nil
}

// Messages returns a chat's messages in append order.
func (s *SQLiteStore) Messages(ctx context.Context, chatID string) ([]*history.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, role, content, model, provider, finish_reason,
		       prompt_tokens, completion_tokens, total_tokens, partial, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY seq ASC
	`, chatID)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "messages", err)
	}
	defer rows.Close()

	messages := []*history.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "messages", err)
	}

	return messages, nil
}

// scanMessage scans one messages row.
func scanMessage(rows *sql.Rows) (*history.Message, error) {
	var (
		msg       history.Message
		model     sql.NullString
		provider  sql.NullString
		finish    sql.NullString
		createdAt int64
	)

	err := rows.Scan(
		&msg.ID, &msg.ChatID, &msg.Role, &msg.Content,
		&model, &provider, &finish,
		&msg.PromptTokens, &msg.CompletionTokens, &msg.TotalTokens,
		&msg.Partial, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	msg.Model = model.String
	msg.Provider = provider.String
	msg.FinishReason = finish.String
	msg.CreatedAt = time.Unix(createdAt, 0)
	return &msg, nil
}

// CountChats returns the total number of chats.
func (s *SQLiteStore) CountChats(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats`).Scan(&count)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteChatsOlderThan removes chats whose last update predates the cutoff,
// along with their messages.
func (s *SQLiteStore) DeleteChatsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.deleteChats(ctx, `
		SELECT id FROM chats WHERE updated_at < ?
	`, cutoff.Unix())
}

// DeleteOldestChats removes the n least recently updated chats, along with
// their messages.
func (s *SQLiteStore) DeleteOldestChats(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	return s.deleteChats(ctx, `
		SELECT id FROM chats ORDER BY updated_at ASC, rowid ASC LIMIT ?
	`, n)
}

// deleteChats removes the chats selected by the given subquery and their
// messages, in one transaction.
func (s *SQLiteStore) deleteChats(ctx context.Context, selectSQL string, arg interface{}) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM messages WHERE chat_id IN ("+selectSQL+")", arg); err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM chats WHERE id IN ("+selectSQL+")", arg)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	return deleted, nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertChatStmt, s.getChatStmt, s.insertMessageStmt, s.touchChatStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}

	if err := s.db.Close(); err != nil {
		return history.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite history store closed")
	return nil
}
