// Package storage provides storage backends for chat history.
//
// # Storage Backends
//
// The package implements the history.Store interface twice:
//
//   - SQLite: Embedded database for durable transcripts
//   - Memory: In-memory storage for testing
//
// # SQLite Backend
//
// The SQLite backend provides durable storage with:
//
//   - WAL mode for concurrent reads/writes
//   - Prepared statements on the append path
//   - Transactional message append (message insert + chat bump)
//   - Busy timeout for handling locks
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
//	    Path: "data/history.db",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	chat, err := store.CreateChat(ctx, "debugging session")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = store.AppendMessage(ctx, &history.Message{
//	    ChatID:  chat.ID,
//	    Role:    "user",
//	    Content: "why does this deadlock?",
//	})
//
// # Thread Safety
//
// Both backends are safe for concurrent use from multiple goroutines.
package storage
