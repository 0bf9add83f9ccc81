package server

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/medlink/medlink-tui/session"
)

// Store persists conversation messages in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dsn and runs migrations.
// Use ":memory:" for an ephemeral store.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			role TEXT NOT NULL,
			original_text TEXT NOT NULL,
			translated_text TEXT NOT NULL DEFAULT '',
			timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a new message and returns it with its assigned ID.
func (s *Store) Insert(ctx context.Context, role, original, translated string) (session.Message, error) {
	ts := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (role, original_text, translated_text, timestamp) VALUES (?, ?, ?, ?)`,
		role, original, translated, ts)
	if err != nil {
		return session.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return session.Message{}, err
	}
	return session.Message{
		ID:             id,
		Role:           session.Role(role),
		OriginalText:   original,
		TranslatedText: translated,
		Timestamp:      ts,
	}, nil
}

// List returns all messages in insertion order.
func (s *Store) List(ctx context.Context) ([]session.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, original_text, translated_text, timestamp FROM messages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// Search returns messages whose original or translated text contains
// keyword, case-insensitively, in insertion order.
func (s *Store) Search(ctx context.Context, keyword string) ([]session.Message, error) {
	pattern := "%" + keyword + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, original_text, translated_text, timestamp FROM messages
		 WHERE original_text LIKE ? OR translated_text LIKE ? ORDER BY id`,
		pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// GetByIDs returns the messages with the given IDs in insertion order.
// Unknown IDs are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []int64) ([]session.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, original_text, translated_text, timestamp FROM messages
		 WHERE id IN (`+placeholders+`) ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]session.Message, error) {
	var msgs []session.Message
	for rows.Next() {
		var m session.Message
		var role string
		if err := rows.Scan(&m.ID, &role, &m.OriginalText, &m.TranslatedText, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Role = session.Role(role)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
