package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a chat or message does not exist
var ErrNotFound = errors.New("not found")

// DefaultTitle is the sentinel title of a freshly created chat; it is
// replaced once after the first user turn.
const DefaultTitle = "New chat"

// Chat is one conversation. Summary is the rolling summary of history
// older than the checkpoint; SummaryUntilMessageID is the id of the
// last message folded into it. The two always change together.
type Chat struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	Title                 string    `json:"title"`
	Summary               string    `json:"summary"`
	SummaryUntilMessageID string    `json:"summary_until_message_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Message is one immutable chat message. Content holds plain text or
// the JSON content union (see internal/content). Seq is the store
// insertion order and breaks CreatedAt ties.
type Message struct {
	Seq       int64     `json:"seq"`
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite connection with chat/message queries
type Store struct {
	db *sql.DB
}

// NewStore creates a Store around an open database connection
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection (used by tests)
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateChat inserts a new chat owned by userID
func (s *Store) CreateChat(ctx context.Context, userID, title string) (*Chat, error) {
	if title == "" {
		title = DefaultTitle
	}
	id := uuid.New().String()
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (id, user_id, title, summary, created_at, updated_at) VALUES (?, ?, ?, '', ?, ?)`,
		id, userID, title, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return &Chat{
		ID:        id,
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Unix(now, 0),
		UpdatedAt: time.Unix(now, 0),
	}, nil
}

// GetChat returns a chat by id
func (s *Store) GetChat(ctx context.Context, id string) (*Chat, error) {
	var c Chat
	var checkpoint sql.NullString
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, summary, summary_until_message_id, created_at, updated_at FROM chats WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.UserID, &c.Title, &c.Summary, &checkpoint, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	c.SummaryUntilMessageID = checkpoint.String
	c.CreatedAt = time.Unix(createdAt, 0)
	c.UpdatedAt = time.Unix(updatedAt, 0)
	return &c, nil
}

// ListChats returns a user's chats, most recently updated first
func (s *Store) ListChats(ctx context.Context, userID string) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, summary, summary_until_message_id, created_at, updated_at
		 FROM chats WHERE user_id = ? ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var c Chat
		var checkpoint sql.NullString
		var createdAt, updatedAt int64
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Summary, &checkpoint, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		c.SummaryUntilMessageID = checkpoint.String
		c.CreatedAt = time.Unix(createdAt, 0)
		c.UpdatedAt = time.Unix(updatedAt, 0)
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// UpdateChatTitle renames a chat
func (s *Store) UpdateChatTitle(ctx context.Context, id, title string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE chats SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update chat title: %w", err)
	}
	return nil
}

// UpdateChatSummary persists a new rolling summary together with the
// checkpoint it covers. The pair is written in one statement so no
// reader ever observes one advanced without the other.
func (s *Store) UpdateChatSummary(ctx context.Context, chatID, summary, untilMessageID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE chats SET summary = ?, summary_until_message_id = ?, updated_at = ? WHERE id = ?`,
		summary, untilMessageID, time.Now().Unix(), chatID,
	)
	if err != nil {
		return fmt.Errorf("failed to update chat summary: %w", err)
	}
	return nil
}

// TouchChat bumps a chat's updated_at
func (s *Store) TouchChat(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE chats SET updated_at = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}

// InsertMessage appends an immutable message to a chat
func (s *Store) InsertMessage(ctx context.Context, chatID, userID, role, cnt string) (*Message, error) {
	id := uuid.New().String()
	now := time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, chat_id, user_id, role, content, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, chatID, userID, role, cnt, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read message seq: %w", err)
	}
	return &Message{
		Seq:       seq,
		ID:        id,
		ChatID:    chatID,
		UserID:    userID,
		Role:      role,
		Content:   cnt,
		CreatedAt: time.Unix(now, 0),
	}, nil
}

// GetMessage returns a message by id
func (s *Store) GetMessage(ctx context.Context, id string) (*Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT seq, id, chat_id, user_id, role, content, created_at FROM messages WHERE id = ?`, id)
	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListMessages returns a chat's full history, oldest first
func (s *Store) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	return s.queryMessages(ctx,
		`SELECT seq, id, chat_id, user_id, role, content, created_at
		 FROM messages WHERE chat_id = ?
		 ORDER BY created_at ASC, seq ASC`,
		chatID,
	)
}

// RecentMessages returns the last `limit` messages of a chat in
// chronological order. The store is queried newest-first (index
// friendly) and the slice is re-sorted oldest-first by the subquery.
func (s *Store) RecentMessages(ctx context.Context, chatID string, limit int) ([]Message, error) {
	return s.queryMessages(ctx,
		`SELECT seq, id, chat_id, user_id, role, content, created_at
		 FROM (
			SELECT * FROM messages
			WHERE chat_id = ?
			ORDER BY created_at DESC, seq DESC
			LIMIT ?
		 ) ORDER BY created_at ASC, seq ASC`,
		chatID, limit,
	)
}

// FirstMessages returns the chronologically first `limit` messages of a
// chat (the summarizer's bootstrap case).
func (s *Store) FirstMessages(ctx context.Context, chatID string, limit int) ([]Message, error) {
	return s.queryMessages(ctx,
		`SELECT seq, id, chat_id, user_id, role, content, created_at
		 FROM messages WHERE chat_id = ?
		 ORDER BY created_at ASC, seq ASC
		 LIMIT ?`,
		chatID, limit,
	)
}

// MessagesAfter returns every message of a chat strictly after the
// given message, oldest first, with no upper bound.
func (s *Store) MessagesAfter(ctx context.Context, chatID string, after *Message) ([]Message, error) {
	return s.queryMessages(ctx,
		`SELECT seq, id, chat_id, user_id, role, content, created_at
		 FROM messages
		 WHERE chat_id = ? AND (created_at > ? OR (created_at = ? AND seq > ?))
		 ORDER BY created_at ASC, seq ASC`,
		chatID, after.CreatedAt.Unix(), after.CreatedAt.Unix(), after.Seq,
	)
}

func (s *Store) queryMessages(ctx context.Context, query string, args ...any) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var createdAt int64
		if err := rows.Scan(&msg.Seq, &msg.ID, &msg.ChatID, &msg.UserID, &msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, err
		}
		msg.CreatedAt = time.Unix(createdAt, 0)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*Message, error) {
	var msg Message
	var createdAt int64
	if err := row.Scan(&msg.Seq, &msg.ID, &msg.ChatID, &msg.UserID, &msg.Role, &msg.Content, &createdAt); err != nil {
		return nil, err
	}
	msg.CreatedAt = time.Unix(createdAt, 0)
	return &msg, nil
}
