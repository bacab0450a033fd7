// Package store persists conversation transcripts in SQLite. The adapter
// itself never touches storage; this log is what the CLI and replay tooling
// read conversation entries from.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"botique/internal/domain"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a conversation log backed by SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection for SQLite.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db, logger: logger}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id          TEXT PRIMARY KEY,
		bot_id      TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		timestamp   DATETIME NOT NULL,
		from_bot    INTEGER NOT NULL,
		message     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id, timestamp);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id     TEXT PRIMARY KEY,
		first_name  TEXT,
		last_name   TEXT,
		profile_pic TEXT,
		locale      TEXT,
		timezone    INTEGER DEFAULT 0,
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Append records one conversation entry. The message body (user or bot
// message, per FromBot) is stored as JSON.
func (s *SQLiteStore) Append(ctx context.Context, conv domain.UserConversation) error {
	var body any
	if conv.FromBot {
		body = conv.Bot
	} else {
		body = conv.User
	}
	message, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal conversation message: %w", err)
	}

	if conv.Timestamp.IsZero() {
		conv.Timestamp = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO conversations (id, bot_id, user_id, timestamp, from_bot, message)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		conv.ID, conv.BotID, conv.UserID, conv.Timestamp, conv.FromBot, string(message),
	)
	return err
}

// List returns up to limit entries for a user, oldest first.
func (s *SQLiteStore) List(ctx context.Context, userID string, limit int) ([]domain.UserConversation, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bot_id, user_id, timestamp, from_bot, message
		 FROM conversations WHERE user_id = ?
		 ORDER BY timestamp ASC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.UserConversation
	for rows.Next() {
		var (
			conv    domain.UserConversation
			message string
		)
		if err := rows.Scan(&conv.ID, &conv.BotID, &conv.UserID, &conv.Timestamp, &conv.FromBot, &message); err != nil {
			return nil, err
		}
		if err := unmarshalMessage(&conv, message); err != nil {
			s.logger.Warn("skipping undecodable conversation entry", "id", conv.ID, "err", err)
			continue
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// Get returns one entry by id, or nil when absent.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.UserConversation, error) {
	var (
		conv    domain.UserConversation
		message string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, bot_id, user_id, timestamp, from_bot, message FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.BotID, &conv.UserID, &conv.Timestamp, &conv.FromBot, &message)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalMessage(&conv, message); err != nil {
		return nil, err
	}
	return &conv, nil
}

func unmarshalMessage(conv *domain.UserConversation, message string) error {
	if conv.FromBot {
		var bot domain.BotMessage
		if err := json.Unmarshal([]byte(message), &bot); err != nil {
			return err
		}
		conv.Bot = &bot
		return nil
	}
	var user domain.UserMessage
	if err := json.Unmarshal([]byte(message), &user); err != nil {
		return err
	}
	conv.User = &user
	return nil
}

// SaveProfile upserts a user's display profile.
func (s *SQLiteStore) SaveProfile(ctx context.Context, userID string, profile domain.ChatUserProfile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, first_name, last_name, profile_pic, locale, timezone, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   first_name=excluded.first_name, last_name=excluded.last_name,
		   profile_pic=excluded.profile_pic, locale=excluded.locale,
		   timezone=excluded.timezone, updated_at=excluded.updated_at`,
		userID, profile.FirstName, profile.LastName, profile.ProfilePic, profile.Locale, profile.Timezone, time.Now(),
	)
	return err
}

// Profile returns a user's display profile; absent users get the zero
// profile so composition can proceed without a name.
func (s *SQLiteStore) Profile(ctx context.Context, userID string) (domain.ChatUserProfile, error) {
	var p domain.ChatUserProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT first_name, last_name, profile_pic, locale, timezone FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.FirstName, &p.LastName, &p.ProfilePic, &p.Locale, &p.Timezone)
	if err == sql.ErrNoRows {
		return domain.ChatUserProfile{}, nil
	}
	if err != nil {
		return domain.ChatUserProfile{}, err
	}
	return p, nil
}

// Prune deletes entries older than the retention window.
func (s *SQLiteStore) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
