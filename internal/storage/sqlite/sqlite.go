// Package sqlite provides a SQLite-backed implementation of the storage.SessionStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/triptangle/internal/models"
	"github.com/mmynk/triptangle/internal/storage"
)

// Ensure SQLiteStore implements storage.SessionStore
var _ storage.SessionStore = (*SQLiteStore)(nil)

// SQLiteStore implements storage.SessionStore using SQLite.
//
// The session lives in a single row, so the user and the token are always written and
// read by one statement.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored session with the given user and token.
func (s *SQLiteStore) Save(ctx context.Context, user models.AuthenticatedUser, token string) error {
	if token == "" {
		return errors.New("refusing to save session without a token")
	}
	if user.ID == 0 {
		return errors.New("refusing to save session without a user id")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session (id, token, token_type, user_json, saved_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			token_type = excluded.token_type,
			user_json = excluded.user_json,
			saved_at = excluded.saved_at
	`, token, "bearer", string(userJSON), s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load returns the stored session. A missing row or an undecodable user record both
// yield storage.ErrNoSession.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Session, error) {
	var (
		sess     models.Session
		userJSON string
		savedAt  int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT token, token_type, user_json, saved_at FROM session WHERE id = 1",
	).Scan(&sess.Token, &sess.TokenType, &userJSON, &savedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal([]byte(userJSON), &sess.User); err != nil {
		slog.Debug("Discarding malformed stored session", "error", err)
		return nil, storage.ErrNoSession
	}
	if sess.Token == "" || sess.User.ID == 0 {
		slog.Debug("Discarding incomplete stored session")
		return nil, storage.ErrNoSession
	}
	sess.SavedAt = time.Unix(savedAt, 0)

	return &sess, nil
}

// Clear removes the stored session.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when no session is stored.
func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	sess, err := s.Load(ctx)
	if errors.Is(err, storage.ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// CurrentUser returns the stored user, if any. Storage errors are logged and reported
// as "no user" so callers can treat them like a logged-out state.
func (s *SQLiteStore) CurrentUser(ctx context.Context) (*models.AuthenticatedUser, bool) {
	sess, err := s.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSession) {
			slog.Warn("Failed to read current user", "error", err)
		}
		return nil, false
	}
	return &sess.User, true
}
