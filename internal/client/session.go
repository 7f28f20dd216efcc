package client

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSession is returned by Load when nobody is logged in or the stored
// token has expired.
var ErrNoSession = errors.New("not logged in")

// Session is a stored login.
type Session struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// SessionStore keeps the current login in a SQLite file so the CLI stays
// logged in between invocations.
type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultSessionDir returns ~/.workoutctl.
func DefaultSessionDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home dir: %w", err)
	}
	return filepath.Join(home, ".workoutctl"), nil
}

// OpenSessionStore opens (or creates) the session database at dir/session.db.
func OpenSessionStore(dir string) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating session dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "session.db"))
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		token      TEXT NOT NULL,
		email      TEXT NOT NULL,
		expires_at INTEGER NOT NULL,
		saved_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session table: %w", err)
	}

	return &SessionStore{db: db, now: time.Now}, nil
}

// Save replaces the stored session.
func (s *SessionStore) Save(sess Session) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO session (id, token, email, expires_at) VALUES (1, ?, ?, ?)`,
		sess.Token, sess.Email, sess.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the stored session, or ErrNoSession if there is none or it
// has expired.
func (s *SessionStore) Load() (Session, error) {
	var (
		sess Session
		exp  int64
	)
	err := s.db.QueryRow(`SELECT token, email, expires_at FROM session WHERE id = 1`).
		Scan(&sess.Token, &sess.Email, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("loading session: %w", err)
	}
	sess.ExpiresAt = time.Unix(exp, 0).UTC()
	if !s.now().Before(sess.ExpiresAt) {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// Clear forgets the stored session.
func (s *SessionStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Close closes the session database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
