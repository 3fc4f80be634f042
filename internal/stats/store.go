// Package stats persists reading history in a local SQLite database.
package stats

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Session is one finished reading run.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	WordsRead int       `json:"words_read"`
	WPM       int       `json:"wpm"`
	Source    string    `json:"source"`
}

// Totals aggregates all recorded sessions.
type Totals struct {
	Sessions  int
	WordsRead int
	TimeRead  time.Duration
}

// Store records reading sessions in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the stats database at dbPath, creating parent
// directories as needed.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("stats database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create stats directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open stats database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			words_read INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			source TEXT NOT NULL DEFAULT ''
		);
	`); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}

	if _, err := s.db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)"); err != nil {
		return fmt.Errorf("create sessions index: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordSession stores one finished run. Sessions with no words read are
// skipped so that opening and immediately quitting leaves no trace.
func (s *Store) RecordSession(sess Session) error {
	if sess.WordsRead <= 0 {
		return nil
	}
	if sess.ID == "" {
		sess.ID = newSessionID()
	}

	_, err := s.db.Exec(
		`INSERT INTO sessions(id, started_at, ended_at, words_read, wpm, source) VALUES(?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.StartedAt.UTC().Format(time.RFC3339Nano),
		sess.EndedAt.UTC().Format(time.RFC3339Nano),
		sess.WordsRead,
		sess.WPM,
		sess.Source,
	)
	if err != nil {
		return fmt.Errorf("record session %s: %w", sess.ID, err)
	}
	return nil
}

// Totals returns lifetime aggregates across every recorded session.
func (s *Store) Totals() (Totals, error) {
	rows, err := s.db.Query(`SELECT started_at, ended_at, words_read FROM sessions`)
	if err != nil {
		return Totals{}, fmt.Errorf("query totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var t Totals
	for rows.Next() {
		var startedAt, endedAt string
		var words int
		if err := rows.Scan(&startedAt, &endedAt, &words); err != nil {
			return Totals{}, fmt.Errorf("scan totals row: %w", err)
		}
		start, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return Totals{}, fmt.Errorf("parse started_at: %w", err)
		}
		end, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return Totals{}, fmt.Errorf("parse ended_at: %w", err)
		}
		t.Sessions++
		t.WordsRead += words
		if d := end.Sub(start); d > 0 {
			t.TimeRead += d
		}
	}
	if err := rows.Err(); err != nil {
		return Totals{}, fmt.Errorf("iterate totals rows: %w", err)
	}
	return t, nil
}

// Recent returns the latest sessions, newest first.
func (s *Store) Recent(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, started_at, ended_at, words_read, wpm, source
		 FROM sessions
		 ORDER BY started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]Session, 0, limit)
	for rows.Next() {
		var sess Session
		var startedAt, endedAt string
		if err := rows.Scan(&sess.ID, &startedAt, &endedAt, &sess.WordsRead, &sess.WPM, &sess.Source); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		sess.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return sessions, nil
}

func newSessionID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf[:])
}
