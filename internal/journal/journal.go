// Package journal keeps a durable event log of reaction dispatches and
// configuration reloads, read by the dashboard's log view.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

type Dispatch struct {
	ID        int64
	ChannelID string
	MessageID string
	AuthorID  string
	Rules     int
	Reactions int
	CreatedAt time.Time
}

type Reload struct {
	ID        int64
	Document  string
	CreatedAt time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Store) Migrate() error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}

	var files []string
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := migrations.ReadFile(path.Join("migrations", file))
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			if isIgnorableMigrationError(err) {
				continue
			}
			return fmt.Errorf("migration %s failed: %w", file, err)
		}
	}
	return nil
}

func (s *Store) AddDispatch(ctx context.Context, entry Dispatch) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dispatches (channel_id, message_id, author_id, rules, reactions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ChannelID, entry.MessageID, entry.AuthorID, entry.Rules, entry.Reactions, entry.CreatedAt.Unix())
	return err
}

func (s *Store) ListDispatches(ctx context.Context, since time.Time) ([]Dispatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, channel_id, message_id, author_id, rules, reactions, created_at
		FROM dispatches
		WHERE created_at >= ?
		ORDER BY created_at DESC
	`, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Dispatch
	for rows.Next() {
		var entry Dispatch
		var created int64
		if err := rows.Scan(&entry.ID, &entry.ChannelID, &entry.MessageID, &entry.AuthorID, &entry.Rules, &entry.Reactions, &created); err != nil {
			return nil, err
		}
		entry.CreatedAt = time.Unix(created, 0)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) AddReload(ctx context.Context, document string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reloads (document, created_at) VALUES (?, ?)
	`, document, time.Now().Unix())
	return err
}

func (s *Store) ListReloads(ctx context.Context, since time.Time) ([]Reload, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document, created_at FROM reloads
		WHERE created_at >= ?
		ORDER BY created_at DESC
	`, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Reload
	for rows.Next() {
		var entry Reload
		var created int64
		if err := rows.Scan(&entry.ID, &entry.Document, &created); err != nil {
			return nil, err
		}
		entry.CreatedAt = time.Unix(created, 0)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) Cleanup(ctx context.Context, retentionDays int) error {
	cutoff := time.Now().AddDate(0, 0, -retentionDays).Unix()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM dispatches WHERE created_at < ?`, cutoff); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM reloads WHERE created_at < ?`, cutoff)
	return err
}

func isIgnorableMigrationError(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "duplicate column name") || strings.Contains(message, "already exists")
}
