// Package sqlite persists settings in a SQLite database, for deployments
// that already mount one.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/epalmerini/cardspend/internal/settings"

	_ "modernc.org/sqlite"
)

type Store struct {
	db       *sql.DB
	defaults settings.Settings
}

func New(dbPath string, defaults settings.Settings) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, defaults: defaults}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (settings.Settings, error) {
	var loaded settings.Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT start_date, end_date FROM settings WHERE id = 1`,
	).Scan(&loaded.StartDate, &loaded.EndDate)
	if errors.Is(err, sql.ErrNoRows) {
		return s.defaults, nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return loaded, nil
}

func (s *Store) Save(ctx context.Context, next settings.Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (id, start_date, end_date, updated_at)
		 VALUES (1, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		 ON CONFLICT (id) DO UPDATE SET
		   start_date = excluded.start_date,
		   end_date = excluded.end_date,
		   updated_at = excluded.updated_at`,
		next.StartDate, next.EndDate)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	slog.InfoContext(ctx, "Settings saved to SQLite", "start", next.StartDate, "end", next.EndDate)
	return nil
}
