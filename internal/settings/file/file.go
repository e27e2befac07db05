// Package file persists settings as a JSON file next to the binary. This is
// the default backend; it needs no external services.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/epalmerini/cardspend/internal/settings"
)

type Store struct {
	path     string
	defaults settings.Settings

	mu sync.Mutex
}

func New(path string, defaults settings.Settings) *Store {
	return &Store{path: path, defaults: defaults}
}

// Load reads the settings file, creating it with the defaults on first run.
func (s *Store) Load(ctx context.Context) (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write(s.defaults); err != nil {
			return settings.Settings{}, fmt.Errorf("create settings file: %w", err)
		}
		slog.InfoContext(ctx, "Created settings file with defaults",
			"path", s.path,
			"start", s.defaults.StartDate,
			"end", s.defaults.EndDate)
		return s.defaults, nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	var loaded settings.Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		return settings.Settings{}, fmt.Errorf("parse settings file: %w", err)
	}
	if loaded.StartDate == "" || loaded.EndDate == "" {
		return s.defaults, nil
	}
	return loaded, nil
}

func (s *Store) Save(ctx context.Context, next settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(next); err != nil {
		return fmt.Errorf("save settings file: %w", err)
	}
	slog.InfoContext(ctx, "Settings saved", "path", s.path, "start", next.StartDate, "end", next.EndDate)
	return nil
}

func (s *Store) write(v settings.Settings) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
