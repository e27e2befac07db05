// Package settings defines the persistence port for the tracking window.
// Adapters live in the file (JSON file) and sqlite subpackages.
package settings

import (
	"context"

	"github.com/epalmerini/cardspend/internal/core"
)

// Settings is the persisted dashboard configuration. The window survives
// restarts so resyncs pick up where the user left the dashboard.
type Settings struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Window converts the persisted dates into a core window.
func (s Settings) Window() core.Window {
	return core.Window{Start: s.StartDate, End: s.EndDate}
}

// Store loads and saves settings. Load returns the defaults passed at
// construction when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}
