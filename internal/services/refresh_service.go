// Package services orchestrates the fetch/normalize/aggregate pipeline
// between the provider, the in-memory store, and the settings backend.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/epalmerini/cardspend/internal/amqp"
	"github.com/epalmerini/cardspend/internal/core"
	"github.com/epalmerini/cardspend/internal/provider"
	"github.com/epalmerini/cardspend/internal/settings"
	"github.com/epalmerini/cardspend/internal/store"
)

// Publisher is the outbound notification hook. A nil publisher disables
// notifications without changing the refresh path.
type Publisher interface {
	PublishDatasetRefreshed(ctx context.Context, msg *amqp.DatasetRefreshedMessage) error
}

// RefreshService rebuilds the cached dataset from the provider. Concurrent
// refreshes for the same window collapse into a single upstream fetch.
type RefreshService struct {
	source           provider.Source
	store            *store.Store
	settings         settings.Store
	publisher        Publisher
	fallbackCurrency string

	group singleflight.Group
	now   func() time.Time
}

// NewRefreshService wires the pipeline. fallbackCurrency is applied to
// transactions whose amount string cannot be parsed; empty selects the
// default.
func NewRefreshService(source provider.Source, st *store.Store, settingsStore settings.Store, publisher Publisher, fallbackCurrency string) *RefreshService {
	if fallbackCurrency == "" {
		fallbackCurrency = core.DefaultCurrency
	}
	return &RefreshService{
		source:           source,
		store:            st,
		settings:         settingsStore,
		publisher:        publisher,
		fallbackCurrency: fallbackCurrency,
		now:              time.Now,
	}
}

// Refresh rebuilds the dataset for the persisted window.
func (s *RefreshService) Refresh(ctx context.Context) (core.Dataset, error) {
	saved, err := s.settings.Load(ctx)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("load settings: %w", err)
	}
	return s.RefreshWindow(ctx, saved.Window())
}

// RefreshWindow rebuilds the dataset for an explicit window. On failure the
// previously served dataset stays in place.
func (s *RefreshService) RefreshWindow(ctx context.Context, window core.Window) (core.Dataset, error) {
	if err := window.Validate(); err != nil {
		return core.Dataset{}, err
	}

	key := window.Start + ".." + window.End
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.rebuild(ctx, window)
	})
	if err != nil {
		return core.Dataset{}, err
	}
	return v.(core.Dataset), nil
}

// UpdateWindow persists a new window and then refreshes against it. The
// settings write happens first so a failed refresh still remembers the
// window for the next attempt.
func (s *RefreshService) UpdateWindow(ctx context.Context, window core.Window) (core.Dataset, error) {
	if err := window.Validate(); err != nil {
		return core.Dataset{}, err
	}

	next := settings.Settings{StartDate: window.Start, EndDate: window.End}
	if err := s.settings.Save(ctx, next); err != nil {
		return core.Dataset{}, fmt.Errorf("save settings: %w", err)
	}
	return s.RefreshWindow(ctx, window)
}

// Settings returns the persisted window.
func (s *RefreshService) Settings(ctx context.Context) (settings.Settings, error) {
	return s.settings.Load(ctx)
}

func (s *RefreshService) rebuild(ctx context.Context, window core.Window) (core.Dataset, error) {
	started := s.now()
	slog.InfoContext(ctx, "Refreshing dataset", "start", window.Start, "end", window.End)

	balance, currency, err := s.source.FetchBalance(ctx)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("fetch balance: %w", err)
	}

	activities, err := s.source.FetchActivities(ctx, window)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("fetch activities: %w", err)
	}

	activities = core.DedupeActivities(activities)
	transactions := core.DedupeTransactions(core.NormalizeAll(activities, s.fallbackCurrency))
	core.SortByDateDesc(transactions)
	dailyTotals := core.Aggregate(transactions)

	dataset := core.Dataset{
		Activities:   activities,
		Transactions: transactions,
		DailyTotals:  dailyTotals,
		Balance:      balance,
		Currency:     currency,
		DataWindow:   window,
		LastUpdated:  s.now(),
	}
	s.store.Replace(dataset)

	slog.InfoContext(ctx, "Dataset refreshed",
		"transactions", len(transactions),
		"days", len(dailyTotals),
		"elapsed", s.now().Sub(started))

	s.publishRefreshed(ctx, dataset)
	return dataset, nil
}

func (s *RefreshService) publishRefreshed(ctx context.Context, ds core.Dataset) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewDatasetRefreshedMessage(
		ds.DataWindow.Start,
		ds.DataWindow.End,
		len(ds.Transactions),
		len(ds.DailyTotals),
		ds.LastUpdated,
	)
	if err := s.publisher.PublishDatasetRefreshed(ctx, msg); err != nil {
		// Notifications never fail a refresh; the dataset is already live
		slog.ErrorContext(ctx, "Failed to publish refresh message", "error", err)
	}
}
