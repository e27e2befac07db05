package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/epalmerini/cardspend/internal/analytics"
	"github.com/epalmerini/cardspend/internal/core"
	"github.com/epalmerini/cardspend/internal/store"
)

type transactionsResponse struct {
	Transactions []core.Transaction          `json:"transactions"`
	DailyTotals  map[string]core.DailyBucket `json:"dailyTotals"`
	Period       core.Window                 `json:"period"`
	Currency     string                      `json:"currency"`
	Balance      core.Balance                `json:"balance"`
	LastUpdated  string                      `json:"lastUpdated"`
	DataWindow   core.Window                 `json:"dataWindow"`
	Cached       bool                        `json:"cached"`
}

// handleTransactions serves the cached dataset, optionally narrowed to an
// interval inside the fetched window. It never reaches upstream.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ds, err := s.store.Snapshot()
	if errors.Is(err, store.ErrNotReady) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:      "Data not available yet. Server is starting up or data fetch failed.",
			Suggestion: "Try again in a few seconds or check server logs.",
		})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to serve transaction data")
		return
	}

	requestedStart := r.URL.Query().Get("intervalStart")
	requestedEnd := r.URL.Query().Get("intervalEnd")

	transactions := ds.Transactions
	dailyTotals := ds.DailyTotals
	if requestedStart != "" || requestedEnd != "" {
		transactions, dailyTotals, err = core.FilterWindow(ds.Transactions, requestedStart, requestedEnd)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format. Please use YYYY-MM-DD format.")
			return
		}
	}

	period := core.Window{Start: requestedStart, End: requestedEnd}
	if period.Start == "" {
		period.Start = ds.DataWindow.Start
	}
	if period.End == "" {
		period.End = ds.DataWindow.End
	}

	writeJSON(w, http.StatusOK, transactionsResponse{
		Transactions: transactions,
		DailyTotals:  dailyTotals,
		Period:       period,
		Currency:     ds.Currency,
		Balance:      ds.Balance,
		LastUpdated:  ds.LastUpdated.Format(timestampLayout),
		DataWindow:   ds.DataWindow,
		Cached:       true,
	})
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type analyticsResponse struct {
	Categories  []analytics.CategorySpend `json:"categories"`
	Trend       []analytics.TrendPoint    `json:"trend"`
	Budget      analytics.BudgetMetrics   `json:"budget"`
	Forecast    []analytics.ForecastPoint `json:"forecast"`
	Alerts      []analytics.Alert         `json:"alerts"`
	Currency    string                    `json:"currency"`
	LastUpdated string                    `json:"lastUpdated"`
}

// handleAnalytics derives category, trend, budget, forecast, and alert views
// from the cached dataset.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ds, err := s.store.Snapshot()
	if errors.Is(err, store.ErrNotReady) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:      "Data not available yet. Server is starting up or data fetch failed.",
			Suggestion: "Try again in a few seconds or check server logs.",
		})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to serve analytics")
		return
	}

	now := s.now()
	categories := analytics.ByCategory(ds.Transactions, analytics.DefaultRules)
	budget := analytics.ComputeBudget(ds.Balance, ds.DailyTotals, ds.DataWindow, ds.Currency, now)

	var alerts []analytics.Alert
	if len(ds.Transactions) > 0 {
		alerts = analytics.Evaluate(ds.DailyTotals, categories, budget, now)
	}

	writeJSON(w, http.StatusOK, analyticsResponse{
		Categories:  categories,
		Trend:       analytics.Trend(ds.DailyTotals),
		Budget:      budget,
		Forecast:    analytics.Forecast(ds.DailyTotals, budget, now),
		Alerts:      alerts,
		Currency:    ds.Currency,
		LastUpdated: ds.LastUpdated.Format(timestampLayout),
	})
}

type resyncRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type resyncResponse struct {
	Success          bool        `json:"success"`
	Message          string      `json:"message"`
	LastUpdated      string      `json:"lastUpdated"`
	TransactionCount int         `json:"transactionCount"`
	DayCount         int         `json:"dayCount"`
	DataWindow       core.Window `json:"dataWindow"`
}

// handleResync triggers a refresh. A custom window in the body overrides the
// persisted one for this refresh only; the saved settings are untouched.
func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req resyncRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	saved, err := s.refresher.Settings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load settings error", "error", err)
		writeJSON(w, http.StatusInternalServerError, failureResponse("Failed to refresh data", err))
		return
	}

	window := saved.Window()
	if req.StartDate != "" {
		window.Start = req.StartDate
	}
	if req.EndDate != "" {
		window.End = req.EndDate
	}

	ds, err := s.refresher.RefreshWindow(r.Context(), window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Resync failed", "error", err, "start", window.Start, "end", window.End)
		writeJSON(w, http.StatusInternalServerError, failureResponse("Failed to refresh data", err))
		return
	}

	writeJSON(w, http.StatusOK, resyncResponse{
		Success:          true,
		Message:          "Data successfully refreshed",
		LastUpdated:      ds.LastUpdated.Format(timestampLayout),
		TransactionCount: len(ds.Transactions),
		DayCount:         len(ds.DailyTotals),
		DataWindow:       ds.DataWindow,
	})
}

type settingsBody struct {
	DataStartDate string `json:"dataStartDate"`
	DataEndDate   string `json:"dataEndDate"`
}

type settingsUpdateResponse struct {
	Success          bool         `json:"success"`
	Message          string       `json:"message"`
	Settings         settingsBody `json:"settings"`
	TransactionCount int          `json:"transactionCount"`
	DayCount         int          `json:"dayCount"`
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		saved, err := s.refresher.Settings(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Load settings error", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load settings")
			return
		}
		writeJSON(w, http.StatusOK, settingsBody{
			DataStartDate: saved.StartDate,
			DataEndDate:   saved.EndDate,
		})
	case http.MethodPost:
		s.handleUpdateSettings(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleUpdateSettings persists a new window and refreshes against it.
// Validation failures reject the request before anything is written.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body settingsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	window := core.Window{Start: body.DataStartDate, End: body.DataEndDate}
	switch err := window.Validate(); {
	case errors.Is(err, core.ErrMissingDates):
		writeError(w, http.StatusBadRequest, "Both dataStartDate and dataEndDate are required")
		return
	case errors.Is(err, core.ErrMisordered):
		writeError(w, http.StatusBadRequest, "Start date must be before end date")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "Invalid date format. Please use YYYY-MM-DD format.")
		return
	}

	ds, err := s.refresher.UpdateWindow(r.Context(), window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Settings update failed", "error", err, "start", window.Start, "end", window.End)
		writeJSON(w, http.StatusInternalServerError, failureResponse("Failed to update settings", err))
		return
	}

	writeJSON(w, http.StatusOK, settingsUpdateResponse{
		Success: true,
		Message: "Settings updated and data refreshed successfully",
		Settings: settingsBody{
			DataStartDate: window.Start,
			DataEndDate:   window.End,
		},
		TransactionCount: len(ds.Transactions),
		DayCount:         len(ds.DailyTotals),
	})
}

type healthResponse struct {
	Status      string `json:"status"`
	Configured  bool   `json:"configured"`
	Environment string `json:"environment"`
}

// handleHealth reports liveness regardless of data readiness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Configured:  s.configured,
		Environment: s.environment,
	})
}

type failureBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

func failureResponse(msg string, err error) failureBody {
	return failureBody{Success: false, Error: msg, Details: err.Error()}
}
