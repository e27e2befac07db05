// Package wise implements the provider port against the Wise REST API:
// bearer-token auth, a balances endpoint, and cursor-paginated activity
// listing.
package wise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/epalmerini/cardspend/internal/core"
)

const (
	productionBaseURL = "https://api.wise.com"
	sandboxBaseURL    = "https://api.sandbox.transferwise.tech"

	// maxPages bounds cursor pagination against a provider that never stops
	// returning cursors.
	maxPages = 100

	defaultTimeout = 30 * time.Second
)

// ErrNotConfigured reports missing credentials. Live refreshes cannot work
// without them; the process itself keeps running.
var ErrNotConfigured = errors.New("provider not configured: API token and profile ID are required")

// Config carries the client settings. BaseURL overrides the environment
// selection when set; Timeout falls back to a 30s default.
type Config struct {
	Environment string // "production" or "sandbox"
	BaseURL     string
	Token       string
	ProfileID   string
	Timeout     time.Duration
}

// Client is a provider.Source backed by the live API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	profileID  string
}

func New(cfg Config) (*Client, error) {
	if cfg.Token == "" || cfg.ProfileID == "" {
		return nil, ErrNotConfigured
	}
	base := cfg.BaseURL
	if base == "" {
		if cfg.Environment == "production" {
			base = productionBaseURL
		} else {
			base = sandboxBaseURL
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		token:      cfg.Token,
		profileID:  cfg.ProfileID,
	}, nil
}

type balanceEntry struct {
	Amount struct {
		Value    decimal.Decimal `json:"value"`
		Currency string          `json:"currency"`
	} `json:"amount"`
	ReservedAmount struct {
		Value decimal.Decimal `json:"value"`
	} `json:"reservedAmount"`
}

// FetchBalance reads the STANDARD balances and returns the primary one.
func (c *Client) FetchBalance(ctx context.Context) (core.Balance, string, error) {
	endpoint := fmt.Sprintf("%s/v3/profiles/%s/balances?types=STANDARD", c.baseURL, url.PathEscape(c.profileID))

	var entries []balanceEntry
	if err := c.getJSON(ctx, endpoint, &entries); err != nil {
		return core.Balance{}, "", fmt.Errorf("fetch balances: %w", err)
	}
	if len(entries) == 0 {
		return core.Balance{}, "", errors.New("no balances found")
	}

	primary := entries[0]
	balance := core.Balance{
		Current:   primary.Amount.Value,
		Reserved:  primary.ReservedAmount.Value,
		Available: primary.Amount.Value.Sub(primary.ReservedAmount.Value),
	}
	return balance, primary.Amount.Currency, nil
}

type activityPage struct {
	Activities []core.RawActivity `json:"activities"`
	Cursor     string             `json:"cursor"`
}

// FetchActivities follows cursor pagination until the cursor is absent, a
// page comes back empty, or the page cap is reached.
func (c *Client) FetchActivities(ctx context.Context, window core.Window) ([]core.RawActivity, error) {
	since := window.Start + "T00:00:00.000Z"
	until := window.End + "T23:59:59.999Z"

	var all []core.RawActivity
	cursor := ""
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("since", since)
		params.Set("until", until)
		if cursor != "" {
			params.Set("nextCursor", cursor)
		}
		endpoint := fmt.Sprintf("%s/v1/profiles/%s/activities?%s", c.baseURL, url.PathEscape(c.profileID), params.Encode())

		var resp activityPage
		if err := c.getJSON(ctx, endpoint, &resp); err != nil {
			return nil, fmt.Errorf("fetch activities page %d: %w", page, err)
		}
		all = append(all, resp.Activities...)

		if resp.Cursor == "" || len(resp.Activities) == 0 {
			break
		}
		if page >= maxPages {
			slog.WarnContext(ctx, "Reached activity page limit", "max_pages", maxPages, "fetched", len(all))
			break
		}
		cursor = resp.Cursor
	}

	slog.DebugContext(ctx, "Fetched activities", "count", len(all), "since", since, "until", until)
	return all, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
