// Package mock generates realistic fixture activities for development
// without hitting the live provider.
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/epalmerini/cardspend/internal/core"
)

type merchant struct {
	name      string
	minAmount int
	maxAmount int
	weight    float64
}

// Typical Tokyo card spend. Weights skew towards delivery and konbini.
var merchants = []merchant{
	{"Uber Eats", 1200, 4000, 0.3},
	{"7-Eleven", 300, 1500, 0.2},
	{"FamilyMart", 400, 1200, 0.15},
	{"McDonald's", 800, 2000, 0.15},
	{"Starbucks", 600, 1200, 0.1},
	{"Yoshinoya", 500, 1000, 0.1},
	{"Lawson", 200, 800, 0.15},
	{"Sukiya", 400, 900, 0.08},
	{"CoCo Ichibanya", 800, 1500, 0.05},
	{"Saizeriya", 700, 1800, 0.05},
	{"KFC Japan", 900, 2200, 0.04},
	{"Mos Burger", 800, 1600, 0.04},
	{"Doutor Coffee", 400, 800, 0.03},
	{"Matsuya", 500, 1200, 0.03},
	{"Uniqlo", 2000, 8000, 0.02},
}

const maxPerDay = 5

// Source is a seeded fixture generator implementing the provider port.
type Source struct {
	rng *rand.Rand
}

// New returns a generator seeded from the clock.
func New() *Source {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic generator for a given seed.
func NewSeeded(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

func (s *Source) FetchBalance(ctx context.Context) (core.Balance, string, error) {
	current := decimal.NewFromInt(120342)
	return core.Balance{
		Current:   current,
		Reserved:  decimal.Zero,
		Available: current,
	}, core.DefaultCurrency, nil
}

// FetchActivities produces card payments across the window, weekend-skewed,
// sorted most recent first like the live API returns them.
func (s *Source) FetchActivities(ctx context.Context, window core.Window) ([]core.RawActivity, error) {
	start, err := time.Parse("2006-01-02", window.Start)
	if err != nil {
		return nil, fmt.Errorf("parse window start: %w", err)
	}
	end, err := time.Parse("2006-01-02", window.End)
	if err != nil {
		return nil, fmt.Errorf("parse window end: %w", err)
	}

	var activities []core.RawActivity
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for i := 0; i < s.countForDay(day); i++ {
			m := s.pickMerchant()
			amount := m.minAmount + s.rng.Intn(m.maxAmount-m.minAmount+1)
			activities = append(activities, core.RawActivity{
				ID:            uuid.NewString(),
				Type:          core.PaymentType,
				Title:         fmt.Sprintf("<strong>%s</strong>", m.name),
				PrimaryAmount: fmt.Sprintf("%s %s", formatThousands(amount), core.DefaultCurrency),
				Status:        "COMPLETED",
				CreatedOn:     s.realisticTime(day).Format("2006-01-02T15:04:05.000Z"),
			})
		}
	}

	// Newest first.
	for i, j := 0, len(activities)-1; i < j; i, j = i+1, j-1 {
		activities[i], activities[j] = activities[j], activities[i]
	}
	return activities, nil
}

func (s *Source) countForDay(day time.Time) int {
	weekday := day.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday

	count := 0
	if s.rng.Float64() < 0.7 {
		count++
	}
	if isWeekend && s.rng.Float64() < 0.5 {
		count++
	}
	if s.rng.Float64() < 0.3 {
		count += 1 + s.rng.Intn(2)
	}
	if count > maxPerDay {
		count = maxPerDay
	}
	return count
}

func (s *Source) pickMerchant() merchant {
	total := 0.0
	for _, m := range merchants {
		total += m.weight
	}
	r := s.rng.Float64() * total
	for _, m := range merchants {
		r -= m.weight
		if r <= 0 {
			return m
		}
	}
	return merchants[0]
}

// realisticTime clusters purchases around meal and shopping hours.
func (s *Source) realisticTime(day time.Time) time.Time {
	var hour int
	if s.rng.Float64() < 0.6 {
		hour = 11 + s.rng.Intn(8)
	} else {
		hour = 8 + s.rng.Intn(14)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, s.rng.Intn(60), s.rng.Intn(60), 0, time.UTC)
}

func formatThousands(n int) string {
	raw := fmt.Sprintf("%d", n)
	if len(raw) <= 3 {
		return raw
	}
	var out []byte
	for i, c := range []byte(raw) {
		if i > 0 && (len(raw)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
