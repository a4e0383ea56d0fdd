package lookup_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DigitalHerencia/court-jester/internal/cache"
	"github.com/DigitalHerencia/court-jester/internal/lookup"
)

type countingCorrections struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCorrections) Search(context.Context, lookup.Query) (lookup.InmateRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return lookup.InmateRecord{InmateNumber: "88123", Name: "Rodriguez, Carlos"}, nil
}

func (c *countingCorrections) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type emptyCourts struct{}

func (emptyCourts) Hearings(context.Context, string) ([]lookup.CourtEvent, error) {
	return []lookup.CourtEvent{}, nil
}

type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Two identical requests inside the freshness window share one scrape; a
// request just past the window triggers a fresh one.
func TestLookupCacheExpiryTriggersRescrape(t *testing.T) {
	t.Parallel()

	clk := &movableClock{now: time.Date(2023, 6, 5, 9, 0, 0, 0, time.UTC)}
	results := cache.New(24*time.Hour, 0, clk, nil)
	corrections := &countingCorrections{}
	svc := lookup.NewService(corrections, emptyCourts{}, results, lookup.Config{}, zap.NewNop())

	q := lookup.Query{InmateNumber: "88123"}

	_, err := svc.Lookup(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 1, corrections.callCount())

	clk.Advance(23 * time.Hour)
	_, err = svc.Lookup(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 1, corrections.callCount(), "fresh entry must be served from cache")

	clk.Advance(time.Hour + time.Second)
	_, err = svc.Lookup(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 2, corrections.callCount(), "stale entry must trigger a rescrape")
}
