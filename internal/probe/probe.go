// Package probe checks that the scraped government sites are reachable
// without spinning up a browser, feeding the readiness endpoint.
package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Config controls probe behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	Targets   []string
}

// SiteStatus is the last observed state of one target site.
type SiteStatus struct {
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	CheckedAt  time.Time `json:"checked_at"`
	Error      string    `json:"error,omitempty"`
}

// Checker performs lightweight GETs against the target sites and caches the
// outcome. A site behind aggressive bot protection may still serve the real
// search flow, so probe failures mark readiness degraded, not dead.
type Checker struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.RWMutex
	status map[string]SiteStatus
}

// New builds a Checker.
func New(cfg Config, logger *zap.Logger) *Checker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		cfg:    cfg,
		logger: logger,
		status: make(map[string]SiteStatus),
	}
}

// Check probes every target once and records the results.
func (c *Checker) Check(ctx context.Context) {
	for _, target := range c.cfg.Targets {
		select {
		case <-ctx.Done():
			return
		default:
		}
		c.record(c.probeOne(target))
	}
}

// Run probes on the given interval until ctx is done. An immediate first
// pass fills the status map before the first readiness call.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	c.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Ready returns an error when any target has never been seen healthy.
func (c *Checker) Ready(_ context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, target := range c.cfg.Targets {
		st, ok := c.status[target]
		if !ok {
			return fmt.Errorf("site %s not yet probed", target)
		}
		if st.Error != "" {
			return fmt.Errorf("site %s unreachable: %s", target, st.Error)
		}
	}
	return nil
}

// Statuses returns a snapshot of the per-site states.
func (c *Checker) Statuses() []SiteStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]SiteStatus, 0, len(c.cfg.Targets))
	for _, target := range c.cfg.Targets {
		if st, ok := c.status[target]; ok {
			out = append(out, st)
		}
	}
	return out
}

func (c *Checker) probeOne(target string) SiteStatus {
	st := SiteStatus{URL: target, CheckedAt: time.Now().UTC()}

	collector := colly.NewCollector(colly.Async(false))
	collector.IgnoreRobotsTxt = false
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	collector.SetRequestTimeout(c.cfg.Timeout)

	collector.OnResponse(func(resp *colly.Response) {
		st.StatusCode = resp.StatusCode
	})
	collector.OnError(func(resp *colly.Response, err error) {
		if resp != nil {
			st.StatusCode = resp.StatusCode
		}
		st.Error = err.Error()
	})

	if err := collector.Visit(target); err != nil {
		st.Error = err.Error()
	}
	collector.Wait()

	if st.Error != "" {
		c.logger.Warn("site probe failed",
			zap.String("url", target),
			zap.Int("status", st.StatusCode),
			zap.String("error", st.Error),
		)
	}
	return st
}

func (c *Checker) record(st SiteStatus) {
	c.mu.Lock()
	c.status[st.URL] = st
	c.mu.Unlock()
}
