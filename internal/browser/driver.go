// Package browser owns the headless Chrome lifecycle and exposes the page
// capability surface the site automation scripts are written against.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Config controls the behavior of the headless driver.
type Config struct {
	MaxParallel    int
	UserAgent      string
	SessionTimeout time.Duration
}

// Driver launches isolated browser sessions from a shared exec allocator.
type Driver struct {
	cfg         Config
	limiter     chan struct{}
	allocator   context.Context
	allocCancel context.CancelFunc
}

// NewDriver creates a headless driver backed by chromedp.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 120 * time.Second
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Driver{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Close cancels the allocator context, tearing down the browser pool.
func (d *Driver) Close() {
	d.allocCancel()
}

// NewPage opens an isolated browser session bounded by the session timeout.
// The release function must be called on every exit path; it closes the
// session and frees the parallelism slot.
func (d *Driver) NewPage(ctx context.Context) (Page, func(), error) {
	if err := d.acquire(ctx); err != nil {
		return nil, nil, err
	}

	taskCtx, taskCancel := chromedp.NewContext(d.allocator)
	taskCtx, timeoutCancel := context.WithTimeout(taskCtx, d.cfg.SessionTimeout)

	pg := &chromedpPage{ctx: taskCtx, userAgent: d.cfg.UserAgent}
	release := func() {
		timeoutCancel()
		taskCancel()
		d.release()
	}
	return pg, release, nil
}

func (d *Driver) acquire(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}
	select {
	case d.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("browser slot wait canceled: %w", ctx.Err())
	}
}

func (d *Driver) release() {
	if d.limiter == nil {
		return
	}
	select {
	case <-d.limiter:
	default:
	}
}
