// Package challenge models CAPTCHA gates as a pluggable collaborator. The
// service never solves challenges itself; it only knows how to wait for an
// externally resolved verification token.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DigitalHerencia/court-jester/internal/browser"
	"github.com/DigitalHerencia/court-jester/internal/lookup"
)

// Resolver blocks until the page's CAPTCHA gate has been cleared.
type Resolver interface {
	Await(ctx context.Context, pg browser.Page) error
}

// TokenWaiter waits for a verification token element to appear in page
// state, relying on an out-of-band mechanism (solving service or a human) to
// actually clear the challenge.
type TokenWaiter struct {
	Selector string
	Timeout  time.Duration
}

// Await implements Resolver. A timeout surfaces as lookup.ErrCaptchaTimeout.
func (w TokenWaiter) Await(ctx context.Context, pg browser.Page) error {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if err := pg.WaitReady(ctx, w.Selector, timeout); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: token %q not observed within %s", lookup.ErrCaptchaTimeout, w.Selector, timeout)
		}
		return fmt.Errorf("captcha gate: %w", err)
	}
	return nil
}

// None is a Resolver for sites without a challenge gate and for tests.
type None struct{}

// Await returns immediately.
func (None) Await(context.Context, browser.Page) error {
	return nil
}
