package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// Page is the small capability surface site automation is written against.
// Keeping it narrow means alternate jurisdictions are new scripts, not new
// plumbing, and tests can substitute a fake without a browser.
type Page interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// Click dispatches a click on the first node matching selector.
	Click(ctx context.Context, selector string) error
	// Type populates the first node matching selector with value.
	Type(ctx context.Context, selector, value string) error
	// WaitReady blocks until selector is present in the DOM or the timeout
	// elapses, whichever comes first.
	WaitReady(ctx context.Context, selector string, timeout time.Duration) error
	// OuterHTML returns the serialized markup of the first matching node.
	OuterHTML(ctx context.Context, selector string) (string, error)
}

// SessionFactory opens isolated page sessions. Implemented by Driver.
type SessionFactory interface {
	NewPage(ctx context.Context) (Page, func(), error)
}

type chromedpPage struct {
	ctx        context.Context
	userAgent  string
	configured bool
}

func (p *chromedpPage) Navigate(ctx context.Context, url string) error {
	actions := []chromedp.Action{}
	if p.userAgent != "" && !p.configured {
		actions = append(actions, emulation.SetUserAgentOverride(p.userAgent))
		p.configured = true
	}
	actions = append(actions,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err := p.run(ctx, actions...); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *chromedpPage) Click(ctx context.Context, selector string) error {
	if err := p.run(ctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

func (p *chromedpPage) Type(ctx context.Context, selector, value string) error {
	if err := p.run(ctx, chromedp.SendKeys(selector, value, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("type into %q: %w", selector, err)
	}
	return nil
}

func (p *chromedpPage) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	if err := p.checkCaller(ctx); err != nil {
		return err
	}
	if err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (p *chromedpPage) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML(selector, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("outer html of %q: %w", selector, err)
	}
	return html, nil
}

// run executes actions against the session context. The caller context is
// only consulted for early cancellation; the session context carries the
// browser lifetime and overall deadline.
func (p *chromedpPage) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := p.checkCaller(ctx); err != nil {
		return err
	}
	return chromedp.Run(p.ctx, actions...)
}

func (p *chromedpPage) checkCaller(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("browser session aborted: %w", ctx.Err())
	default:
		return nil
	}
}
