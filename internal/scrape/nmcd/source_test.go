package nmcd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHerencia/court-jester/internal/browser"
	"github.com/DigitalHerencia/court-jester/internal/challenge"
	"github.com/DigitalHerencia/court-jester/internal/lookup"
)

// fakePage records the automation steps and serves scripted HTML per
// selector.
type fakePage struct {
	actions []string
	html    map[string]string
	failOn  string
	err     error
}

func (p *fakePage) record(action string) error {
	p.actions = append(p.actions, action)
	if p.failOn != "" && strings.HasPrefix(action, p.failOn) {
		if p.err != nil {
			return p.err
		}
		return errors.New("scripted failure")
	}
	return nil
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	return p.record("navigate " + url)
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	return p.record("click " + selector)
}

func (p *fakePage) Type(_ context.Context, selector, value string) error {
	return p.record(fmt.Sprintf("type %s=%s", selector, value))
}

func (p *fakePage) WaitReady(_ context.Context, selector string, _ time.Duration) error {
	return p.record("wait " + selector)
}

func (p *fakePage) OuterHTML(_ context.Context, selector string) (string, error) {
	if err := p.record("html " + selector); err != nil {
		return "", err
	}
	html, ok := p.html[selector]
	if !ok {
		return "", fmt.Errorf("no fixture for %q", selector)
	}
	return html, nil
}

type fakeSessions struct {
	page     *fakePage
	released bool
	err      error
}

func (f *fakeSessions) NewPage(_ context.Context) (browser.Page, func(), error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.page, func() { f.released = true }, nil
}

const resultsFixture = `<table class="results">
<tr><th>Name</th><th>Number</th><th></th></tr>
<tr class="result-row"><td>Smith, Robert</td><td>70001</td><td><a class="view-details" href="#">View</a></td></tr>
<tr class="result-row"><td>Rodriguez, Carlos</td><td>88123</td><td><a class="view-details" href="#">View</a></td></tr>
</table>`

func newTestSource(page *fakePage) (*Source, *fakeSessions) {
	sessions := &fakeSessions{page: page}
	return New(sessions, challenge.None{}, Config{}, nil), sessions
}

func TestSearchByNumberExtractsRecord(t *testing.T) {
	t.Parallel()

	page := &fakePage{html: map[string]string{
		resultsTableSel: resultsFixture,
		detailPaneSel:   detailFixture,
	}}
	src, sessions := newTestSource(page)

	rec, err := src.Search(context.Background(), lookup.Query{InmateNumber: "88123"})
	require.NoError(t, err)
	require.Equal(t, "88123", rec.InmateNumber)
	require.Equal(t, "Rodriguez, Carlos", rec.Name)
	require.True(t, sessions.released, "browser session must be released")

	require.Contains(t, page.actions, "navigate "+SearchURL)
	require.Contains(t, page.actions, "click "+includeInactiveSel)
	require.Contains(t, page.actions, "type #offender-number=88123")
	require.Contains(t, page.actions, "click button[type='submit']")
	// Number searches take the first result row, which sits below the
	// header row.
	require.Contains(t, page.actions, "click tr.result-row:nth-of-type(2) a.view-details")
}

func TestSearchByNameSplitsAndPicksSoundexMatch(t *testing.T) {
	t.Parallel()

	page := &fakePage{html: map[string]string{
		resultsTableSel: resultsFixture,
		detailPaneSel:   detailFixture,
	}}
	src, _ := newTestSource(page)

	_, err := src.Search(context.Background(), lookup.Query{Name: "Rodriguez Carlos Ernesto"})
	require.NoError(t, err)
	require.Contains(t, page.actions, "type #last-name=Rodriguez")
	require.Contains(t, page.actions, "type #first-name=Carlos Ernesto")
	// The surname match is the second result row, third tr overall.
	require.Contains(t, page.actions, "click tr.result-row:nth-of-type(3) a.view-details")
}

func TestSearchNoRowsReturnsNotFound(t *testing.T) {
	t.Parallel()

	page := &fakePage{html: map[string]string{
		resultsTableSel: `<table class="results"><tr><th>Name</th></tr></table>`,
	}}
	src, sessions := newTestSource(page)

	_, err := src.Search(context.Background(), lookup.Query{InmateNumber: "404404"})
	require.ErrorIs(t, err, lookup.ErrNotFound)
	require.True(t, sessions.released)
}

func TestSearchCaptchaTimeoutPropagates(t *testing.T) {
	t.Parallel()

	page := &fakePage{html: map[string]string{}}
	sessions := &fakeSessions{page: page}
	resolver := stubResolver{err: fmt.Errorf("gate: %w", lookup.ErrCaptchaTimeout)}
	src := New(sessions, resolver, Config{}, nil)

	_, err := src.Search(context.Background(), lookup.Query{InmateNumber: "1"})
	require.ErrorIs(t, err, lookup.ErrCaptchaTimeout)
	require.True(t, sessions.released)
	require.NotContains(t, page.actions, "click "+submitSel, "submit must not run before the gate clears")
}

func TestSearchNavigationFailureReleasesSession(t *testing.T) {
	t.Parallel()

	page := &fakePage{failOn: "navigate"}
	src, sessions := newTestSource(page)

	_, err := src.Search(context.Background(), lookup.Query{InmateNumber: "1"})
	require.Error(t, err)
	require.True(t, sessions.released)
}

func TestSearchSessionOpenFailure(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{err: errors.New("no browser slots")}
	src := New(sessions, challenge.None{}, Config{}, nil)

	_, err := src.Search(context.Background(), lookup.Query{InmateNumber: "1"})
	require.ErrorContains(t, err, "open corrections session")
}

func TestDetailLinkSelectorTargetsParsedRow(t *testing.T) {
	t.Parallel()

	rows, err := parseResultRows(resultsFixture)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resultsFixture))
	require.NoError(t, err)
	for _, row := range rows {
		matched := doc.Find(detailLinkSelector(row))
		require.Equal(t, 1, matched.Length(), "selector must match exactly one link for %q", row.Name)
		name := strings.TrimSpace(matched.Closest("tr").Find("td").First().Text())
		require.Equal(t, row.Name, name)
	}
}

func TestDetailLinkSelectorWithTheadTbody(t *testing.T) {
	t.Parallel()

	const fixture = `<table class="results">
<thead><tr><th>Name</th><th>Number</th><th></th></tr></thead>
<tbody>
<tr class="result-row"><td>Smith, Robert</td><td>70001</td><td><a class="view-details" href="#">View</a></td></tr>
<tr class="result-row"><td>Rodriguez, Carlos</td><td>88123</td><td><a class="view-details" href="#">View</a></td></tr>
</tbody>
</table>`

	rows, err := parseResultRows(fixture)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fixture))
	require.NoError(t, err)
	for _, row := range rows {
		matched := doc.Find(detailLinkSelector(row))
		require.Equal(t, 1, matched.Length())
		name := strings.TrimSpace(matched.Closest("tr").Find("td").First().Text())
		require.Equal(t, row.Name, name)
	}
}

type stubResolver struct {
	err error
}

func (r stubResolver) Await(context.Context, browser.Page) error {
	return r.err
}
