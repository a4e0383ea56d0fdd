// Package nmcd automates the New Mexico Corrections Department offender
// search and extracts the base inmate record from the detail view.
package nmcd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DigitalHerencia/court-jester/internal/browser"
	"github.com/DigitalHerencia/court-jester/internal/challenge"
	"github.com/DigitalHerencia/court-jester/internal/lookup"
	"github.com/DigitalHerencia/court-jester/internal/metrics"
)

const (
	// SearchURL is the offender search entry page.
	SearchURL = "https://cd.nm.gov/offender-search/"

	includeInactiveSel = "#include-inactive"
	offenderNumberSel  = "#offender-number"
	lastNameSel        = "#last-name"
	firstNameSel       = "#first-name"
	submitSel          = "button[type='submit']"
	resultsTableSel    = "table.results"
	detailPaneSel      = ".inmate-details"
)

const metricSite = "nmcd"

// Config tunes the automation waits.
type Config struct {
	ResultsTimeout time.Duration
	DetailTimeout  time.Duration
}

// Source drives the offender search site. It implements
// lookup.CorrectionsSource.
type Source struct {
	sessions browser.SessionFactory
	resolver challenge.Resolver
	cfg      Config
	logger   *zap.Logger
}

// New wires the session factory and the CAPTCHA resolver.
func New(sessions browser.SessionFactory, resolver challenge.Resolver, cfg Config, logger *zap.Logger) *Source {
	if cfg.ResultsTimeout <= 0 {
		cfg.ResultsTimeout = 15 * time.Second
	}
	if cfg.DetailTimeout <= 0 {
		cfg.DetailTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{sessions: sessions, resolver: resolver, cfg: cfg, logger: logger}
}

// Search submits the offender query and extracts the first matching record.
// Zero result rows yield lookup.ErrNotFound.
func (s *Source) Search(ctx context.Context, q lookup.Query) (lookup.InmateRecord, error) {
	start := time.Now()
	metrics.IncActiveScrapes()
	defer func() {
		metrics.DecActiveScrapes()
		metrics.ObserveScrape(metricSite, time.Since(start))
	}()

	pg, release, err := s.sessions.NewPage(ctx)
	if err != nil {
		return lookup.InmateRecord{}, fmt.Errorf("open corrections session: %w", err)
	}
	defer release()

	if err := pg.Navigate(ctx, SearchURL); err != nil {
		return lookup.InmateRecord{}, err
	}
	if err := pg.Click(ctx, includeInactiveSel); err != nil {
		return lookup.InmateRecord{}, err
	}
	if err := s.fillCriteria(ctx, pg, q); err != nil {
		return lookup.InmateRecord{}, err
	}
	if err := s.resolver.Await(ctx, pg); err != nil {
		return lookup.InmateRecord{}, err
	}
	if err := pg.Click(ctx, submitSel); err != nil {
		return lookup.InmateRecord{}, err
	}
	if err := pg.WaitReady(ctx, resultsTableSel, s.cfg.ResultsTimeout); err != nil {
		return lookup.InmateRecord{}, err
	}

	tableHTML, err := pg.OuterHTML(ctx, resultsTableSel)
	if err != nil {
		return lookup.InmateRecord{}, err
	}
	rows, err := parseResultRows(tableHTML)
	if err != nil {
		return lookup.InmateRecord{}, err
	}
	if len(rows) == 0 {
		return lookup.InmateRecord{}, lookup.ErrNotFound
	}

	pick := chooseRow(rows, q)
	s.logger.Debug("corrections result chosen",
		zap.Int("rows", len(rows)),
		zap.Int("row", pick),
	)
	if err := pg.Click(ctx, detailLinkSelector(rows[pick])); err != nil {
		return lookup.InmateRecord{}, err
	}
	if err := pg.WaitReady(ctx, detailPaneSel, s.cfg.DetailTimeout); err != nil {
		return lookup.InmateRecord{}, err
	}

	detailHTML, err := pg.OuterHTML(ctx, detailPaneSel)
	if err != nil {
		return lookup.InmateRecord{}, err
	}
	return parseDetail(detailHTML)
}

func (s *Source) fillCriteria(ctx context.Context, pg browser.Page, q lookup.Query) error {
	if q.InmateNumber != "" {
		return pg.Type(ctx, offenderNumberSel, q.InmateNumber)
	}
	last, first := lookup.SplitForCorrections(q.Name)
	if last != "" {
		if err := pg.Type(ctx, lastNameSel, last); err != nil {
			return err
		}
	}
	if first != "" {
		if err := pg.Type(ctx, firstNameSel, first); err != nil {
			return err
		}
	}
	return nil
}

// chooseRow prefers the first row whose surname sounds like the queried one;
// number searches and misses fall back to the first row.
func chooseRow(rows []resultRow, q lookup.Query) int {
	if q.Name == "" {
		return 0
	}
	last, _ := lookup.SplitForCorrections(q.Name)
	want := lookup.Soundex(last)
	if want == "" {
		return 0
	}
	for i, row := range rows {
		rowLast, _, ok := lookup.SplitForCourts(row.Name)
		if !ok {
			rowLast, _ = lookup.SplitForCorrections(row.Name)
		}
		if lookup.Soundex(rowLast) == want {
			return i
		}
	}
	return 0
}

// detailLinkSelector targets the chosen row's detail link by the row's
// position among its siblings, which survives header rows and thead/tbody
// splits.
func detailLinkSelector(row resultRow) string {
	return fmt.Sprintf("tr.result-row:nth-of-type(%d) a.view-details", row.pos)
}
