// Package nmcourts automates the New Mexico Courts case lookup and
// normalizes hearing rows into court events.
package nmcourts

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DigitalHerencia/court-jester/internal/browser"
	"github.com/DigitalHerencia/court-jester/internal/lookup"
	"github.com/DigitalHerencia/court-jester/internal/metrics"
)

const (
	// SearchURL is the case lookup entry page.
	SearchURL = "https://caselookup.nmcourts.gov/"

	lastNameSel   = "#lastName"
	firstNameSel  = "#firstName"
	submitSel     = "input[type='submit']"
	caseTableSel  = "table.caseTable"
	provenanceTag = "NM Courts Case Lookup"
)

const metricSite = "nmcourts"

// Config tunes the automation waits.
type Config struct {
	ResultsTimeout time.Duration
}

// Source drives the case lookup site. It implements lookup.CourtSource.
// Every failure path yields an empty slice: court dates are best-effort
// enrichment and must never block the demographic record.
type Source struct {
	sessions browser.SessionFactory
	cfg      Config
	logger   *zap.Logger
}

// New wires the session factory.
func New(sessions browser.SessionFactory, cfg Config, logger *zap.Logger) *Source {
	if cfg.ResultsTimeout <= 0 {
		cfg.ResultsTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{sessions: sessions, cfg: cfg, logger: logger}
}

// Hearings searches by name and returns the normalized hearing rows. Names
// that do not split into last and first parts skip the search entirely.
func (s *Source) Hearings(ctx context.Context, name string) ([]lookup.CourtEvent, error) {
	last, first, ok := lookup.SplitForCourts(name)
	if !ok {
		return []lookup.CourtEvent{}, nil
	}

	start := time.Now()
	metrics.IncActiveScrapes()
	defer func() {
		metrics.DecActiveScrapes()
		metrics.ObserveScrape(metricSite, time.Since(start))
	}()

	pg, release, err := s.sessions.NewPage(ctx)
	if err != nil {
		s.logger.Warn("court lookup session open failed", zap.Error(err))
		return []lookup.CourtEvent{}, nil
	}
	defer release()

	steps := []func() error{
		func() error { return pg.Navigate(ctx, SearchURL) },
		func() error { return pg.Type(ctx, lastNameSel, last) },
		func() error { return pg.Type(ctx, firstNameSel, first) },
		func() error { return pg.Click(ctx, submitSel) },
		func() error { return pg.WaitReady(ctx, caseTableSel, s.cfg.ResultsTimeout) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			s.logger.Warn("court lookup step failed", zap.Error(err))
			return []lookup.CourtEvent{}, nil
		}
	}

	tableHTML, err := pg.OuterHTML(ctx, caseTableSel)
	if err != nil {
		s.logger.Warn("court lookup table read failed", zap.Error(err))
		return []lookup.CourtEvent{}, nil
	}
	events, err := parseHearings(tableHTML)
	if err != nil {
		s.logger.Warn("court lookup parse failed", zap.Error(err))
		return []lookup.CourtEvent{}, nil
	}
	return events, nil
}
