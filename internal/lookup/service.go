package lookup

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/DigitalHerencia/court-jester/internal/metrics"
)

// cacheKeyPrefix is fixed to the New Mexico pipeline; it is the only
// jurisdiction wired end-to-end.
const cacheKeyPrefix = "nm-"

// Config tunes the lookup service.
type Config struct {
	// ScrapeQPS throttles outbound scrape admissions so the state sites are
	// never hammered. Zero disables throttling.
	ScrapeQPS   float64
	ScrapeBurst int
}

// Service sequences the corrections and court scrape stages, merges their
// output, and memoizes results. Concurrent requests for the same key share a
// single scrape.
type Service struct {
	corrections CorrectionsSource
	courts      CourtSource
	cache       Cache
	limiter     *rate.Limiter
	group       singleflight.Group
	logger      *zap.Logger
}

// NewService wires the two sources, the cache, and the politeness limiter.
func NewService(corrections CorrectionsSource, courts CourtSource, cache Cache, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if cfg.ScrapeQPS > 0 {
		burst := cfg.ScrapeBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.ScrapeQPS), burst)
	}
	return &Service{
		corrections: corrections,
		courts:      courts,
		cache:       cache,
		limiter:     limiter,
		logger:      logger,
	}
}

// CacheKey returns the memoization key for a query.
func CacheKey(q Query) string {
	return cacheKeyPrefix + q.Identifier()
}

// Lookup returns the inmate record for q, from cache when fresh, otherwise
// by scraping both sites. Corrections-stage failures abort the lookup; the
// court stage degrades to an empty courtDates slice.
func (s *Service) Lookup(ctx context.Context, q Query) (InmateRecord, error) {
	key := CacheKey(q)
	if rec, ok := s.cache.Get(key); ok {
		metrics.ObserveCacheEvent("hit")
		return rec, nil
	}
	metrics.ObserveCacheEvent("miss")

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.scrape(ctx, q, key)
	})
	if err != nil {
		return InmateRecord{}, err
	}
	if shared {
		s.logger.Debug("lookup shared in-flight scrape", zap.String("key", key))
	}
	rec, ok := v.(InmateRecord)
	if !ok {
		return InmateRecord{}, fmt.Errorf("unexpected scrape result type %T", v)
	}
	return rec, nil
}

func (s *Service) scrape(ctx context.Context, q Query, key string) (InmateRecord, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return InmateRecord{}, fmt.Errorf("scrape rate limit: %w", err)
		}
	}

	rec, err := s.corrections.Search(ctx, q)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.ObserveLookup("not_found")
		} else {
			metrics.ObserveLookup("error")
		}
		return InmateRecord{}, err
	}

	rec.CourtDates = s.courtDates(ctx, rec.Name)
	s.cache.Put(key, rec)
	metrics.ObserveLookup("ok")
	return rec, nil
}

// courtDates runs the court stage. Failures degrade to an empty slice and
// never fail the lookup.
func (s *Service) courtDates(ctx context.Context, name string) []CourtEvent {
	if s.courts == nil || name == "" {
		return []CourtEvent{}
	}
	events, err := s.courts.Hearings(ctx, name)
	if err != nil {
		metrics.ObserveLookup("degraded")
		s.logger.Warn("court lookup degraded", zap.String("name", name), zap.Error(err))
		return []CourtEvent{}
	}
	if events == nil {
		events = []CourtEvent{}
	}
	return events
}
