package lookup

import (
	"context"
	"time"
)

// CorrectionsSource searches a corrections offender registry and extracts the
// base record from the first matching detail view. Implementations return
// ErrNotFound when the search yields zero rows.
type CorrectionsSource interface {
	Search(ctx context.Context, q Query) (InmateRecord, error)
}

// CourtSource searches a court case-lookup system by name. A nil or empty
// slice means no hearings; implementations may also return an error, which
// the service treats as a degraded (empty) result rather than a failure.
type CourtSource interface {
	Hearings(ctx context.Context, name string) ([]CourtEvent, error)
}

// Cache memoizes lookup results by normalized query key.
type Cache interface {
	Get(key string) (InmateRecord, bool)
	Put(key string, rec InmateRecord)
	EvictExpired() int
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
