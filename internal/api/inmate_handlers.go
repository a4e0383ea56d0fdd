package api

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/DigitalHerencia/court-jester/internal/lookup"
)

const (
	errMissingIdentifier   = "Inmate number or name is required"
	errUnsupportedJurisdic = "Only New Mexico searches are supported"
	errInmateNotFound      = "Inmate not found"
	errSearchFailed        = "Search failed"
)

// getInmate handles GET /api/inmates?inmateNumber=&name=&jurisdiction=. It
// returns the merged InmateRecord as JSON, 400 for invalid queries, 404 when
// the corrections search finds nothing, and 500 with details otherwise.
func (s *Server) getInmate(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	number := strings.TrimSpace(params.Get("inmateNumber"))
	name := strings.TrimSpace(params.Get("name"))
	jurisdiction := strings.TrimSpace(params.Get("jurisdiction"))
	if jurisdiction == "" {
		jurisdiction = "nm"
	}

	if number == "" && name == "" {
		writeError(w, http.StatusBadRequest, errMissingIdentifier)
		return
	}
	if jurisdiction != "nm" && jurisdiction != "all" {
		writeError(w, http.StatusBadRequest, errUnsupportedJurisdic)
		return
	}

	rec, err := s.lookups.Lookup(r.Context(), lookup.Query{
		InmateNumber: number,
		Name:         name,
	})
	switch {
	case errors.Is(err, lookup.ErrNotFound):
		writeError(w, http.StatusNotFound, errInmateNotFound)
	case err != nil:
		s.logger.Error("inmate lookup failed",
			zap.String("identifier", firstNonEmpty(number, name)),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   errSearchFailed,
			"details": err.Error(),
		})
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
