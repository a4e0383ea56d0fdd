package nmcourts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DigitalHerencia/court-jester/internal/lookup"
)

const (
	defaultHearingType = "Court Hearing"
	defaultVenue       = "New Mexico Court"
	minCells           = 5
)

// parseHearings walks the case table rows (skipping the header) and emits
// one event per well-formed hearing cell. Rows without a date-like token and
// rows whose date cannot be normalized are dropped.
func parseHearings(tableHTML string) ([]lookup.CourtEvent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return nil, fmt.Errorf("parse case table: %w", err)
	}

	events := []lookup.CourtEvent{}
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < minCells {
			return
		}
		caseInfo := strings.TrimSpace(cells.Eq(0).Text())
		hearingInfo := strings.TrimSpace(cells.Eq(3).Text())
		venue := strings.TrimSpace(cells.Eq(4).Text())

		if !strings.Contains(hearingInfo, "/") {
			return
		}
		date, hearingTime, ok := normalizeHearing(hearingInfo)
		if !ok {
			return
		}

		if caseInfo == "" {
			caseInfo = defaultHearingType
		}
		if venue == "" {
			venue = defaultVenue
		}
		events = append(events, lookup.CourtEvent{
			Date:     date,
			Time:     hearingTime,
			Type:     caseInfo,
			Location: venue,
			Judge:    "Not specified",
			Source:   provenanceTag,
		})
	})
	return events, nil
}

// normalizeHearing splits "M/D/YYYY H:MM AM" into an ISO date and the
// source-format time.
func normalizeHearing(hearingInfo string) (date, hearingTime string, ok bool) {
	parts := strings.Fields(hearingInfo)
	if len(parts) < 3 {
		return "", "", false
	}
	date, ok = toISODate(parts[0])
	if !ok {
		return "", "", false
	}
	return date, parts[1] + " " + parts[2], true
}

// toISODate reformats MM/DD/YYYY to YYYY-MM-DD with zero-padded month and
// day. Anything that does not parse as a plausible calendar date is rejected.
func toISODate(s string) (string, bool) {
	fields := strings.Split(s, "/")
	if len(fields) != 3 {
		return "", false
	}
	month, err := strconv.Atoi(fields[0])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil || len(fields[2]) != 4 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
