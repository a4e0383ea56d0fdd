package nmcd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DigitalHerencia/court-jester/internal/lookup"
)

type resultRow struct {
	Name string
	// pos is the row's 1-based position among its parent's tr elements. A
	// header row shifts result rows down, so the click selector must be
	// built from this and never from the slice index.
	pos int
}

// parseResultRows extracts the candidate rows from the results table markup.
func parseResultRows(tableHTML string) ([]resultRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return nil, fmt.Errorf("parse results table: %w", err)
	}
	var rows []resultRow
	doc.Find("tr.result-row").Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Find("td").First().Text())
		rows = append(rows, resultRow{Name: name, pos: sel.Index() + 1})
	})
	return rows, nil
}

// parseDetail extracts the fixed field set from the detail pane. Missing
// textual fields stay absent; a malformed age parses to zero.
func parseDetail(detailHTML string) (lookup.InmateRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(detailHTML))
	if err != nil {
		return lookup.InmateRecord{}, fmt.Errorf("parse detail view: %w", err)
	}

	rec := lookup.InmateRecord{
		InmateNumber: fieldText(doc, "#nmcd-number"),
		Name:         fieldText(doc, "#inmate-name"),
		Race:         fieldText(doc, "#race"),
		Sex:          fieldText(doc, "#gender"),
		Height:       fieldText(doc, "#height"),
		Weight:       fieldText(doc, "#weight"),
		Hair:         fieldText(doc, "#hair"),
		Eyes:         fieldText(doc, "#eyes"),
		Location:     fieldText(doc, "#facility"),
		Status:       fieldText(doc, "#status"),
	}
	if age, err := strconv.Atoi(fieldText(doc, "#age")); err == nil && age >= 0 {
		rec.Age = age
	}
	return rec, nil
}

func fieldText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}
