// Package lookup defines the inmate record model and the orchestration
// service that composes the corrections and court scrape stages.
package lookup

// InmateRecord is the canonical unit returned by a lookup: demographics and
// custody data from the corrections site plus best-effort court dates.
type InmateRecord struct {
	InmateNumber string       `json:"inmateNumber,omitempty"`
	Name         string       `json:"name,omitempty"`
	Age          int          `json:"age"`
	Race         string       `json:"race,omitempty"`
	Sex          string       `json:"sex,omitempty"`
	Height       string       `json:"height,omitempty"`
	Weight       string       `json:"weight,omitempty"`
	Hair         string       `json:"hair,omitempty"`
	Eyes         string       `json:"eyes,omitempty"`
	Location     string       `json:"location,omitempty"`
	Status       string       `json:"status,omitempty"`
	CourtDates   []CourtEvent `json:"courtDates"`
}

// CourtEvent is one hearing appearance scraped from the court lookup site.
// Date is normalized to YYYY-MM-DD; Time stays in the source's format.
type CourtEvent struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Judge    string `json:"judge"`
	Source   string `json:"source"`
}

// Query identifies the inmate to look up. Exactly one of InmateNumber or
// Name is expected to be set; InmateNumber wins when both are present.
type Query struct {
	InmateNumber string
	Name         string
}

// Identifier returns the value used for cache keying and logging.
func (q Query) Identifier() string {
	if q.InmateNumber != "" {
		return q.InmateNumber
	}
	return q.Name
}

// Empty reports whether the query carries no identifier at all.
func (q Query) Empty() bool {
	return q.InmateNumber == "" && q.Name == ""
}
