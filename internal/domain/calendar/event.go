package calendar

import (
	"strings"
	"time"
)

// Source identifies where a merged event originated.
const (
	SourceInternal = "internal" // activity managed by this application
	SourceExternal = "external" // entry synchronized from an external calendar
)

// Ownership status constants. Ownership drives the default display identity:
// an enrolled volunteer sees their events highlighted ahead of source styling.
const (
	OwnershipNone       = "none"
	OwnershipRegistered = "registered"
	OwnershipEnrolled   = "enrolled"
)

// DateKeyFormat is the canonical bucketing key layout (YYYY-MM-DD).
const DateKeyFormat = "2006-01-02"

// EventRecord is the canonical event shape after normalization. All times are
// local wall-clock; no timezone conversion happens anywhere in this package.
// INVARIANT: End >= Start (End == Start marks a zero-duration event).
// INVARIANT: DateKey is derived from Start, never End, and never recomputed
// after normalization; multi-day events bucket by start day only.
type EventRecord struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Source      string // SourceInternal or SourceExternal
	Ownership   string // OwnershipNone, OwnershipRegistered, OwnershipEnrolled
	DateKey     string

	// Staffing counters, carried from internal activities (zero for external
	// events). They feed the default fill-rate identity.
	VolunteersNeeded     int
	VolunteersRegistered int
}

// StartHour returns the event's start as a fractional hour of its day.
// INVARIANT: EventRecord fields are not mutated
func (e EventRecord) StartHour() float64 {
	return float64(e.Start.Hour()) + float64(e.Start.Minute())/60
}

// DurationHours returns the event duration in fractional hours.
// POST: result >= 0
func (e EventRecord) DurationHours() float64 {
	d := e.End.Sub(e.Start)
	if d < 0 {
		return 0
	}
	return d.Hours()
}

// MatchesQuery reports whether the event matches a free-text search query.
// Matching is a case-insensitive substring test over title, location, and
// description. An empty query matches everything.
// INVARIANT: EventRecord fields are not mutated
func (e EventRecord) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Location), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// FilterByQuery returns the events matching query, preserving input order.
// PRE: none
// POST: result is a new slice; events is not mutated
func FilterByQuery(events []EventRecord, query string) []EventRecord {
	if strings.TrimSpace(query) == "" {
		out := make([]EventRecord, len(events))
		copy(out, events)
		return out
	}
	var out []EventRecord
	for _, e := range events {
		if e.MatchesQuery(query) {
			out = append(out, e)
		}
	}
	return out
}
