package calendar

import (
	"fmt"
	"math"
	"time"
)

// RawActivity is the raw shape of an internally managed activity as produced
// by the activity store / admin API: RFC 3339-ish timestamp strings plus
// staffing counters.
type RawActivity struct {
	ID                   string
	Title                string
	Description          string
	Location             string
	StartTime            string // "2026-01-15T09:00:00" (zone suffix tolerated, ignored)
	EndTime              string // optional; empty means zero-duration marker
	VolunteersNeeded     int
	VolunteersRegistered int
}

// RawSyncedEvent is the raw shape of an externally synchronized calendar
// entry: a date plus a fractional start hour and a duration in hours.
type RawSyncedEvent struct {
	ID       string
	Title    string
	Location string
	Date     string  // "2026-01-15"
	Start    float64 // fractional hour of day, e.g. 9.5 for 09:30
	Duration float64 // hours
}

// ValidationError describes a raw record that failed normalization. Callers
// skip and collect these rather than aborting a whole merge: one bad synced
// record must not blank the calendar.
type ValidationError struct {
	RecordID string
	Field    string
	Reason   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event record %q: %s: %s", e.RecordID, e.Field, e.Reason)
}

// wallClockLayouts are accepted start/end time layouts, tried in order. The
// zone offset in RFC 3339 input is parsed but deliberately not converted:
// times are treated as local wall-clock throughout.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// NormalizeActivity converts a raw internal activity into an EventRecord.
// PRE: none (raw may be arbitrarily malformed)
// POST: on success, Source is SourceInternal, DateKey is derived from Start,
// and End >= Start; on failure a *ValidationError is returned.
// Pure: raw is not mutated, no I/O.
func NormalizeActivity(raw RawActivity, ownership string) (EventRecord, error) {
	if raw.StartTime == "" {
		return EventRecord{}, &ValidationError{RecordID: raw.ID, Field: "start_time", Reason: "missing"}
	}
	start, err := parseWallClock(raw.StartTime)
	if err != nil {
		return EventRecord{}, &ValidationError{RecordID: raw.ID, Field: "start_time", Reason: "unparsable"}
	}

	end := start
	if raw.EndTime != "" {
		end, err = parseWallClock(raw.EndTime)
		if err != nil {
			return EventRecord{}, &ValidationError{RecordID: raw.ID, Field: "end_time", Reason: "unparsable"}
		}
		if end.Before(start) {
			return EventRecord{}, &ValidationError{RecordID: raw.ID, Field: "end_time", Reason: "before start_time"}
		}
	}

	if ownership == "" {
		ownership = OwnershipNone
	}

	return EventRecord{
		ID:                   raw.ID,
		Title:                raw.Title,
		Description:          raw.Description,
		Location:             raw.Location,
		Start:                start,
		End:                  end,
		Source:               SourceInternal,
		Ownership:            ownership,
		DateKey:              start.Format(DateKeyFormat),
		VolunteersNeeded:     raw.VolunteersNeeded,
		VolunteersRegistered: raw.VolunteersRegistered,
	}, nil
}

// NormalizeSynced converts a raw externally synced entry into an EventRecord.
// PRE: none (raw may be arbitrarily malformed)
// POST: on success, Source is SourceExternal and DateKey equals raw.Date;
// on failure a *ValidationError is returned.
// Pure: raw is not mutated, no I/O.
func NormalizeSynced(raw RawSyncedEvent) (EventRecord, error) {
	if raw.Date == "" {
		return EventRecord{}, &ValidationError{RecordID: raw.ID, Field: "date", Reason: "missing"}
	}
	day, err := time.ParseInLocation(DateKeyFormat, raw.Date, time.Local)
	if err != nil {
		return EventRecord{}, &ValidationError{RecordID: raw.ID, Field: "date", Reason: "unparsable"}
	}
	if raw.Start < 0 || raw.Start >= 24 || math.IsNaN(raw.Start) {
		return EventRecord{}, &ValidationError{RecordID: raw.ID, Field: "start", Reason: "hour out of range"}
	}
	dur := raw.Duration
	if dur < 0 || math.IsNaN(dur) {
		dur = 0
	}

	start := day.Add(time.Duration(raw.Start * float64(time.Hour)))
	end := start.Add(time.Duration(dur * float64(time.Hour)))

	return EventRecord{
		ID:        raw.ID,
		Title:     raw.Title,
		Location:  raw.Location,
		Start:     start,
		End:       end,
		Source:    SourceExternal,
		Ownership: OwnershipNone,
		DateKey:   day.Format(DateKeyFormat),
	}, nil
}

func parseWallClock(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range wallClockLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			// Discard any parsed zone: keep the wall-clock fields as-is.
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
