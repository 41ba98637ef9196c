package sync

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// parsedEvent is one VEVENT lifted out of an ICS payload, before recurrence
// expansion.
type parsedEvent struct {
	sourceID string

	uid      string
	summary  string
	location string

	start  time.Time
	end    time.Time
	allDay bool

	rawRRule string
	exDates  []time.Time
}

// parseICS parses a single ICS payload. Individual malformed VEVENTs are
// logged and skipped so one broken entry cannot blank the whole feed.
// PRE: body is non-empty
// POST: every returned event has a non-empty uid and a valid start
func parseICS(src Source, body []byte) ([]parsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var events []parsedEvent
	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(src, comp)
		if perr != nil {
			slog.Warn("ics vevent skipped", "source", src.ID, "error", perr)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(src Source, ve *ical.VEvent) (parsedEvent, error) {
	var out parsedEvent
	out.sourceID = src.ID

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.uid = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, errors.New("missing or unparsable DTSTART")
	}
	out.start = start
	if end, err := ve.GetEndAt(); err == nil {
		out.end = end
	} else {
		out.end = start
	}

	// All-day events carry VALUE=DATE or a bare YYYYMMDD value.
	if dtStart := ve.GetProperty(ical.ComponentPropertyDtStart); dtStart != nil {
		if params := dtStart.ICalParameters; params != nil {
			if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
				out.allDay = true
			}
		}
		if !strings.Contains(dtStart.Value, "T") {
			out.allDay = true
		}
	}

	if rrule := ve.GetProperty(ical.ComponentPropertyRrule); rrule != nil {
		out.rawRRule = rrule.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}

	return out, nil
}

// parseICSTime parses the basic ICS date and date-time forms used by EXDATE.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}
