package sync

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"

	"volunteerhub/internal/domain/calendar"
)

// maxOccurrencesPerEvent caps recurrence expansion so a pathological RRULE
// cannot flood the snapshot.
const maxOccurrencesPerEvent = 1000

// expandWindow materializes every occurrence of the parsed events that falls
// inside [rangeStart, rangeEnd) and converts them to the raw shape consumed
// by calendar normalization: a date key plus fractional start hour and
// duration in hours, all in local wall-clock.
// PRE: rangeEnd is after rangeStart
// POST: each occurrence gets a unique ID of the form uid@instance-date-time
func expandWindow(events []parsedEvent, rangeStart, rangeEnd time.Time) []calendar.RawSyncedEvent {
	var out []calendar.RawSyncedEvent
	for _, ev := range events {
		if ev.rawRRule == "" {
			if overlaps(ev.start, ev.end, rangeStart, rangeEnd) {
				out = append(out, toRaw(ev, ev.start, ev.end))
			}
			continue
		}
		out = append(out, expandRecurring(ev, rangeStart, rangeEnd)...)
	}
	return out
}

func expandRecurring(ev parsedEvent, rangeStart, rangeEnd time.Time) []calendar.RawSyncedEvent {
	r, err := rrule.StrToRRule(ev.rawRRule)
	if err != nil {
		slog.Warn("ics rrule unparsable, keeping base occurrence only", "uid", ev.uid, "rrule", ev.rawRRule, "error", err)
		if overlaps(ev.start, ev.end, rangeStart, rangeEnd) {
			return []calendar.RawSyncedEvent{toRaw(ev, ev.start, ev.end)}
		}
		return nil
	}
	r.DTStart(ev.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exDates {
		set.ExDate(ex.In(ev.start.Location()))
	}

	occTimes := set.Between(rangeStart.In(ev.start.Location()), rangeEnd.In(ev.start.Location()), true)
	if len(occTimes) > maxOccurrencesPerEvent {
		slog.Warn("ics recurrence truncated", "uid", ev.uid, "cap", maxOccurrencesPerEvent)
		occTimes = occTimes[:maxOccurrencesPerEvent]
	}

	duration := ev.end.Sub(ev.start)
	out := make([]calendar.RawSyncedEvent, 0, len(occTimes))
	for _, occStart := range occTimes {
		out = append(out, toRaw(ev, occStart, occStart.Add(duration)))
	}
	return out
}

// toRaw converts one concrete occurrence to the raw synced shape. All-day
// occurrences span the whole day from midnight.
func toRaw(ev parsedEvent, start, end time.Time) calendar.RawSyncedEvent {
	start = start.In(time.Local)
	end = end.In(time.Local)

	if ev.allDay {
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
		return calendar.RawSyncedEvent{
			ID:       instanceID(ev.uid, day),
			Title:    ev.summary,
			Location: ev.location,
			Date:     day.Format(calendar.DateKeyFormat),
			Start:    0,
			Duration: 24,
		}
	}

	durHours := end.Sub(start).Hours()
	if durHours < 0 {
		durHours = 0
	}
	return calendar.RawSyncedEvent{
		ID:       instanceID(ev.uid, start),
		Title:    ev.summary,
		Location: ev.location,
		Date:     start.Format(calendar.DateKeyFormat),
		Start:    float64(start.Hour()) + float64(start.Minute())/60,
		Duration: durHours,
	}
}

// instanceID builds a stable per-occurrence identifier. Recurring events
// share a UID, so the instance start disambiguates.
func instanceID(uid string, start time.Time) string {
	return fmt.Sprintf("%s@%s", uid, start.Format("2006-01-02T15:04"))
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
