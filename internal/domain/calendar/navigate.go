package calendar

import "time"

// Next advances the reference date by one period of the active mode.
// PRE: v.Mode is a valid mode
// POST: month mode adds one calendar month with the day-of-month clamped
// (Jan 31 -> Feb 28, not Mar 3); week mode adds 7 days; day mode adds 1 day.
// v is not mutated.
func Next(v ViewState) ViewState {
	return step(v, 1)
}

// Prev retreats the reference date by one period of the active mode.
// POST: symmetric to Next; v is not mutated
func Prev(v ViewState) ViewState {
	return step(v, -1)
}

// Today resets the reference date to the given current date, preserving mode.
// POST: Reference is today's calendar date; Mode unchanged
func Today(v ViewState, today time.Time) ViewState {
	v.Reference = Midnight(today)
	return v
}

// SwitchMode changes the view mode, keeping the reference date so the grid
// regenerates around the same anchor.
// POST: Mode is newMode; Reference unchanged
func SwitchMode(v ViewState, newMode string) ViewState {
	v.Mode = newMode
	return v
}

func step(v ViewState, dir int) ViewState {
	ref := Midnight(v.Reference)
	switch v.Mode {
	case ModeWeek:
		v.Reference = ref.AddDate(0, 0, 7*dir)
	case ModeDay:
		v.Reference = ref.AddDate(0, 0, dir)
	default: // ModeMonth
		v.Reference = addMonthsClamped(ref, dir)
	}
	return v
}

// addMonthsClamped adds n calendar months, clamping the day-of-month to the
// target month's length instead of letting time.AddDate roll it over.
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}
