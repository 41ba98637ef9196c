package calendar

import "time"

// View mode constants.
const (
	ModeMonth = "month"
	ModeWeek  = "week"
	ModeDay   = "day"
)

// MonthGridCells is the fixed month grid size: 6 full weeks. A fixed 6x7 grid
// stays rectangular no matter how the month aligns to weekdays, so the
// rendering layer never reflows between months.
const MonthGridCells = 42

// ViewState is the sole input driving grid generation: the active mode and
// the reference date the grid is anchored on. It is a value; navigation
// produces new values and never mutates in place.
type ViewState struct {
	Mode      string
	Reference time.Time // date semantics; time-of-day is ignored
}

// NewViewState returns the initial view: month mode anchored on today.
func NewViewState(today time.Time) ViewState {
	return ViewState{Mode: ModeMonth, Reference: Midnight(today)}
}

// DateCell is one cell of a generated grid. Cells are immutable value
// objects, created fresh on every generation.
type DateCell struct {
	Date     time.Time
	Key      string // Date formatted as DateKeyFormat, for bucketing
	IsToday  bool
	InPeriod bool // false for month-view leading/trailing days of adjacent months
}

// Grid is the ordered cell sequence for one view. It is regenerated wholesale
// on every ViewState change; nothing patches cells incrementally.
type Grid struct {
	Cells []DateCell
}

// GenerateGrid produces the date cells for the given view. "today" is passed
// in explicitly so generation stays deterministic and testable.
// PRE: view.Mode is one of ModeMonth, ModeWeek, ModeDay (unknown modes fall
// back to ModeMonth)
// POST: Month -> exactly 42 cells starting at the Sunday on or before the
// 1st; Week -> exactly 7 cells starting Sunday; Day -> 1 cell. Calling twice
// with identical inputs yields structurally equal grids.
func GenerateGrid(view ViewState, today time.Time) Grid {
	ref := Midnight(view.Reference)
	today = Midnight(today)

	switch view.Mode {
	case ModeWeek:
		start := ref.AddDate(0, 0, -int(ref.Weekday()))
		return spanGrid(start, 7, today, func(time.Time) bool { return true })
	case ModeDay:
		return spanGrid(ref, 1, today, func(time.Time) bool { return true })
	default: // ModeMonth
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		start := first.AddDate(0, 0, -int(first.Weekday()))
		refMonth, refYear := ref.Month(), ref.Year()
		return spanGrid(start, MonthGridCells, today, func(d time.Time) bool {
			return d.Month() == refMonth && d.Year() == refYear
		})
	}
}

func spanGrid(start time.Time, n int, today time.Time, inPeriod func(time.Time) bool) Grid {
	cells := make([]DateCell, 0, n)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		cells = append(cells, DateCell{
			Date:     d,
			Key:      d.Format(DateKeyFormat),
			IsToday:  d.Equal(today),
			InPeriod: inPeriod(d),
		})
	}
	return Grid{Cells: cells}
}

// Midnight truncates t to the start of its calendar day, keeping the
// location. Calendar-date comparisons throughout this package go through
// this helper rather than comparing instants.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
