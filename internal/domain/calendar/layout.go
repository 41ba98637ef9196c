package calendar

import "sort"

// HourRange is the visible vertical extent of a time grid, in hours.
type HourRange struct {
	Min float64
	Max float64
}

// DefaultHourRange matches the original calendar surface: 06:00-22:00.
var DefaultHourRange = HourRange{Min: 6, Max: 22}

// PositionedEvent is an event with resolved time-grid geometry. TopOffset and
// Height are in fractional-hour units; the rendering layer multiplies by its
// row height and does no further date or interval arithmetic.
type PositionedEvent struct {
	Event EventRecord

	// Lane is the horizontal slot among overlapping events; LaneCount is the
	// total lanes in the event's overlap group, for width division.
	Lane      int
	LaneCount int

	TopOffset float64
	Height    float64
}

// Layout computes geometry and lane assignments for one day's events.
//
// Geometry: topOffset = clamp(startHour, min, max) and
// height = clamp(durationHours, 0, max-topOffset). Events entirely outside
// the visible range are clipped at the boundary rather than dropped;
// visibility is preferred over silent loss. Zero-duration events get height 0.
//
// Lanes: two events overlap iff their [start, start+duration) intervals
// intersect. Overlap groups are the connected components of the interval
// graph; within a group, lanes are assigned greedily in ascending (start, id)
// order, reusing the lowest free lane. LaneCount for every member equals the
// number of lanes the group needed, which for interval graphs is the group's
// maximum concurrent overlap, not the group size: a member of a long overlap
// chain still divides width by the true peak concurrency.
//
// PRE: eventsForDay all share one DateKey; hr.Max > hr.Min
// POST: output is sorted by (start, id) and deterministic; input not mutated
func Layout(eventsForDay []EventRecord, hr HourRange) []PositionedEvent {
	if len(eventsForDay) == 0 {
		return nil
	}

	out := make([]PositionedEvent, len(eventsForDay))
	for i, e := range eventsForDay {
		top := clamp(e.StartHour(), hr.Min, hr.Max)
		out[i] = PositionedEvent{
			Event:     e,
			Lane:      0,
			LaneCount: 1,
			TopOffset: top,
			Height:    clamp(e.DurationHours(), 0, hr.Max-top),
		}
	}

	// Deterministic processing order: ascending start, ties by ID.
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Event.StartHour(), out[j].Event.StartHour()
		if si != sj {
			return si < sj
		}
		return out[i].Event.ID < out[j].Event.ID
	})

	assignLanes(out)
	return out
}

// assignLanes walks events sorted by start, splitting them into overlap
// groups and greedily packing lanes within each group.
func assignLanes(events []PositionedEvent) {
	groupStart := 0
	groupMaxEnd := interval(events[0]).end

	for i := 1; i <= len(events); i++ {
		if i < len(events) {
			iv := interval(events[i])
			if iv.start < groupMaxEnd {
				// Still chained into the current component.
				if iv.end > groupMaxEnd {
					groupMaxEnd = iv.end
				}
				continue
			}
		}
		packGroup(events[groupStart:i])
		if i < len(events) {
			groupStart = i
			groupMaxEnd = interval(events[i]).end
		}
	}
}

// packGroup assigns lanes within one connected overlap group.
// Greedy lowest-free-lane on intervals sorted by start uses exactly as many
// lanes as the group's maximum concurrency, which every member reports as
// its LaneCount.
func packGroup(group []PositionedEvent) {
	laneEnds := make([]float64, 0, len(group))
	for i := range group {
		iv := interval(group[i])
		lane := -1
		for l, end := range laneEnds {
			if end <= iv.start {
				lane = l
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, 0)
		}
		laneEnds[lane] = iv.end
		group[i].Lane = lane
	}
	for i := range group {
		group[i].LaneCount = len(laneEnds)
	}
}

type hourInterval struct {
	start, end float64
}

// interval returns the raw (unclipped) hour interval used for overlap tests.
// A zero-duration event yields an empty interval that intersects nothing.
func interval(p PositionedEvent) hourInterval {
	s := p.Event.StartHour()
	return hourInterval{start: s, end: s + p.Event.DurationHours()}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
