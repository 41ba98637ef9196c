package calendar

import (
	"reflect"
	"testing"
	"time"
)

// timedEvent builds a normalized event on 2026-01-15 from fractional hours.
func timedEvent(id string, startHour, durationHours float64) EventRecord {
	day := date(2026, 1, 15)
	start := day.Add(time.Duration(startHour * float64(time.Hour)))
	return EventRecord{
		ID:      id,
		Title:   id,
		Start:   start,
		End:     start.Add(time.Duration(durationHours * float64(time.Hour))),
		Source:  SourceInternal,
		DateKey: "2026-01-15",
	}
}

func positionOf(t *testing.T, placed []PositionedEvent, id string) PositionedEvent {
	t.Helper()
	for _, p := range placed {
		if p.Event.ID == id {
			return p
		}
	}
	t.Fatalf("event %q not in layout", id)
	return PositionedEvent{}
}

// TestLayout_Geometry verifies the documented clamping formula.
func TestLayout_Geometry(t *testing.T) {
	hr := HourRange{Min: 6, Max: 22}
	tests := []struct {
		name       string
		start, dur float64
		wantTop    float64
		wantHeight float64
	}{
		{"inside range", 8, 2, 8, 2},
		{"zero duration", 10, 0, 10, 0},
		{"starts before range", 5, 3, 6, 3},
		{"runs past range end", 21, 4, 21, 1},
		{"entirely before range, pinned at boundary", 3, 2, 6, 2},
		{"entirely after range", 23, 1, 22, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			placed := Layout([]EventRecord{timedEvent("e1", tc.start, tc.dur)}, hr)
			if len(placed) != 1 {
				t.Fatalf("expected 1 positioned event, got %d", len(placed))
			}
			p := placed[0]
			if p.TopOffset != tc.wantTop || p.Height != tc.wantHeight {
				t.Errorf("top=%v height=%v, want top=%v height=%v",
					p.TopOffset, p.Height, tc.wantTop, tc.wantHeight)
			}
			if p.Lane != 0 || p.LaneCount != 1 {
				t.Errorf("single event must be lane 0 of 1, got %d of %d", p.Lane, p.LaneCount)
			}
		})
	}
}

// TestLayout_SimpleOverlap verifies the documented two-event scenario:
// 09:00-11:00 and 10:00-12:00 form one group with lanes {0,1}, LaneCount 2.
func TestLayout_SimpleOverlap(t *testing.T) {
	placed := Layout([]EventRecord{
		timedEvent("a", 9, 2),
		timedEvent("b", 10, 2),
	}, DefaultHourRange)

	a := positionOf(t, placed, "a")
	b := positionOf(t, placed, "b")
	if a.Lane != 0 || b.Lane != 1 {
		t.Errorf("lanes = {%d, %d}, want {0, 1}", a.Lane, b.Lane)
	}
	if a.LaneCount != 2 || b.LaneCount != 2 {
		t.Errorf("lane counts = {%d, %d}, want {2, 2}", a.LaneCount, b.LaneCount)
	}
}

// TestLayout_ChainOverlap verifies true max-concurrency lane counts for a
// chain A-B-C where A and C overlap B but not each other: one group, two
// lanes, LaneCount 2 (not group size 3). A naive assign-by-position scheme
// would report 3 here.
func TestLayout_ChainOverlap(t *testing.T) {
	placed := Layout([]EventRecord{
		timedEvent("a", 9, 1.5),  // 09:00-10:30
		timedEvent("b", 10, 1.5), // 10:00-11:30
		timedEvent("c", 11, 1.5), // 11:00-12:30
	}, DefaultHourRange)

	a := positionOf(t, placed, "a")
	b := positionOf(t, placed, "b")
	c := positionOf(t, placed, "c")

	for _, p := range []PositionedEvent{a, b, c} {
		if p.LaneCount != 2 {
			t.Errorf("event %s: LaneCount = %d, want 2 (max concurrency, not group size)",
				p.Event.ID, p.LaneCount)
		}
	}
	if a.Lane != 0 || b.Lane != 1 {
		t.Errorf("a,b lanes = %d,%d, want 0,1", a.Lane, b.Lane)
	}
	// C starts after A ends and must reuse A's freed lane.
	if c.Lane != 0 {
		t.Errorf("c must reuse lane 0, got %d", c.Lane)
	}
}

// TestLayout_DisjointGroups verifies that non-overlapping events stay in
// separate groups, each spanning full width.
func TestLayout_DisjointGroups(t *testing.T) {
	placed := Layout([]EventRecord{
		timedEvent("morning", 8, 1),
		timedEvent("noon", 12, 1),
		timedEvent("evening", 18, 2),
	}, DefaultHourRange)

	for _, p := range placed {
		if p.Lane != 0 || p.LaneCount != 1 {
			t.Errorf("event %s: lane %d of %d, want 0 of 1", p.Event.ID, p.Lane, p.LaneCount)
		}
	}
}

// TestLayout_TripleConcurrent verifies three simultaneously running events
// occupy three lanes.
func TestLayout_TripleConcurrent(t *testing.T) {
	placed := Layout([]EventRecord{
		timedEvent("a", 9, 3),
		timedEvent("b", 9.5, 2),
		timedEvent("c", 10, 3),
	}, DefaultHourRange)

	lanes := map[int]bool{}
	for _, p := range placed {
		if p.LaneCount != 3 {
			t.Errorf("event %s: LaneCount = %d, want 3", p.Event.ID, p.LaneCount)
		}
		lanes[p.Lane] = true
	}
	if !lanes[0] || !lanes[1] || !lanes[2] {
		t.Errorf("expected lanes {0,1,2}, got %v", lanes)
	}
}

// TestLayout_TieBrokenByID verifies deterministic ordering when two events
// share a start time.
func TestLayout_TieBrokenByID(t *testing.T) {
	placed := Layout([]EventRecord{
		timedEvent("zz", 9, 1),
		timedEvent("aa", 9, 1),
	}, DefaultHourRange)

	if positionOf(t, placed, "aa").Lane != 0 {
		t.Error("tie on start must assign lane 0 to the lower ID")
	}
	if positionOf(t, placed, "zz").Lane != 1 {
		t.Error("tie on start must assign lane 1 to the higher ID")
	}
}

// TestLayout_Idempotent verifies structural equality across repeated calls.
func TestLayout_Idempotent(t *testing.T) {
	events := []EventRecord{
		timedEvent("a", 9, 2),
		timedEvent("b", 10, 2),
		timedEvent("c", 14, 1),
	}
	first := Layout(events, DefaultHourRange)
	second := Layout(events, DefaultHourRange)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must produce identical layouts")
	}
}

// TestLayout_Empty verifies the degenerate input.
func TestLayout_Empty(t *testing.T) {
	if got := Layout(nil, DefaultHourRange); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}
