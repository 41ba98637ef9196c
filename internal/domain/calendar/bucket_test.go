package calendar

import (
	"testing"
	"time"
)

func dayEvent(id, key string) EventRecord {
	day, _ := time.ParseInLocation(DateKeyFormat, key, time.Local)
	return EventRecord{
		ID:      id,
		Title:   id,
		Start:   day.Add(9 * time.Hour),
		End:     day.Add(10 * time.Hour),
		Source:  SourceInternal,
		DateKey: key,
	}
}

// TestBucket_Membership verifies an event appears under its DateKey exactly
// when some grid cell carries that date, regardless of the cell's InPeriod
// flag.
func TestBucket_Membership(t *testing.T) {
	g := GenerateGrid(ViewState{Mode: ModeMonth, Reference: date(2026, 1, 15)}, date(2026, 1, 15))
	events := []EventRecord{
		dayEvent("in-month", "2026-01-15"),
		dayEvent("adjacent-cell", "2025-12-29"), // out-of-period but on the grid
		dayEvent("off-grid", "2026-06-01"),
	}

	buckets := Bucket(events, g)

	if got := buckets["2026-01-15"]; len(got) != 1 || got[0].ID != "in-month" {
		t.Errorf("2026-01-15 bucket = %v", got)
	}
	if got := buckets["2025-12-29"]; len(got) != 1 || got[0].ID != "adjacent-cell" {
		t.Errorf("adjacent-cell must bucket into the visible grid cell, got %v", got)
	}
	if _, ok := buckets["2026-06-01"]; ok {
		t.Error("off-grid event must be silently excluded")
	}
}

// TestBucket_PreservesInputOrder verifies same-day events keep their original
// list position, never re-sorted by time.
func TestBucket_PreservesInputOrder(t *testing.T) {
	g := GenerateGrid(ViewState{Mode: ModeDay, Reference: date(2026, 1, 15)}, date(2026, 1, 15))
	later := dayEvent("later", "2026-01-15")
	later.Start = later.Start.Add(6 * time.Hour)
	earlier := dayEvent("earlier", "2026-01-15")

	buckets := Bucket([]EventRecord{later, earlier}, g)

	got := buckets["2026-01-15"]
	if len(got) != 2 || got[0].ID != "later" || got[1].ID != "earlier" {
		t.Errorf("bucket order = %v, want input order [later earlier]", got)
	}
}

// TestBucket_OnlyNonEmptyKeys verifies empty days produce no map entry.
func TestBucket_OnlyNonEmptyKeys(t *testing.T) {
	g := GenerateGrid(ViewState{Mode: ModeWeek, Reference: date(2026, 1, 15)}, date(2026, 1, 15))
	buckets := Bucket([]EventRecord{dayEvent("only", "2026-01-13")}, g)
	if len(buckets) != 1 {
		t.Errorf("expected 1 bucket, got %d: %v", len(buckets), buckets)
	}
}
