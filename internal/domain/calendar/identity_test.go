package calendar

import (
	"reflect"
	"testing"
)

// TestResolveIdentity_Precedence walks the full precedence chain:
// override > enrolled ownership > external source > fill-rate default.
func TestResolveIdentity_Precedence(t *testing.T) {
	overrides := map[string]Override{
		"ov":    {EventID: "ov", ColorToken: "teal", Label: "board meeting"},
		"blank": {EventID: "blank"}, // empty token: no effect
	}

	tests := []struct {
		name  string
		event EventRecord
		want  Identity
	}{
		{
			"override wins over everything",
			EventRecord{ID: "ov", Source: SourceExternal, Ownership: OwnershipEnrolled},
			Identity{ColorToken: "teal", Label: "board meeting"},
		},
		{
			"empty override token falls through",
			EventRecord{ID: "blank", Source: SourceExternal},
			Identity{ColorToken: ColorExternal},
		},
		{
			"enrolled beats external source",
			EventRecord{ID: "e1", Source: SourceExternal, Ownership: OwnershipEnrolled},
			Identity{ColorToken: ColorEnrolled, Label: "enrolled"},
		},
		{
			"external source beats fill rate",
			EventRecord{ID: "e2", Source: SourceExternal, VolunteersNeeded: 10},
			Identity{ColorToken: ColorExternal},
		},
		{
			"registered ownership does not outrank source",
			EventRecord{ID: "e3", Source: SourceExternal, Ownership: OwnershipRegistered},
			Identity{ColorToken: ColorExternal},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveIdentity(tc.event, overrides)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

// TestResolveIdentity_FillRate verifies the staffing thresholds on internal
// events with no override or ownership.
func TestResolveIdentity_FillRate(t *testing.T) {
	tests := []struct {
		name               string
		needed, registered int
		want               string
	}{
		{"empty signup sheet", 10, 0, ColorCritical},
		{"under half", 10, 4, ColorCritical},
		{"exactly half", 10, 5, ColorWarning},
		{"nearly full", 10, 9, ColorWarning},
		{"full", 10, 10, ColorFilled},
		{"over-subscribed", 10, 12, ColorFilled},
		{"no volunteers needed", 0, 0, ColorFilled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := EventRecord{
				ID:                   "a",
				Source:               SourceInternal,
				Ownership:            OwnershipNone,
				VolunteersNeeded:     tc.needed,
				VolunteersRegistered: tc.registered,
			}
			got := ResolveIdentity(e, nil)
			if got.ColorToken != tc.want {
				t.Errorf("color = %q, want %q", got.ColorToken, tc.want)
			}
			if got.Label != "" {
				t.Errorf("fill-rate identity must carry no label, got %q", got.Label)
			}
		})
	}
}

// TestMerge verifies concatenation order and the no-dedup policy.
func TestMerge(t *testing.T) {
	internal := []EventRecord{
		{ID: "a", Source: SourceInternal},
		{ID: "b", Source: SourceInternal},
	}
	external := []EventRecord{
		{ID: "x", Source: SourceExternal},
		{ID: "a", Source: SourceExternal}, // same ID, different source: both kept
	}

	merged := Merge(internal, external)

	wantIDs := []string{"a", "b", "x", "a"}
	if len(merged) != len(wantIDs) {
		t.Fatalf("merged %d events, want %d", len(merged), len(wantIDs))
	}
	for i, id := range wantIDs {
		if merged[i].ID != id {
			t.Errorf("merged[%d].ID = %q, want %q", i, merged[i].ID, id)
		}
	}
	if merged[0].Source != SourceInternal || merged[3].Source != SourceExternal {
		t.Error("provenance tags must survive the merge")
	}
}

// TestMerge_Empty verifies degenerate inputs.
func TestMerge_Empty(t *testing.T) {
	if got := Merge(); len(got) != 0 {
		t.Errorf("Merge() = %v, want empty", got)
	}
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("Merge(nil, nil) = %v, want empty", got)
	}
}
