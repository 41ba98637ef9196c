package calendar

// Color tokens understood by the rendering layer. The internal defaults
// encode staffing fill rate, matching the original surface: red below half
// filled, amber below fully filled, green otherwise.
const (
	ColorCritical = "red"
	ColorWarning  = "amber"
	ColorFilled   = "green"
	ColorExternal = "blue"
	ColorEnrolled = "purple"
)

// Identity is the resolved display decision for one event. It is derived,
// never persisted as domain state.
type Identity struct {
	ColorToken string
	Label      string // empty when no badge applies
}

// Override is a per-event user override of the display identity, keyed by
// event ID. Overrides are persisted by the storage layer across sessions.
type Override struct {
	EventID    string
	ColorToken string
	Label      string
}

// Merge concatenates normalized event streams, preserving each event's
// provenance tag. No deduplication is performed across sources: internal and
// external streams are independent, and an event present in both appears
// twice.
// POST: result order is sources[0] then sources[1] ... with each source's
// internal order intact; inputs are not mutated
func Merge(sources ...[]EventRecord) []EventRecord {
	n := 0
	for _, s := range sources {
		n += len(s)
	}
	merged := make([]EventRecord, 0, n)
	for _, s := range sources {
		merged = append(merged, s...)
	}
	return merged
}

// ResolveIdentity resolves the display identity for an event. It is pure and
// total: every EventRecord gets a valid Identity.
// Precedence, highest first: explicit per-event override, Enrolled ownership,
// External source, fill-rate default.
// POST: returned ColorToken is never empty
func ResolveIdentity(e EventRecord, overrides map[string]Override) Identity {
	if o, ok := overrides[e.ID]; ok && o.ColorToken != "" {
		return Identity{ColorToken: o.ColorToken, Label: o.Label}
	}
	if e.Ownership == OwnershipEnrolled {
		return Identity{ColorToken: ColorEnrolled, Label: "enrolled"}
	}
	if e.Source == SourceExternal {
		return Identity{ColorToken: ColorExternal}
	}
	return Identity{ColorToken: fillRateColor(e)}
}

func fillRateColor(e EventRecord) string {
	if e.VolunteersNeeded <= 0 {
		return ColorFilled
	}
	fill := float64(e.VolunteersRegistered) / float64(e.VolunteersNeeded)
	switch {
	case fill < 0.5:
		return ColorCritical
	case fill < 1:
		return ColorWarning
	default:
		return ColorFilled
	}
}
