package calendar

// Bucket assigns each event to the grid cell matching its DateKey.
// PRE: events are normalized (DateKey set)
// POST: each returned bucket preserves the input order of events; ties are
// broken by original list position, never re-sorted by time. Events whose
// DateKey matches no cell belong to a different period and are silently
// excluded; that is expected, not an error.
func Bucket(events []EventRecord, g Grid) map[string][]EventRecord {
	keys := make(map[string]bool, len(g.Cells))
	for _, c := range g.Cells {
		keys[c.Key] = true
	}

	buckets := make(map[string][]EventRecord)
	for _, e := range events {
		if keys[e.DateKey] {
			buckets[e.DateKey] = append(buckets[e.DateKey], e)
		}
	}
	return buckets
}
