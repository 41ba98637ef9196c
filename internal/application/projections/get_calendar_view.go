package projections

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"volunteerhub/internal/domain/calendar"
)

// GetCalendarViewQuery carries query parameters for the calendar view.
type GetCalendarViewQuery struct {
	View      calendar.ViewState
	Today     time.Time
	Search    string
	AccountID string // viewer; empty for anonymous rendering
}

// SyncStatus reports the health of the external feed backing the view.
type SyncStatus struct {
	SyncedAt time.Time
	Degraded bool   // last sync attempt failed; events may be stale
	Error    string // human-readable failure reason when degraded
}

// GetCalendarViewResult carries the fully resolved calendar view: the grid,
// per-day event buckets, time-grid geometry for week and day modes, display
// identities, and any raw records skipped during normalization.
type GetCalendarViewResult struct {
	View    calendar.ViewState
	Grid    calendar.Grid
	Buckets map[string][]calendar.EventRecord

	// Positioned holds lane and offset geometry per day key. Populated only
	// for week and day modes; month cells render compact chips and need none.
	Positioned map[string][]calendar.PositionedEvent

	// Identities maps event ID to its resolved display identity.
	Identities map[string]calendar.Identity

	// Skipped lists raw records dropped during normalization. The view still
	// renders; callers may surface these as a warning.
	Skipped []calendar.ValidationError

	Sync SyncStatus
}

// GetCalendarViewDeps holds dependencies for GetCalendarView.
type GetCalendarViewDeps struct {
	ActivityStore ActivityStore
	SignupStore   SignupStore
	OverrideStore OverrideStore
	Feed          ExternalFeed
	HourRange     calendar.HourRange // zero value falls back to the default range
}

// QueryGetCalendarView assembles the calendar view for one period.
// PRE: query.View has a valid mode and reference date
// POST: every event in Buckets has an entry in Identities; malformed raw
// records are collected in Skipped, never fatal
// INVARIANT: identical inputs produce identical results
func QueryGetCalendarView(ctx context.Context, query GetCalendarViewQuery, deps GetCalendarViewDeps) (GetCalendarViewResult, error) {
	grid := calendar.GenerateGrid(query.View, query.Today)

	var skipped []calendar.ValidationError

	internal, skippedInternal, err := loadInternalEvents(ctx, grid, query.AccountID, deps)
	if err != nil {
		return GetCalendarViewResult{}, err
	}
	skipped = append(skipped, skippedInternal...)

	external, skippedExternal := normalizeExternal(deps.Feed)
	skipped = append(skipped, skippedExternal...)

	merged := calendar.Merge(internal, external)
	filtered := calendar.FilterByQuery(merged, query.Search)
	buckets := calendar.Bucket(filtered, grid)

	hr := deps.HourRange
	if hr.Max <= hr.Min {
		hr = calendar.DefaultHourRange
	}
	var positioned map[string][]calendar.PositionedEvent
	if query.View.Mode != calendar.ModeMonth {
		positioned = make(map[string][]calendar.PositionedEvent, len(buckets))
		for key, events := range buckets {
			positioned[key] = calendar.Layout(events, hr)
		}
	}

	overrides, err := deps.OverrideStore.GetAll(ctx)
	if err != nil {
		return GetCalendarViewResult{}, err
	}
	identities := make(map[string]calendar.Identity)
	for _, events := range buckets {
		for _, e := range events {
			identities[e.ID] = calendar.ResolveIdentity(e, overrides)
		}
	}

	if len(skipped) > 0 {
		slog.Warn("calendar view skipped malformed records", "count", len(skipped))
	}

	return GetCalendarViewResult{
		View:       query.View,
		Grid:       grid,
		Buckets:    buckets,
		Positioned: positioned,
		Identities: identities,
		Skipped:    skipped,
		Sync:       feedStatus(deps.Feed),
	}, nil
}

// loadInternalEvents pulls activities overlapping the grid and normalizes
// them with the viewer's ownership applied.
func loadInternalEvents(ctx context.Context, grid calendar.Grid, accountID string, deps GetCalendarViewDeps) ([]calendar.EventRecord, []calendar.ValidationError, error) {
	if len(grid.Cells) == 0 {
		return nil, nil, nil
	}
	from := grid.Cells[0].Date.Format("2006-01-02T15:04:05")
	to := grid.Cells[len(grid.Cells)-1].Date.AddDate(0, 0, 1).Format("2006-01-02T15:04:05")

	activities, err := deps.ActivityStore.ListStartingBetween(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	if len(activities) == 0 {
		return nil, nil, nil
	}

	ids := make([]string, len(activities))
	for i, a := range activities {
		ids[i] = a.ID
	}
	counts, err := deps.SignupStore.CountActiveByActivity(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	ownership := map[string]string{}
	if accountID != "" {
		signups, err := deps.SignupStore.ListByAccount(ctx, accountID)
		if err != nil {
			return nil, nil, err
		}
		for _, su := range signups {
			if su.IsActive() {
				ownership[su.ActivityID] = su.Ownership()
			}
		}
	}

	var events []calendar.EventRecord
	var skipped []calendar.ValidationError
	for _, a := range activities {
		e, err := calendar.NormalizeActivity(a.ToRaw(counts[a.ID]), ownership[a.ID])
		if err != nil {
			skipped = append(skipped, *asValidationError(err))
			continue
		}
		events = append(events, e)
	}
	return events, skipped, nil
}

// normalizeExternal converts the sync snapshot, skipping malformed entries.
func normalizeExternal(feed ExternalFeed) ([]calendar.EventRecord, []calendar.ValidationError) {
	if feed == nil {
		return nil, nil
	}
	var events []calendar.EventRecord
	var skipped []calendar.ValidationError
	for _, raw := range feed.Events() {
		e, err := calendar.NormalizeSynced(raw)
		if err != nil {
			skipped = append(skipped, *asValidationError(err))
			continue
		}
		events = append(events, e)
	}
	return events, skipped
}

func feedStatus(feed ExternalFeed) SyncStatus {
	if feed == nil {
		return SyncStatus{}
	}
	status := SyncStatus{SyncedAt: feed.SyncedAt()}
	if err := feed.LastError(); err != nil {
		status.Degraded = true
		status.Error = err.Error()
	}
	return status
}

func asValidationError(err error) *calendar.ValidationError {
	var verr *calendar.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &calendar.ValidationError{Reason: err.Error()}
}
