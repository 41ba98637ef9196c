package web

import (
	"net/http"
	"time"

	"volunteerhub/internal/adapters/http/middleware"
	"volunteerhub/internal/application/orchestrators"
	"volunteerhub/internal/application/projections"
	"volunteerhub/internal/domain/calendar"
)

// ViewHourRange bounds the visible hours of week and day time grids.
// The zero value falls back to the projection's default range.
var ViewHourRange calendar.HourRange

// parseViewState builds a ViewState from query parameters. An unknown mode
// falls back to month; a missing or malformed date anchors on today.
func parseViewState(r *http.Request, today time.Time) calendar.ViewState {
	mode := r.URL.Query().Get("mode")
	switch mode {
	case calendar.ModeMonth, calendar.ModeWeek, calendar.ModeDay:
	default:
		mode = calendar.ModeMonth
	}

	reference := calendar.Midnight(today)
	if d := r.URL.Query().Get("date"); d != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", d, time.Local); err == nil {
			reference = parsed
		}
	}

	return calendar.ViewState{Mode: mode, Reference: reference}
}

// handleCalendarView handles GET /api/calendar/view
//
// Query parameters:
//
//	mode    month | week | day (default month)
//	date    reference date, YYYY-MM-DD (default today)
//	action  next | prev | today, applied to the reference before rendering
//	q       search filter over title and location
func handleCalendarView(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	today := timeNow()
	view := parseViewState(r, today)

	switch r.URL.Query().Get("action") {
	case "next":
		view = calendar.Next(view)
	case "prev":
		view = calendar.Prev(view)
	case "today":
		view = calendar.Today(view, today)
	}

	// Ownership coloring is per viewer; anonymous visitors still get the view.
	accountID := ""
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		accountID = sess.AccountID
	}

	result, err := projections.QueryGetCalendarView(r.Context(), projections.GetCalendarViewQuery{
		View:      view,
		Today:     today,
		Search:    r.URL.Query().Get("q"),
		AccountID: accountID,
	}, projections.GetCalendarViewDeps{
		ActivityStore: stores.ActivityStore,
		SignupStore:   stores.SignupStore,
		OverrideStore: stores.OverrideStore,
		Feed:          externalFeed,
		HourRange:     ViewHourRange,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, result)
}

// handleOverrides handles PUT/DELETE for /api/calendar/overrides
func handleOverrides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "PUT" {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		var input struct {
			EventID    string `json:"EventID"`
			ColorToken string `json:"ColorToken"`
			Label      string `json:"Label"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteSetOverride(ctx, orchestrators.SetOverrideInput{
			EventID:    input.EventID,
			ColorToken: input.ColorToken,
			Label:      input.Label,
		}, orchestrators.SetOverrideDeps{
			OverrideStore: stores.OverrideStore,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method == "DELETE" {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		eventID := r.URL.Query().Get("event_id")
		if eventID == "" {
			http.Error(w, "event_id is required", http.StatusBadRequest)
			return
		}
		// Clearing goes through the same orchestrator; empty token deletes.
		err := orchestrators.ExecuteSetOverride(ctx, orchestrators.SetOverrideInput{
			EventID: eventID,
		}, orchestrators.SetOverrideDeps{
			OverrideStore: stores.OverrideStore,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}
