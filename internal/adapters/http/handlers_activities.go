package web

import (
	"net/http"

	"volunteerhub/internal/application/orchestrators"
	"volunteerhub/internal/application/projections"
	"volunteerhub/internal/domain/activity"
)

// activityResponse is the JSON shape for a single activity. Description is
// delivered both raw (for edit forms) and rendered as HTML.
type activityResponse struct {
	ID               string
	Title            string
	Description      string
	DescriptionHTML  string
	Location         string
	StartTime        string
	EndTime          string
	VolunteersNeeded int
	Archived         bool
}

func toActivityResponse(a activity.Activity) activityResponse {
	return activityResponse{
		ID:               a.ID,
		Title:            a.Title,
		Description:      a.Description,
		DescriptionHTML:  renderMarkdown(a.Description),
		Location:         a.Location,
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		VolunteersNeeded: a.VolunteersNeeded,
		Archived:         a.Archived,
	}
}

// handleActivities handles GET (list or detail) and POST (create/update) for /api/activities
func handleActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		if id := r.URL.Query().Get("id"); id != "" {
			a, err := stores.ActivityStore.GetByID(ctx, id)
			if err != nil {
				http.Error(w, "activity not found", http.StatusNotFound)
				return
			}
			writeJSON(w, toActivityResponse(a))
			return
		}

		activities, err := stores.ActivityStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		responses := make([]activityResponse, 0, len(activities))
		for _, a := range activities {
			responses = append(responses, toActivityResponse(a))
		}
		writeJSON(w, responses)
		return
	}

	if r.Method == "POST" {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		var input struct {
			ID               string `json:"ID"`
			Title            string `json:"Title"`
			Description      string `json:"Description"`
			Location         string `json:"Location"`
			StartTime        string `json:"StartTime"`
			EndTime          string `json:"EndTime"`
			VolunteersNeeded int    `json:"VolunteersNeeded"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		result, err := orchestrators.ExecuteCreateActivity(ctx, orchestrators.CreateActivityInput{
			ID:               input.ID,
			Title:            input.Title,
			Description:      input.Description,
			Location:         input.Location,
			StartTime:        input.StartTime,
			EndTime:          input.EndTime,
			VolunteersNeeded: input.VolunteersNeeded,
		}, orchestrators.CreateActivityDeps{
			ActivityStore: stores.ActivityStore,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if result.Created {
			w.WriteHeader(http.StatusCreated)
		}
		writeJSON(w, map[string]any{"ID": result.ID, "Created": result.Created})
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// handleActivityRoster handles GET /api/activities/roster?id=<id> (staff only)
func handleActivityRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	result, err := projections.QueryGetActivityRoster(r.Context(), projections.GetActivityRosterQuery{
		ActivityID: id,
	}, projections.GetActivityRosterDeps{
		ActivityStore: stores.ActivityStore,
		SignupStore:   stores.SignupStore,
		AccountStore:  stores.AccountStore,
	})
	if err != nil {
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

// handleArchiveActivity handles POST /api/activities/archive
func handleArchiveActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		ActivityID string `json:"ActivityID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteArchiveActivity(r.Context(), input.ActivityID, orchestrators.CreateActivityDeps{
		ActivityStore: stores.ActivityStore,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
