package web

import (
	"errors"
	"net/http"

	"volunteerhub/internal/adapters/http/middleware"
	"volunteerhub/internal/application/orchestrators"
	"volunteerhub/internal/domain/signup"
)

func signupDeps() orchestrators.SignupVolunteerDeps {
	return orchestrators.SignupVolunteerDeps{
		ActivityStore: stores.ActivityStore,
		SignupStore:   stores.SignupStore,
		AccountStore:  stores.AccountStore,
		Sender:        emailSender,
	}
}

// handleSignups handles GET (my signups) and POST (register) for /api/signups
func handleSignups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		signups, err := stores.SignupStore.ListByAccount(ctx, sess.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		if signups == nil {
			signups = []signup.Signup{}
		}
		writeJSON(w, signups)
		return
	}

	if r.Method == "POST" {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		var input struct {
			ActivityID string `json:"ActivityID"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		result, err := orchestrators.ExecuteSignupVolunteer(ctx, orchestrators.SignupVolunteerInput{
			ActivityID: input.ActivityID,
			AccountID:  sess.AccountID,
		}, signupDeps())
		if err != nil {
			switch {
			case errors.Is(err, orchestrators.ErrActivityFull),
				errors.Is(err, orchestrators.ErrActivityArchived),
				errors.Is(err, orchestrators.ErrAlreadySignedUp):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]string{"SignupID": result.SignupID, "Status": result.Status})
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// handleEnrollSignup handles POST /api/signups/enroll (staff only)
func handleEnrollSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		SignupID string `json:"SignupID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteEnrollSignup(r.Context(), input.SignupID, signupDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCancelSignup handles POST /api/signups/cancel
// Volunteers may cancel their own signup; staff may cancel any.
func handleCancelSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		SignupID string `json:"SignupID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	su, err := stores.SignupStore.GetByID(r.Context(), input.SignupID)
	if err != nil {
		http.Error(w, "signup not found", http.StatusNotFound)
		return
	}
	if su.AccountID != sess.AccountID && !middleware.IsStaffOrAdmin(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := orchestrators.ExecuteCancelSignup(r.Context(), input.SignupID, signupDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
