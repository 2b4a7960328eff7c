package internal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/auth"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
)

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	entries := sessionFrom(r).History.Entries()
	sendListResponse(w, page(entries, p), len(entries), p)
}

// listReminders returns the reminders with their status today. status=due or
// status=expired narrows the list.
func (s *Server) listReminders(w http.ResponseWriter, r *http.Request) {
	store := sessionFrom(r).Reminders
	now := time.Now().UTC()

	var views []tracker.ReminderView
	switch r.URL.Query().Get("status") {
	case "", "all":
		views = store.Status(now)
	case "due":
		views = store.Due(now)
	case "expired":
		views = store.Expired(now)
	default:
		auth.SendErrorResponse(w, "status must be all, due or expired", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) createReminder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ItemID             string `json:"item_id"`
		ExpiryDate         string `json:"expiry_date"`
		ReminderDaysBefore int    `json:"reminder_days_before"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	d := tracker.ReminderDraft{ItemID: in.ItemID, ReminderDaysBefore: in.ReminderDaysBefore}
	if in.ExpiryDate != "" {
		t, err := parseDay(in.ExpiryDate)
		if err != nil {
			auth.SendErrorResponse(w, "expiry_date must be YYYY-MM-DD or RFC 3339", "VALIDATION_ERROR", http.StatusBadRequest)
			return
		}
		d.ExpiryDate = t
	}

	created, err := sessionFrom(r).CreateReminder(r.Context(), d)
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) setReminderActive(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IsActive *bool `json:"is_active"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.IsActive == nil {
		auth.SendErrorResponse(w, "is_active is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	updated, err := sessionFrom(r).SetReminderActive(r.Context(), chi.URLParam(r, "id"), *in.IsActive)
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := sessionFrom(r).DeleteReminder(r.Context(), chi.URLParam(r, "id")); err != nil {
		sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
