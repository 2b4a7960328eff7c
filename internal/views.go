package internal

import (
	"net/http"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/auth"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
)

type sessionResponse struct {
	OwnerID   string         `json:"owner_id"`
	Screen    tracker.Screen `json:"screen"`
	Items     int            `json:"items"`
	Reminders int            `json:"reminders"`
	Warning   string         `json:"warning,omitempty"`
}

// startSession signs the caller in and loads their data.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FirstTime bool `json:"first_time"`
	}
	if r.ContentLength > 0 && !decodeJSON(w, r, &in) {
		return
	}

	ownerID := auth.OwnerIDFromContext(r.Context())
	sess, err := s.Sessions.Start(r.Context(), ownerID, in.FirstTime)
	resp := sessionResponse{
		OwnerID:   ownerID,
		Screen:    sess.Router.Screen(),
		Items:     sess.Items.Len(),
		Reminders: len(sess.Reminders.Reminders()),
	}
	if err != nil {
		resp.Warning = "Some data could not be loaded, please try again"
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if !s.Sessions.End(auth.OwnerIDFromContext(r.Context())) {
		auth.SendErrorResponse(w, "not signed in", "NO_SESSION", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Router.Screen())
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		View string `json:"view"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	v, err := tracker.ParseView(in.View)
	if err != nil {
		sendError(w, err)
		return
	}
	sess := sessionFrom(r)
	sess.Router.Navigate(v)
	writeJSON(w, http.StatusOK, sess.Router.Screen())
}
