package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/auth"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
)

// itemResponse is an item as listed. The detail of a protected item stays
// hidden until the gate unlocks it.
type itemResponse struct {
	models.Item
	Locked bool `json:"locked"`
}

func present(gate *tracker.AccessGate, it models.Item) itemResponse {
	if !it.HasPIN || gate.IsUnlocked(it.ID) {
		return itemResponse{Item: it}
	}
	it.Description = ""
	it.Notes = ""
	it.ItemPhoto = nil
	it.LocationPhoto = nil
	return itemResponse{Item: it, Locked: true}
}

func presentAll(gate *tracker.AccessGate, items []models.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = present(gate, it)
	}
	return out
}

// itemRequest is the add/edit body. expiry_date takes the same forms as on
// reminders.
type itemRequest struct {
	tracker.ItemDraft
	ExpiryDate *string `json:"expiry_date"`
}

func decodeItem(w http.ResponseWriter, r *http.Request) (tracker.ItemDraft, bool) {
	var in itemRequest
	if !decodeJSON(w, r, &in) {
		return tracker.ItemDraft{}, false
	}
	d := in.ItemDraft
	d.ExpiryDate = nil
	if in.ExpiryDate != nil && *in.ExpiryDate != "" {
		t, err := parseDay(*in.ExpiryDate)
		if err != nil {
			auth.SendErrorResponse(w, "expiry_date must be YYYY-MM-DD or RFC 3339", "VALIDATION_ERROR", http.StatusBadRequest)
			return d, false
		}
		d.ExpiryDate = &t
	}
	return d, true
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	p := parseListParams(r)
	found := sess.Search(p.query)
	sendListResponse(w, presentAll(sess.Gate, page(found, p)), len(found), p)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Tags())
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	it, ok := sess.Items.Get(chi.URLParam(r, "id"))
	if !ok {
		sendError(w, tracker.ErrUnknownItem)
		return
	}
	resp := present(sess.Gate, it)
	if resp.Locked {
		auth.SendErrorResponse(w, "item is PIN protected", "PIN_REQUIRED", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeItem(w, r)
	if !ok {
		return
	}
	sess := sessionFrom(r)
	created, err := sess.AddItem(r.Context(), in)
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, present(sess.Gate, created))
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeItem(w, r)
	if !ok {
		return
	}
	sess := sessionFrom(r)
	updated, err := sess.UpdateItem(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, present(sess.Gate, updated))
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	if _, err := sessionFrom(r).RemoveItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) editItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if _, err := sess.EditItem(chi.URLParam(r, "id")); err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Router.Screen())
}

func (s *Server) selectItem(w http.ResponseWriter, r *http.Request) {
	sel, err := sessionFrom(r).SelectItem(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// assignment is the body of the group and container routes. A null or
// missing id detaches the item.
type assignment struct {
	ID *string `json:"id"`
}

func (s *Server) assignGroup(w http.ResponseWriter, r *http.Request) {
	var in assignment
	if !decodeJSON(w, r, &in) {
		return
	}
	sess := sessionFrom(r)
	updated, err := sess.AssignGroup(r.Context(), chi.URLParam(r, "id"), in.ID)
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, present(sess.Gate, updated))
}

func (s *Server) assignContainer(w http.ResponseWriter, r *http.Request) {
	var in assignment
	if !decodeJSON(w, r, &in) {
		return
	}
	sess := sessionFrom(r)
	updated, err := sess.AssignContainer(r.Context(), chi.URLParam(r, "id"), in.ID)
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, present(sess.Gate, updated))
}

func (s *Server) gateState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Gate.State())
}

func (s *Server) enterDigit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Digit string `json:"digit"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if len(in.Digit) != 1 {
		auth.SendErrorResponse(w, "digit must be a single character", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	gate := sessionFrom(r).Gate
	if err := gate.Enter(in.Digit[0]); err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gate.State())
}

func (s *Server) submitPIN(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PIN string `json:"pin"`
	}
	if r.ContentLength > 0 && !decodeJSON(w, r, &in) {
		return
	}
	sess := sessionFrom(r)
	id, err := sess.SubmitPIN(in.PIN)
	if err != nil {
		sendError(w, err)
		return
	}
	it, ok := sess.Items.Get(id)
	if !ok {
		sendError(w, tracker.ErrUnknownItem)
		return
	}
	writeJSON(w, http.StatusOK, present(sess.Gate, it))
}

func (s *Server) cancelChallenge(w http.ResponseWriter, r *http.Request) {
	gate := sessionFrom(r).Gate
	gate.Cancel()
	writeJSON(w, http.StatusOK, gate.State())
}
