package internal

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/auth"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/gateway"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/imaging"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
)

// listParams holds common query parameters for list endpoints
type listParams struct {
	limit  int
	offset int
	query  tracker.Query
}

// parseListParams parses limit, offset, q, category and tag from the request.
// Defaults: limit=50 (max 200), offset=0, category and tag "all".
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	limit := 50
	if s := strings.TrimSpace(values.Get("limit")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			if v > 200 {
				v = 200
			}
			limit = v
		}
	}

	offset := 0
	if s := strings.TrimSpace(values.Get("offset")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	return listParams{
		limit:  limit,
		offset: offset,
		query: tracker.Query{
			Text:     values.Get("q"),
			Category: strings.TrimSpace(values.Get("category")),
			Tag:      strings.TrimSpace(values.Get("tag")),
		},
	}
}

// page returns the window of list selected by p.
func page[T any](list []T, p listParams) []T {
	if p.offset >= len(list) {
		return []T{}
	}
	end := min(p.offset+p.limit, len(list))
	return list[p.offset:end]
}

type listResponse struct {
	Data   any `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func sendListResponse(w http.ResponseWriter, data any, total int, p listParams) {
	writeJSON(w, http.StatusOK, listResponse{Data: data, Total: total, Limit: p.limit, Offset: p.offset})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		auth.SendErrorResponse(w, "invalid JSON", "INVALID_JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// sendError maps tracker errors onto the API error codes.
func sendError(w http.ResponseWriter, err error) {
	var verr *tracker.ValidationError
	switch {
	case errors.As(err, &verr):
		auth.SendErrorResponse(w, verr.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, tracker.ErrUnknownItem):
		auth.SendErrorResponse(w, "item not found", "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, tracker.ErrIncorrectPIN):
		auth.SendErrorResponse(w, "incorrect PIN", "INCORRECT_PIN", http.StatusForbidden)
	case errors.Is(err, tracker.ErrNoChallenge):
		auth.SendErrorResponse(w, "no PIN challenge in progress", "NO_CHALLENGE", http.StatusConflict)
	case errors.Is(err, imaging.ErrTooLarge):
		auth.SendErrorResponse(w, err.Error(), "PHOTO_TOO_LARGE", http.StatusRequestEntityTooLarge)
	case errors.Is(err, gateway.ErrNotFound):
		auth.SendErrorResponse(w, "record not found", "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, gateway.ErrInvalidReference):
		auth.SendErrorResponse(w, "referenced group or container does not exist", "INVALID_REFERENCE", http.StatusBadRequest)
	case errors.Is(err, tracker.ErrGateway):
		auth.SendErrorResponse(w, "Something went wrong, please try again", "GATEWAY_ERROR", http.StatusBadGateway)
	default:
		log.Printf("unhandled error: %v", err)
		auth.SendErrorResponse(w, "internal error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
