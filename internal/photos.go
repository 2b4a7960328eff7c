package internal

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/auth"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/imaging"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
	"github.com/mubashira9/Cosmic-Tracker-sub000/pkg/exporter"
)

// photoSearch ranks the caller's items against an uploaded photo sent as
// multipart field "image".
func (s *Server) photoSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)

	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		auth.SendErrorResponse(w, "content-type must be multipart/form-data", "INVALID_CONTENT_TYPE", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			sendError(w, imaging.ErrTooLarge)
			return
		}
		auth.SendErrorResponse(w, "image is required: "+err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	defer file.Close()

	sess := sessionFrom(r)
	result, err := s.Photos.Search(r.Context(), file, sess.Items.Items())
	if err != nil {
		if errors.Is(err, imaging.ErrTooLarge) {
			sendError(w, err)
			return
		}
		auth.SendErrorResponse(w, err.Error(), "INVALID_PHOTO", http.StatusBadRequest)
		return
	}
	s.Metrics.ObservePhotoSearch(result.Fallback)

	for i := range result.Matches {
		result.Matches[i].Item = present(sess.Gate, result.Matches[i].Item).Item
	}
	writeJSON(w, http.StatusOK, result)
}

// exportWorkbook streams the caller's inventory as an .xlsx download.
func (s *Server) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	groups, err := sess.Groups(r.Context())
	if err != nil {
		sendError(w, err)
		return
	}
	tree, err := sess.Containers(r.Context())
	if err != nil {
		sendError(w, err)
		return
	}
	containers := make([]models.Container, 0, tree.Len())
	for _, e := range tree.Walk() {
		containers = append(containers, e.Container)
	}

	now := time.Now().UTC()
	var buf bytes.Buffer
	err = exporter.Write(&buf, exporter.Workbook{
		Items:      sess.Items.Items(),
		Reminders:  sess.Reminders.Reminders(),
		Groups:     groups,
		Containers: containers,
		Now:        now,
	})
	if err != nil {
		log.Printf("export for %s failed: %v", sess.OwnerID, err)
		auth.SendErrorResponse(w, "export failed", "EXPORT_FAILED", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cosmic-tracker-%s.xlsx"`, now.Format(time.DateOnly)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("export for %s: writing response: %v", sess.OwnerID, err)
	}
}
