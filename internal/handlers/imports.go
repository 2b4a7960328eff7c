package handlers

import (
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/auth"
	"github.com/mubashira9/Cosmic-Tracker-sub000/pkg/importer"
)

const defaultMaxErrors = 50

// AdderFunc resolves the write path for the caller of r.
type AdderFunc func(r *http.Request) importer.Adder

// ImportsHandler handles Excel import operations
type ImportsHandler struct {
	Adder      AdderFunc
	MaxBytes   int64
	DefaultMap string
}

// NewImportsHandler creates a new imports handler
func NewImportsHandler(adder AdderFunc) *ImportsHandler {
	return &ImportsHandler{
		Adder:    adder,
		MaxBytes: 20 << 20,
	}
}

// importForm is the parsed upload. The caller closes File.
type importForm struct {
	File multipart.File
	Opts importer.ImportOptions
}

type formError struct {
	code    string
	message string
}

func (h *ImportsHandler) parseForm(w http.ResponseWriter, r *http.Request) (*importForm, *formError) {
	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, &formError{"INVALID_CONTENT_TYPE", "content-type must be multipart/form-data"}
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		return nil, &formError{"INVALID_FORM", "invalid multipart form: " + err.Error()}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &formError{"MISSING_FILE", "file is required: " + err.Error()}
	}
	if !isXLSX(header) {
		file.Close()
		return nil, &formError{"UNSUPPORTED_FILE", "only .xlsx files are accepted"}
	}

	opts := importer.ImportOptions{
		Sheet:       r.FormValue("sheet"),
		MappingPath: h.DefaultMap,
		DryRun:      r.FormValue("dry_run") == "true",
		MaxErrors:   defaultMaxErrors,
	}
	if n, err := strconv.Atoi(r.FormValue("max_errors")); err == nil && n > 0 {
		opts.MaxErrors = n
	}
	return &importForm{File: file, Opts: opts}, nil
}

// UploadExcel adds the rows of an uploaded workbook to the caller's inventory.
// The summary is returned on failure too, so the client sees which rows broke.
func (h *ImportsHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	form, ferr := h.parseForm(w, r)
	if ferr != nil {
		auth.SendErrorResponse(w, ferr.message, ferr.code, http.StatusBadRequest)
		return
	}
	defer form.File.Close()

	owner := auth.OwnerIDFromContext(r.Context())
	if owner == "" {
		auth.SendErrorResponse(w, "Authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	sum, err := importer.ImportExcel(r.Context(), h.Adder(r), form.File, form.Opts)
	if err != nil {
		log.Printf("import for %s stopped after %d rows: %v", owner, sum.Inserted, err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "IMPORT_FAILED",
			"details": err.Error(),
			"data":    sum,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": sum,
		"meta": map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func isXLSX(h *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(h.Filename), ".xlsx")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("writing response: %v", err)
	}
}
