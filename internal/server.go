package internal

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/auth"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/config"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/gateway"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/handlers"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/photosearch"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
	"github.com/mubashira9/Cosmic-Tracker-sub000/pkg/importer"
)

type Server struct {
	Gateway    *gateway.Gateway
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *Metrics
	Sessions   *Sessions
	Photos     *photosearch.Searcher

	importMapping string
}

// NewServer wires the HTTP surface over gw. rec may be nil, in which case
// photos are tagged by the service configured in cfg.
func NewServer(gw *gateway.Gateway, cfg *config.Config, rec photosearch.Recognizer) (*Server, error) {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	if err := jwtManager.ValidateConfig(); err != nil {
		return nil, err
	}

	metrics := NewMetrics()
	gw.WithObserver(metrics)

	if rec == nil {
		rec = photosearch.NewClient(cfg.PhotoAPIURL, cfg.PhotoAPIKey, cfg.PhotoAPISecret)
	}

	s := &Server{
		Gateway:       gw,
		Router:        chi.NewRouter(),
		JWTManager:    jwtManager,
		Metrics:       metrics,
		Sessions:      NewSessions(gw, tracker.Options{HashPINs: cfg.PINHashing}, metrics),
		Photos:        photosearch.NewSearcher(rec, nil, nil),
		importMapping: cfg.ImportMapping,
	}

	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	// Public routes
	s.Router.Get("/health", s.health)

	s.Router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.JWTManager))

		r.Post("/session", s.startSession)
		r.Delete("/session", s.endSession)

		r.Group(func(r chi.Router) {
			r.Use(s.withSession)
			s.mountProtectedRoutes(r)
		})
	})

	return s, nil
}

// Close properly shuts down the server and cleans up resources
func (s *Server) Close(ctx context.Context) error {
	if s.Gateway != nil {
		return s.Gateway.DB().Close()
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.Gateway.Ping(ctx); err != nil {
		log.Printf("health: database ping failed: %v", err)
		auth.SendErrorResponse(w, "database unavailable", "DB_UNAVAILABLE", http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("ok")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// mountProtectedRoutes mounts the routes that act on the caller's session
func (s *Server) mountProtectedRoutes(r chi.Router) {
	r.Get("/view", s.getView)
	r.Post("/view", s.navigate)

	r.Get("/items", s.listItems)
	r.Get("/items/tags", s.listTags)
	r.Get("/items/{id}", s.getItem)
	r.Post("/items", s.createItem)
	r.Put("/items/{id}", s.updateItem)
	r.Delete("/items/{id}", s.deleteItem)
	r.Post("/items/{id}/edit", s.editItem)
	r.Post("/items/{id}/select", s.selectItem)
	r.Put("/items/{id}/group", s.assignGroup)
	r.Put("/items/{id}/container", s.assignContainer)

	r.Get("/gate", s.gateState)
	r.Post("/gate/digit", s.enterDigit)
	r.Post("/gate/submit", s.submitPIN)
	r.Post("/gate/cancel", s.cancelChallenge)

	r.Get("/history", s.listHistory)
	r.Get("/reminders", s.listReminders)
	r.Post("/reminders", s.createReminder)
	r.Patch("/reminders/{id}", s.setReminderActive)
	r.Delete("/reminders/{id}", s.deleteReminder)

	r.Get("/categories", s.listCategories)
	r.Get("/groups", s.listGroups)
	r.Get("/groups/{id}/items", s.listGroupItems)
	r.Get("/containers", s.listContainers)
	r.Get("/containers/tree", s.containerTree)
	r.Get("/containers/{id}/path", s.containerPath)
	r.Get("/containers/{id}/items", s.listContainerItems)
	r.Get("/visual-maps", s.listVisualMaps)

	r.Post("/photo-search", s.photoSearch)
	r.Get("/export.xlsx", s.exportWorkbook)

	importsHandler := handlers.NewImportsHandler(func(r *http.Request) importer.Adder {
		return sessionFrom(r)
	})
	importsHandler.DefaultMap = s.importMapping
	r.Post("/imports/excel", importsHandler.UploadExcel)
}
