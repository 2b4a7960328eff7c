package internal

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/auth"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/tracker"
)

type sessionKey struct{}

// Sessions keeps one tracker.Session per signed-in owner.
type Sessions struct {
	gw      tracker.Gateway
	opts    tracker.Options
	metrics *Metrics

	mu      sync.Mutex
	byOwner map[string]*tracker.Session
}

// NewSessions creates an empty registry. metrics may be nil.
func NewSessions(gw tracker.Gateway, opts tracker.Options, metrics *Metrics) *Sessions {
	return &Sessions{gw: gw, opts: opts, metrics: metrics, byOwner: map[string]*tracker.Session{}}
}

// Start signs ownerID in: a fresh session replaces any previous one, so
// unlocked items lock again. The load error is returned alongside the
// session, which stays usable with whatever did load.
func (s *Sessions) Start(ctx context.Context, ownerID string, firstTime bool) (*tracker.Session, error) {
	opts := s.opts
	opts.FirstTime = firstTime
	sess := tracker.NewSession(s.gw, ownerID, opts)
	err := sess.Load(ctx)

	s.mu.Lock()
	s.byOwner[ownerID] = sess
	n := len(s.byOwner)
	s.mu.Unlock()
	s.observe(n)
	return sess, err
}

// Get returns the owner's session, starting one when the owner has a valid
// token but no session yet.
func (s *Sessions) Get(ctx context.Context, ownerID string) *tracker.Session {
	s.mu.Lock()
	sess, ok := s.byOwner[ownerID]
	s.mu.Unlock()
	if ok {
		return sess
	}

	fresh := tracker.NewSession(s.gw, ownerID, s.opts)
	if err := fresh.Load(ctx); err != nil {
		log.Printf("session %s: initial load incomplete: %v", ownerID, err)
	}

	s.mu.Lock()
	// Another request may have won the race while we loaded.
	if sess, ok = s.byOwner[ownerID]; !ok {
		sess = fresh
		s.byOwner[ownerID] = sess
	}
	n := len(s.byOwner)
	s.mu.Unlock()
	s.observe(n)
	return sess
}

// End signs ownerID out. It reports whether a session existed.
func (s *Sessions) End(ownerID string) bool {
	s.mu.Lock()
	_, ok := s.byOwner[ownerID]
	delete(s.byOwner, ownerID)
	n := len(s.byOwner)
	s.mu.Unlock()
	s.observe(n)
	return ok
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byOwner)
}

func (s *Sessions) observe(n int) {
	if s.metrics != nil {
		s.metrics.SetSessions(n)
	}
}

// withSession attaches the caller's session to the request context.
// It must run after auth.AuthMiddleware.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := auth.OwnerIDFromContext(r.Context())
		if ownerID == "" {
			auth.SendErrorResponse(w, "Authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		sess := s.Sessions.Get(r.Context(), ownerID)
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *tracker.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*tracker.Session)
	return sess
}
