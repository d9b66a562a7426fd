package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/services/dashboard"
	"github.com/google/uuid"
)

const sessionCookie = "athena_session"

type session struct {
	dash     *dashboard.Dashboard
	lastSeen time.Time
}

// SessionStore keeps one Dashboard per browser, keyed by a random cookie.
type SessionStore struct {
	log          *slog.Logger
	metrics      *metrics.Metrics
	ttl          time.Duration
	maxSessions  int
	secure       bool
	newDashboard func() *dashboard.Dashboard
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionStore(
	log *slog.Logger,
	metrics *metrics.Metrics,
	ttl time.Duration,
	maxSessions int,
	secure bool,
	newDashboard func() *dashboard.Dashboard,
) *SessionStore {
	return &SessionStore{
		log:          log.With(slog.String("component", "sessions")),
		metrics:      metrics,
		ttl:          ttl,
		maxSessions:  maxSessions,
		secure:       secure,
		newDashboard: newDashboard,
		now:          time.Now,
		sessions:     make(map[string]*session),
	}
}

// Get returns the dashboard of the requesting browser. A new dashboard is
// created, and its cookie set, when the browser has no live session; created
// reports that case. When the store is full the least recently used session
// is dropped.
func (s *SessionStore) Get(w http.ResponseWriter, r *http.Request) (*dashboard.Dashboard, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if dash, ok := s.lookup(r, now); ok {
		return dash, false
	}

	if len(s.sessions) >= s.maxSessions {
		s.evictOldest()
	}

	key := uuid.NewString()
	sess := &session{dash: s.newDashboard(), lastSeen: now}
	s.sessions[key] = sess
	s.metrics.Sessions.Set(float64(len(s.sessions)))

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.DebugContext(r.Context(), "Dashboard session created", "sessions", len(s.sessions))

	return sess.dash, true
}

// Lookup returns the dashboard of the requesting browser without creating one.
func (s *SessionStore) Lookup(r *http.Request) (*dashboard.Dashboard, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookup(r, now)
}

// lookup must be called with the store mutex held.
func (s *SessionStore) lookup(r *http.Request, now time.Time) (*dashboard.Dashboard, bool) {
	s.sweep(now)

	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}

	sess, ok := s.sessions[cookie.Value]
	if !ok {
		return nil, false
	}
	sess.lastSeen = now

	return sess.dash, true
}

// evictOldest must be called with the store mutex held.
func (s *SessionStore) evictOldest() {
	var (
		oldestKey  string
		oldestSeen time.Time
	)
	for key, sess := range s.sessions {
		if oldestKey == "" || sess.lastSeen.Before(oldestSeen) {
			oldestKey, oldestSeen = key, sess.lastSeen
		}
	}

	if oldestKey != "" {
		delete(s.sessions, oldestKey)
		s.log.Debug("Evicted least recently used dashboard session")
	}
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// sweep must be called with the store mutex held.
func (s *SessionStore) sweep(now time.Time) {
	evicted := 0
	for key, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, key)
			evicted++
		}
	}

	if evicted > 0 {
		s.metrics.Sessions.Set(float64(len(s.sessions)))
		s.log.Debug("Evicted idle dashboard sessions", "count", evicted)
	}
}
