package ui

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnwards/professionals/internal/views"
)

// SessionCookie names the cookie that carries the session id.
const SessionCookie = "professionals_session"

type session struct {
	shell    *views.Shell
	lastSeen time.Time
}

// SessionStore gives every browser its own Shell. Sessions idle for longer
// than the TTL are swept on the next lookup and their Shell is closed.
type SessionStore struct {
	newShell func() *views.Shell
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionStore creates a store that builds shells with newShell. A
// non-positive ttl keeps sessions until Close.
func NewSessionStore(newShell func() *views.Shell, ttl time.Duration) *SessionStore {
	return &SessionStore{
		newShell: newShell,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Shell returns the Shell for the request's session, starting a new session
// and setting its cookie when the request has none or it has expired.
func (s *SessionStore) Shell(w http.ResponseWriter, r *http.Request) *views.Shell {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok {
			sess.lastSeen = now
			return sess.shell
		}
	}

	id := uuid.NewString()
	sess := &session{shell: s.newShell(), lastSeen: now}
	s.sessions[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.shell
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close closes every session's Shell.
func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		sess.shell.Close()
		delete(s.sessions, id)
	}
}

func (s *SessionStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			sess.shell.Close()
			delete(s.sessions, id)
		}
	}
}
