package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one authenticated browser session. The gateway access token is
// held server-side; the browser only ever sees the opaque session token.
type Session struct {
	Token       string
	UserID      string
	Email       string
	AccessToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// SessionManager tracks active sessions in memory.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionManager creates a session manager with the given lifetime.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session and returns it.
func (sm *SessionManager) Create(userID, email, accessToken string) Session {
	now := sm.now()
	session := Session{
		Token:       uuid.NewString(),
		UserID:      userID,
		Email:       email,
		AccessToken: accessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(sm.ttl),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[session.Token] = session
	return session
}

// Get returns the session for the token. An expired session is dropped and
// reported as absent.
func (sm *SessionManager) Get(token string) (Session, bool) {
	sm.mu.RLock()
	session, exists := sm.sessions[token]
	sm.mu.RUnlock()

	if !exists {
		return Session{}, false
	}
	if sm.now().After(session.ExpiresAt) {
		sm.Destroy(token)
		return Session{}, false
	}
	return session, true
}

// Destroy removes a session.
func (sm *SessionManager) Destroy(token string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, token)
}

// Sweep drops every expired session and returns how many were removed.
func (sm *SessionManager) Sweep() int {
	now := sm.now()

	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for token, session := range sm.sessions {
		if now.After(session.ExpiresAt) {
			delete(sm.sessions, token)
			removed++
		}
	}
	return removed
}

// Active returns the number of live sessions.
func (sm *SessionManager) Active() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
