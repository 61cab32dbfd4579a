// Package session holds the client's auth state: the bearer token and the
// current user profile. It is the single source of truth for "is this
// client logged in"; presence of a token is authoritative and callers must
// not block on the profile having loaded.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("session")

const prefKey = "auth.session"

// Persister is the durable key/value store backing the session, satisfied
// by db.ClientDB.
type Persister interface {
	GetPreference(key string) (string, error)
	SetPreference(key, value string) error
	DeletePreference(key string) error
}

// Store is the persisted auth session store.
type Store struct {
	mu      sync.RWMutex
	token   string
	user    *models.User
	persist Persister

	// serverLogout best-effort informs the backend on explicit logout.
	// Its failure never prevents local credentials from being dropped.
	serverLogout func(ctx context.Context) error
}

// NewStore creates a session store, restoring any persisted session.
// A corrupt persisted entry degrades to an unauthenticated session.
func NewStore(p Persister) *Store {
	s := &Store{persist: p}
	if p == nil {
		return s
	}
	raw, err := p.GetPreference(prefKey)
	if err != nil || raw == "" {
		return s
	}
	var saved models.AuthSession
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		log.Warningf("Discarding corrupt persisted session: %v", err)
		return s
	}
	s.token = saved.Token
	s.user = saved.User
	return s
}

// SetServerLogout registers the call made to the backend on explicit logout.
func (s *Store) SetServerLogout(fn func(ctx context.Context) error) {
	s.mu.Lock()
	s.serverLogout = fn
	s.mu.Unlock()
}

// SetAuth atomically replaces both token and profile and persists them.
func (s *Store) SetAuth(token string, user *models.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.persistLocked()
	s.mu.Unlock()
}

// SetUser replaces the profile only, after a refresh that keeps the token.
func (s *Store) SetUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.persistLocked()
	s.mu.Unlock()
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current profile snapshot, possibly nil while the
// profile is still being fetched.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Logout best-effort informs the server, then drops local credentials
// unconditionally. Safe to call when already logged out.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	fn := s.serverLogout
	token := s.token
	s.mu.RUnlock()

	if fn != nil && token != "" {
		if err := fn(ctx); err != nil {
			log.Debugf("Server logout failed, dropping credentials anyway: %v", err)
		}
	}
	s.ForceLogout()
}

// ForceLogout clears token and profile without contacting the server.
// This is the 401 path. Idempotent.
func (s *Store) ForceLogout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.persistLocked()
	s.mu.Unlock()
}

func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}
	if s.token == "" && s.user == nil {
		if err := s.persist.DeletePreference(prefKey); err != nil {
			log.Warningf("Failed to clear persisted session: %v", err)
		}
		return
	}
	raw, err := json.Marshal(models.AuthSession{Token: s.token, User: s.user})
	if err != nil {
		return
	}
	if err := s.persist.SetPreference(prefKey, string(raw)); err != nil {
		log.Warningf("Failed to persist session: %v", err)
	}
}
