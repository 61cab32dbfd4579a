// Package draft persists a capped, per-user transcript of the AI
// assistant conversation across restarts, without server involvement.
package draft

import (
	"encoding/json"
	"sync"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("draft")

// MaxEntries is the rolling window size; older entries are dropped.
const MaxEntries = 50

// Persister is the durable key/value store backing the transcript,
// satisfied by db.ClientDB.
type Persister interface {
	GetPreference(key string) (string, error)
	SetPreference(key, value string) error
	DeletePreference(key string) error
}

// Store keeps one in-memory transcript per user, written through to
// durable storage on every mutation.
type Store struct {
	persist Persister

	mu     sync.Mutex
	loaded map[string][]models.AiChatMessage
}

// NewStore creates a draft store over the given persister.
func NewStore(p Persister) *Store {
	return &Store{
		persist: p,
		loaded:  make(map[string][]models.AiChatMessage),
	}
}

func transcriptKey(userID string) string {
	return "ai.transcript." + userID
}

// Transcript returns the user's transcript, loading it from storage on
// first access. Corrupt or missing stored entries degrade to an empty
// transcript.
func (s *Store) Transcript(userID string) []models.AiChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AiChatMessage(nil), s.loadLocked(userID)...)
}

// Append adds an entry to the user's transcript and persists the most
// recent MaxEntries entries.
func (s *Store) Append(userID string, entry models.AiChatMessage) {
	s.mu.Lock()
	entries := append(s.loadLocked(userID), entry)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	s.loaded[userID] = entries
	s.persistLocked(userID, entries)
	s.mu.Unlock()
}

// Clear drops the user's transcript from memory and storage.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	delete(s.loaded, userID)
	if err := s.persist.DeletePreference(transcriptKey(userID)); err != nil {
		log.Warningf("Failed to clear transcript for %s: %v", userID, err)
	}
	s.mu.Unlock()
}

func (s *Store) loadLocked(userID string) []models.AiChatMessage {
	if entries, ok := s.loaded[userID]; ok {
		return entries
	}
	var entries []models.AiChatMessage
	raw, err := s.persist.GetPreference(transcriptKey(userID))
	if err == nil && raw != "" {
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			log.Warningf("Discarding corrupt transcript for %s: %v", userID, err)
			entries = nil
		}
	}
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	s.loaded[userID] = entries
	return entries
}

func (s *Store) persistLocked(userID string, entries []models.AiChatMessage) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.persist.SetPreference(transcriptKey(userID), string(raw)); err != nil {
		log.Warningf("Failed to persist transcript for %s: %v", userID, err)
	}
}
