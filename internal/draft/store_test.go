package draft

import (
	"fmt"
	"sync"
	"testing"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

type memPersister struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemPersister() *memPersister {
	return &memPersister{data: make(map[string]string)}
}

func (p *memPersister) GetPreference(key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data[key], nil
}

func (p *memPersister) SetPreference(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = value
	return nil
}

func (p *memPersister) DeletePreference(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, key)
	return nil
}

func entry(i int) models.AiChatMessage {
	return models.AiChatMessage{Question: fmt.Sprintf("q%d", i), Answer: fmt.Sprintf("a%d", i)}
}

func TestTranscriptRollingWindowSurvivesRestart(t *testing.T) {
	p := newMemPersister()
	s := NewStore(p)

	for i := 0; i < 60; i++ {
		s.Append("u1", entry(i))
	}

	// A fresh store over the same storage simulates a reload.
	restored := NewStore(p).Transcript("u1")
	if len(restored) != MaxEntries {
		t.Fatalf("expected %d entries restored, got %d", MaxEntries, len(restored))
	}
	if restored[0].Question != "q10" {
		t.Fatalf("expected oldest surviving entry q10, got %s", restored[0].Question)
	}
	if restored[len(restored)-1].Question != "q59" {
		t.Fatalf("expected newest entry q59, got %s", restored[len(restored)-1].Question)
	}
}

func TestCorruptStoredTranscriptDegradesToEmpty(t *testing.T) {
	p := newMemPersister()
	p.SetPreference(transcriptKey("u1"), "{definitely not json")

	got := NewStore(p).Transcript("u1")
	if len(got) != 0 {
		t.Fatalf("expected empty transcript for corrupt storage, got %d entries", len(got))
	}
}

func TestMissingTranscriptIsEmpty(t *testing.T) {
	got := NewStore(newMemPersister()).Transcript("nobody")
	if len(got) != 0 {
		t.Fatalf("expected empty transcript, got %d entries", len(got))
	}
}

func TestTranscriptsAreScopedPerUser(t *testing.T) {
	s := NewStore(newMemPersister())
	s.Append("u1", entry(1))
	s.Append("u2", entry(2))

	if got := s.Transcript("u1"); len(got) != 1 || got[0].Question != "q1" {
		t.Fatalf("u1 transcript wrong: %+v", got)
	}
	if got := s.Transcript("u2"); len(got) != 1 || got[0].Question != "q2" {
		t.Fatalf("u2 transcript wrong: %+v", got)
	}
}

func TestClearDropsTranscript(t *testing.T) {
	p := newMemPersister()
	s := NewStore(p)
	s.Append("u1", entry(1))

	s.Clear("u1")
	if got := s.Transcript("u1"); len(got) != 0 {
		t.Fatalf("expected cleared transcript, got %+v", got)
	}
	if got := NewStore(p).Transcript("u1"); len(got) != 0 {
		t.Fatalf("expected storage cleared, got %+v", got)
	}
}
