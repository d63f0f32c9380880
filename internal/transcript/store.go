package transcript

import (
	"sync"
	"time"
)

// Entry is a finished pipeline result parked in memory so the API can serve
// exports and speaker renames for it. Transcripts are deliberately not
// persisted; entries live until the process exits or the job is deleted.
type Entry struct {
	Transcript *Transcript       `json:"transcript"`
	Warnings   []string          `json:"warnings,omitempty"`
	MediaPath  string            `json:"media_path"`
	SpeakerMap map[string]string `json:"speaker_map,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Store holds finished transcripts keyed by transcript ID.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Put parks a finished transcript under its ID.
func (s *Store) Put(id string, e *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.entries[id] = e
}

// Get returns the entry for a transcript ID, or nil when none exists.
func (s *Store) Get(id string) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id]
}

// SetSpeakerMap replaces the display-name map for a stored transcript. The
// raw labels on the transcript itself are never touched.
func (s *Store) SetSpeakerMap(id string, names map[string]string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	e.SpeakerMap = names
	return true
}

// Delete removes a stored transcript.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len reports how many transcripts are currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
