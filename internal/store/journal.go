package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// entriesKey is the storage slot the whole journal lives under.
const entriesKey = "dreamweaver_dreams"

// ErrNotFound is returned by entry-scoped operations when no entry with
// the given id exists.
var ErrNotFound = errors.New("dream entry not found")

// EntryStore holds the full collection of dream entries in memory and
// writes the whole collection back to its storage slot after every
// mutation. Entries are ordered newest first.
type EntryStore struct {
	local *LocalStore
	log   zerolog.Logger

	mu      sync.Mutex
	entries []DreamEntry
}

// NewEntryStore loads the persisted journal. A missing or unreadable slot
// yields an empty collection, never an error: a corrupt journal should not
// keep the app from starting.
func NewEntryStore(local *LocalStore, log zerolog.Logger) *EntryStore {
	s := &EntryStore{local: local, log: log}
	s.entries = s.load()
	return s
}

func (s *EntryStore) load() []DreamEntry {
	raw, ok, err := s.local.Get(entriesKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read stored journal, starting empty")
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var entries []DreamEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn().Err(err).Msg("stored journal is not valid JSON, starting empty")
		return nil
	}
	return entries
}

// persist serializes the full collection into the slot. Callers must hold
// s.mu.
func (s *EntryStore) persist() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to serialize journal: %w", err)
	}
	if err := s.local.Set(entriesKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist journal: %w", err)
	}
	return nil
}

// Create prepends entry to the collection and persists.
func (s *EntryStore) Create(entry DreamEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]DreamEntry{entry}, s.entries...)
	return s.persist()
}

// Delete removes the entry with the given id and persists. Deleting an id
// that is not present is a no-op.
func (s *EntryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	removed := false
	for _, e := range s.entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return nil
	}
	s.entries = kept
	return s.persist()
}

// AppendChatMessage appends msg to the identified entry's chat history and
// persists. An unknown id indicates a caller bug; it is logged and
// reported but mutates nothing.
func (s *EntryStore) AppendChatMessage(entryID string, msg ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == entryID {
			s.entries[i].ChatHistory = append(s.entries[i].ChatHistory, msg)
			return s.persist()
		}
	}
	s.log.Error().Str("dream_id", entryID).Msg("append chat message to unknown entry")
	return ErrNotFound
}

// Get returns a copy of the entry with the given id.
func (s *EntryStore) Get(id string) (DreamEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return copyEntry(e), true
		}
	}
	return DreamEntry{}, false
}

// Entries returns a copy of the full collection, newest first.
func (s *EntryStore) Entries() []DreamEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]DreamEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = copyEntry(e)
	}
	return out
}

// copyEntry returns a deep enough copy that callers cannot alias the
// store's chat history slice.
func copyEntry(e DreamEntry) DreamEntry {
	history := make([]ChatMessage, len(e.ChatHistory))
	copy(history, e.ChatHistory)
	e.ChatHistory = history
	return e
}
