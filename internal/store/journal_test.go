package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *LocalStore {
	t.Helper()
	local, err := NewLocalStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })
	return local
}

func testEntry(id string) DreamEntry {
	return DreamEntry{
		ID:           id,
		Date:         "2026-08-31T01:02:03Z",
		OriginalText: "I was flying over a dark ocean.",
		Analysis: &DreamAnalysis{
			Title:          "Flight",
			Summary:        "A flight over water.",
			Interpretation: "A desire for freedom.",
			Mood:           "Anxious",
			Emotions:       []EmotionScore{{Name: "fear", Value: 70}, {Name: "wonder", Value: 40}},
			Keywords:       []string{"flying", "ocean"},
		},
		ChatHistory: []ChatMessage{},
	}
}

func TestEntryStoreRoundTrip(t *testing.T) {
	local := newTestLocal(t)
	s := NewEntryStore(local, zerolog.Nop())

	first := testEntry("dream-1")
	second := testEntry("dream-2")
	second.ImageURL = "data:image/png;base64,aGVsbG8="

	require.NoError(t, s.Create(first))
	require.NoError(t, s.Create(second))
	require.NoError(t, s.AppendChatMessage("dream-1", ChatMessage{
		ID: "msg-1", Role: RoleUser, Text: "What does flying mean?", Timestamp: 1700000000000,
	}))

	// A fresh store over the same database must see the same collection.
	reloaded := NewEntryStore(local, zerolog.Nop())
	assert.Equal(t, s.Entries(), reloaded.Entries())
}

func TestEntryStoreCreatePrependsNewestFirst(t *testing.T) {
	s := NewEntryStore(newTestLocal(t), zerolog.Nop())

	require.NoError(t, s.Create(testEntry("older")))
	require.NoError(t, s.Create(testEntry("newer")))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "newer", entries[0].ID)
	assert.Equal(t, "older", entries[1].ID)
}

func TestEntryStoreStartsEmptyOnCorruptSlot(t *testing.T) {
	local := newTestLocal(t)
	require.NoError(t, local.Set(entriesKey, "{this is not json"))

	s := NewEntryStore(local, zerolog.Nop())
	assert.Empty(t, s.Entries())

	// The store must still be writable after recovering.
	require.NoError(t, s.Create(testEntry("dream-1")))
	assert.Len(t, s.Entries(), 1)
}

func TestEntryStoreDeleteIsIdempotent(t *testing.T) {
	s := NewEntryStore(newTestLocal(t), zerolog.Nop())
	require.NoError(t, s.Create(testEntry("dream-1")))
	require.NoError(t, s.Create(testEntry("dream-2")))

	require.NoError(t, s.Delete("dream-1"))
	require.NoError(t, s.Delete("dream-1")) // second delete is a no-op

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "dream-2", entries[0].ID)
}

func TestAppendChatMessageUnknownEntry(t *testing.T) {
	s := NewEntryStore(newTestLocal(t), zerolog.Nop())
	require.NoError(t, s.Create(testEntry("dream-1")))

	err := s.AppendChatMessage("no-such-dream", ChatMessage{ID: "msg-1", Role: RoleUser, Text: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)

	entry, ok := s.Get("dream-1")
	require.True(t, ok)
	assert.Empty(t, entry.ChatHistory)
}

func TestEntryStoreGetReturnsCopy(t *testing.T) {
	s := NewEntryStore(newTestLocal(t), zerolog.Nop())
	require.NoError(t, s.Create(testEntry("dream-1")))
	require.NoError(t, s.AppendChatMessage("dream-1", ChatMessage{ID: "msg-1", Role: RoleUser, Text: "hi"}))

	entry, ok := s.Get("dream-1")
	require.True(t, ok)
	entry.ChatHistory[0].Text = "mutated"

	fresh, _ := s.Get("dream-1")
	assert.Equal(t, "hi", fresh.ChatHistory[0].Text)
}
