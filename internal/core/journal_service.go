package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dreamweaver.app/journal/internal/store"
)

// DreamAnalyzer produces a structured analysis for a dream description.
type DreamAnalyzer interface {
	AnalyzeDream(ctx context.Context, dreamText string) (*store.DreamAnalysis, error)
}

// ImageGenerator produces a data-URI illustration for a dream, or "" when
// the provider returned no image.
type ImageGenerator interface {
	GenerateDreamImage(ctx context.Context, dreamText, mood string) (string, error)
}

// ChatCompleter produces one Dream Guide reply grounded in an analysis.
// history carries only turns settled before the call.
type ChatCompleter interface {
	DreamChat(ctx context.Context, history []store.ChatMessage, newMessage string, analysis *store.DreamAnalysis) (string, error)
}

// JournalService orchestrates the create-entry and chat-turn flows and is
// the sole mutator of the entry store. Selection and the two busy flags
// are the app-level state the browser UI used to hold; each mutation here
// is one atomic step under the mutex, matching the single-threaded event
// loop the flows were designed for.
type JournalService struct {
	entries  *store.EntryStore
	analyzer DreamAnalyzer
	images   ImageGenerator
	chat     ChatCompleter
	timeout  time.Duration
	log      zerolog.Logger

	mu         sync.Mutex
	selectedID string
	processing bool
	chatting   bool
}

func NewJournalService(entries *store.EntryStore, analyzer DreamAnalyzer, images ImageGenerator, chat ChatCompleter, timeout time.Duration, log zerolog.Logger) *JournalService {
	return &JournalService{
		entries:  entries,
		analyzer: analyzer,
		images:   images,
		chat:     chat,
		timeout:  timeout,
		log:      log,
	}
}

// CreateEntry runs the create-entry flow: analyze, illustrate, persist,
// select. Analysis failure aborts the flow and creates nothing. Image
// failure is absorbed: the entry is created without an image. Only one
// flow may be in flight at a time.
func (s *JournalService) CreateEntry(ctx context.Context, text string) (*store.DreamEntry, error) {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.processing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	analysisCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	analysis, err := s.analyzer.AnalyzeDream(analysisCtx, text)
	if err != nil {
		return nil, err
	}

	imageCtx, cancelImage := context.WithTimeout(ctx, s.timeout)
	defer cancelImage()
	imageURL, err := s.images.GenerateDreamImage(imageCtx, text, analysis.Mood)
	if err != nil {
		s.log.Warn().Err(err).Msg("image generation failed, keeping the entry without an image")
		imageURL = ""
	}

	entry := store.DreamEntry{
		ID:           uuid.NewString(),
		Date:         time.Now().UTC().Format(time.RFC3339),
		OriginalText: text,
		Analysis:     analysis,
		ImageURL:     imageURL,
		ChatHistory:  []store.ChatMessage{},
	}
	if err := s.entries.Create(entry); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.selectedID = entry.ID
	s.mu.Unlock()

	s.log.Info().Str("dream_id", entry.ID).Str("title", analysis.Title).Msg("dream entry created")
	return &entry, nil
}

// SendChatMessage runs one chat turn against the selected entry. The user
// turn is recorded before the provider call; on provider failure it stays
// in the history with no reply appended. Returns the model's message on
// success.
func (s *JournalService) SendChatMessage(ctx context.Context, text string) (*store.ChatMessage, error) {
	s.mu.Lock()
	if s.chatting {
		s.mu.Unlock()
		return nil, ErrChatBusy
	}
	if s.selectedID == "" {
		s.mu.Unlock()
		return nil, ErrNoSelection
	}
	entryID := s.selectedID
	s.chatting = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.chatting = false
		s.mu.Unlock()
	}()

	entry, ok := s.entries.Get(entryID)
	if !ok {
		return nil, store.ErrNotFound
	}
	if entry.Analysis == nil {
		return nil, ErrNoAnalysis
	}

	// History as it stood before this turn; the provider receives the new
	// message separately and must not see it twice.
	priorHistory := entry.ChatHistory

	userMsg := store.ChatMessage{
		ID:        uuid.NewString(),
		Role:      store.RoleUser,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := s.entries.AppendChatMessage(entryID, userMsg); err != nil {
		return nil, err
	}

	chatCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	reply, err := s.chat.DreamChat(chatCtx, priorHistory, text, entry.Analysis)
	if err != nil {
		// The user's turn stays in the history; the guide simply never
		// answered.
		s.log.Error().Err(err).Str("dream_id", entryID).Msg("chat completion failed")
		return nil, err
	}

	modelMsg := store.ChatMessage{
		ID:        uuid.NewString(),
		Role:      store.RoleModel,
		Text:      reply,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := s.entries.AppendChatMessage(entryID, modelMsg); err != nil {
		return nil, err
	}
	return &modelMsg, nil
}

// SelectEntry marks the entry as the one being viewed and returns it.
func (s *JournalService) SelectEntry(id string) (store.DreamEntry, error) {
	entry, ok := s.entries.Get(id)
	if !ok {
		return store.DreamEntry{}, store.ErrNotFound
	}
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	return entry, nil
}

// SelectedEntry returns the currently selected entry, if any.
func (s *JournalService) SelectedEntry() (store.DreamEntry, bool) {
	s.mu.Lock()
	id := s.selectedID
	s.mu.Unlock()
	if id == "" {
		return store.DreamEntry{}, false
	}
	return s.entries.Get(id)
}

func (s *JournalService) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.mu.Unlock()
}

// DeleteEntry removes the entry and clears the selection when it pointed
// at the deleted id. Deleting an unknown id is a no-op.
func (s *JournalService) DeleteEntry(id string) error {
	if err := s.entries.Delete(id); err != nil {
		return err
	}
	s.mu.Lock()
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.mu.Unlock()
	return nil
}

// Entries returns the full journal, newest first.
func (s *JournalService) Entries() []store.DreamEntry {
	return s.entries.Entries()
}
