package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"dreamweaver.app/journal/internal/core"
	"dreamweaver.app/journal/internal/store"
)

// userFacingCreateError is the single generic banner shown when the
// create-entry flow fails. No retry affordance, the user resubmits.
const userFacingCreateError = "Failed to interpret the dream. Please check your API key and try again."

type APIHandler struct {
	journal *core.JournalService
	log     zerolog.Logger
}

func NewAPIHandler(journal *core.JournalService, log zerolog.Logger) *APIHandler {
	return &APIHandler{journal: journal, log: log}
}

type CreateDreamRequest struct {
	Text string `json:"text"`
}

func (h *APIHandler) CreateDreamHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateDreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Dream text cannot be empty", http.StatusBadRequest)
		return
	}

	entry, err := h.journal.CreateEntry(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, core.ErrBusy) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.log.Error().Err(err).Msg("create-entry flow failed")
		http.Error(w, userFacingCreateError, http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

func (h *APIHandler) ListDreamsHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.journal.Entries())
}

// GetDreamHandler returns one entry and selects it: viewing a dream is
// what makes it the chat target.
func (h *APIHandler) GetDreamHandler(w http.ResponseWriter, r *http.Request) {
	dreamID := chi.URLParam(r, "dreamID")

	entry, err := h.journal.SelectEntry(dreamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Dream not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("dream_id", dreamID).Msg("failed to get dream")
		http.Error(w, "Failed to get dream", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(entry)
}

func (h *APIHandler) DeleteDreamHandler(w http.ResponseWriter, r *http.Request) {
	dreamID := chi.URLParam(r, "dreamID")

	if err := h.journal.DeleteEntry(dreamID); err != nil {
		h.log.Error().Err(err).Str("dream_id", dreamID).Msg("failed to delete dream")
		http.Error(w, "Failed to delete dream", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ChatRequest struct {
	Message string `json:"message"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	dreamID := chi.URLParam(r, "dreamID")

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Message cannot be empty", http.StatusBadRequest)
		return
	}

	if _, err := h.journal.SelectEntry(dreamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Dream not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("dream_id", dreamID).Msg("failed to select dream for chat")
		http.Error(w, "Failed to start chat", http.StatusInternalServerError)
		return
	}

	modelMsg, err := h.journal.SendChatMessage(r.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrChatBusy):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, core.ErrNoAnalysis):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			// The user's message is already in the history; only the reply
			// is missing.
			h.log.Error().Err(err).Str("dream_id", dreamID).Msg("chat turn failed")
			http.Error(w, "The Dream Guide did not answer", http.StatusBadGateway)
		}
		return
	}
	json.NewEncoder(w).Encode(modelMsg)
}
