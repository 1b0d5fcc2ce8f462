package handlers

import (
	"net/http"

	"seoengine/internal/domain"
)

// CreateSuggestionHandler records a content improvement suggestion
func (h *Handler) CreateSuggestionHandler(w http.ResponseWriter, r *http.Request) {
	var suggestion domain.ContentSuggestion
	if !h.decodeJSON(w, r, &suggestion) {
		return
	}

	if err := h.suggestions.Create(r.Context(), &suggestion); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, suggestion)
}

// ListSuggestionsHandler lists suggestions, optionally filtered by status
func (h *Handler) ListSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	status := domain.SuggestionStatus(r.URL.Query().Get("status"))

	suggestions, err := h.suggestions.List(r.Context(), status)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, suggestions)
}

type suggestionStatusRequest struct {
	Status domain.SuggestionStatus `json:"status"`
}

// SuggestionStatusHandler applies or dismisses a suggestion
func (h *Handler) SuggestionStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req suggestionStatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.suggestions.SetStatus(r.Context(), pathID(r), req.Status); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
