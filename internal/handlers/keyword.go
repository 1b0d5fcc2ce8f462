package handlers

import (
	"net/http"
	"strconv"
)

type trackKeywordRequest struct {
	Phrase    string `json:"phrase"`
	TargetURL string `json:"target_url"`
}

// TrackKeywordHandler starts tracking a keyword phrase
func (h *Handler) TrackKeywordHandler(w http.ResponseWriter, r *http.Request) {
	var req trackKeywordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	keyword, err := h.keywords.Track(r.Context(), req.Phrase, req.TargetURL)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, keyword)
}

// ListKeywordsHandler lists all tracked keywords
func (h *Handler) ListKeywordsHandler(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.keywords.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, keywords)
}

type recordPositionRequest struct {
	Position     int      `json:"position"`
	URL          string   `json:"url"`
	SerpFeatures []string `json:"serp_features"`
}

// RecordPositionHandler appends a rank observation for a keyword
func (h *Handler) RecordPositionHandler(w http.ResponseWriter, r *http.Request) {
	var req recordPositionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	keyword, err := h.keywords.RecordPosition(r.Context(), pathID(r), req.Position, req.URL, req.SerpFeatures)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, keyword)
}

// KeywordHistoryHandler returns the rank history within a trailing window
func (h *Handler) KeywordHistoryHandler(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	history, err := h.keywords.History(r.Context(), pathID(r), days)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, history)
}
