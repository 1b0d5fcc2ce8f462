package handlers

import (
	"net/http"
	"strconv"
)

type upsertLinkRequest struct {
	SourceURL  string `json:"source_url"`
	TargetURL  string `json:"target_url"`
	AnchorText string `json:"anchor_text"`
	LinkType   string `json:"link_type"`
}

// UpsertLinkHandler records an internal link edge
func (h *Handler) UpsertLinkHandler(w http.ResponseWriter, r *http.Request) {
	var req upsertLinkRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	link, err := h.links.UpsertLink(r.Context(), req.SourceURL, req.TargetURL, req.AnchorText, req.LinkType)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, link)
}

// ListLinksHandler lists all link edges
func (h *Handler) ListLinksHandler(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, links)
}

// OrphansHandler lists pages with no inbound links
func (h *Handler) OrphansHandler(w http.ResponseWriter, r *http.Request) {
	pages, err := h.links.Orphans(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, pages)
}

// UnderLinkedHandler lists pages below the inbound link threshold
func (h *Handler) UnderLinkedHandler(w http.ResponseWriter, r *http.Request) {
	threshold, _ := strconv.Atoi(r.URL.Query().Get("threshold"))

	pages, err := h.links.UnderLinked(r.Context(), threshold)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, pages)
}

// LinkSuggestionsHandler returns keyword-driven internal link suggestions
func (h *Handler) LinkSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.links.Suggestions(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, suggestions)
}

// BrokenLinksHandler lists edges flagged as broken
func (h *Handler) BrokenLinksHandler(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.BrokenLinks(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, links)
}

type markBrokenRequest struct {
	SourceURL string `json:"source_url"`
	TargetURL string `json:"target_url"`
	Broken    *bool  `json:"broken"`
}

// MarkBrokenHandler flags or clears the broken state of an edge
func (h *Handler) MarkBrokenHandler(w http.ResponseWriter, r *http.Request) {
	var req markBrokenRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	broken := true
	if req.Broken != nil {
		broken = *req.Broken
	}

	if err := h.links.MarkBroken(r.Context(), req.SourceURL, req.TargetURL, broken); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
