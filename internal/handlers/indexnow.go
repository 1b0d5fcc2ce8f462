package handlers

import (
	"net/http"

	"seoengine/internal/metrics"
)

type indexNowRequest struct {
	URLs []string `json:"urls"`
}

// IndexNowHandler notifies search engines about changed URLs
func (h *Handler) IndexNowHandler(w http.ResponseWriter, r *http.Request) {
	var req indexNowRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result := h.indexNow.Submit(r.Context(), req.URLs)

	outcome := "failure"
	if result.Success {
		outcome = "success"
	}
	metrics.IndexNowSubmissions.WithLabelValues(outcome).Inc()

	h.respondJSON(w, http.StatusOK, result)
}

// SitemapHandler serves the XML sitemap for indexed pages
func (h *Handler) SitemapHandler(w http.ResponseWriter, r *http.Request) {
	sitemap, err := h.sitemap.Generate(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write(sitemap); err != nil {
		h.logger.Error("Failed to write sitemap: %v", err)
	}
}
