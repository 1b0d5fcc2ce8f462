package handlers

import (
	"net/http"

	"seoengine/internal/domain"
	"seoengine/internal/metrics"
)

// ScoreHandler scores content without persisting anything
func (h *Handler) ScoreHandler(w http.ResponseWriter, r *http.Request) {
	var stats domain.ContentStats
	if !h.decodeJSON(w, r, &stats) {
		return
	}

	result := h.pages.Score(stats)
	h.respondJSON(w, http.StatusOK, result)
}

type upsertPageRequest struct {
	URL               string              `json:"url"`
	PageType          domain.PageType     `json:"page_type"`
	CanonicalURL      string              `json:"canonical_url"`
	SchemaType        string              `json:"schema_type"`
	InSitemap         *bool               `json:"in_sitemap"`
	SitemapPriority   float64             `json:"sitemap_priority"`
	SitemapChangefreq string              `json:"sitemap_changefreq"`
	Stats             domain.ContentStats `json:"stats"`
}

// UpsertPageHandler scores content and stores the result against the page
func (h *Handler) UpsertPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req upsertPageRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	inSitemap := true
	if req.InSitemap != nil {
		inSitemap = *req.InSitemap
	}

	page := &domain.Page{
		URL:               req.URL,
		PageType:          req.PageType,
		CanonicalURL:      req.CanonicalURL,
		SchemaType:        req.SchemaType,
		InSitemap:         inSitemap,
		SitemapPriority:   req.SitemapPriority,
		SitemapChangefreq: req.SitemapChangefreq,
	}

	stored, err := h.pages.ScoreAndStore(ctx, page, req.Stats)
	if err != nil {
		h.respondError(w, err)
		return
	}

	metrics.PagesScored.Inc()
	h.respondJSON(w, http.StatusOK, stored)
}

// ListPagesHandler lists the page corpus, or returns a single page when
// the url query parameter is present
func (h *Handler) ListPagesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if url := r.URL.Query().Get("url"); url != "" {
		page, err := h.pages.Get(ctx, url)
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, page)
		return
	}

	pages, err := h.pages.List(ctx)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, pages)
}

// DeletePageHandler removes a page from tracking
func (h *Handler) DeletePageHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.pages.Delete(r.Context(), r.URL.Query().Get("url")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type previewRequest struct {
	Markdown string `json:"markdown"`
}

// PreviewHandler renders markdown to HTML with frontmatter metadata
func (h *Handler) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.content.RenderMarkdown([]byte(req.Markdown))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

type extractRequest struct {
	HTML         string `json:"html"`
	Markdown     string `json:"markdown"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	FocusKeyword string `json:"focus_keyword"`
}

// ExtractHandler derives scorer input from raw HTML or markdown
func (h *Handler) ExtractHandler(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	var stats domain.ContentStats
	var err error
	switch {
	case req.Markdown != "":
		stats, err = h.content.ExtractFromMarkdown([]byte(req.Markdown), req.FocusKeyword)
	case req.HTML != "":
		stats, err = h.content.ExtractStats(req.HTML, req.Title, req.Description, req.FocusKeyword)
	default:
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "html or markdown is required"})
		return
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}
