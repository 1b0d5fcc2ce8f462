package handlers

import (
	"net/http"

	"seoengine/internal/domain"
	"seoengine/internal/metrics"
)

type log404Request struct {
	URL       string `json:"url"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
	IPAddress string `json:"ip_address"`
}

// Log404Handler records a 404 hit
func (h *Handler) Log404Handler(w http.ResponseWriter, r *http.Request) {
	var req log404Request
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.UserAgent == "" {
		req.UserAgent = r.UserAgent()
	}

	entry, err := h.notFound.Log404(r.Context(), req.URL, req.Referrer, req.UserAgent, req.IPAddress)
	if err != nil {
		h.respondError(w, err)
		return
	}

	metrics.NotFoundLogged.Inc()
	h.respondJSON(w, http.StatusOK, entry)
}

// ListUnresolvedHandler lists open 404 logs, most-hit first
func (h *Handler) ListUnresolvedHandler(w http.ResponseWriter, r *http.Request) {
	logs, err := h.notFound.ListUnresolved(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, logs)
}

type resolve404Request struct {
	RedirectID *int `json:"redirect_id"`
}

// Resolve404Handler marks a 404 log as handled
func (h *Handler) Resolve404Handler(w http.ResponseWriter, r *http.Request) {
	var req resolve404Request
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.notFound.Resolve(r.Context(), pathID(r), req.RedirectID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ignore404Handler marks a 404 log as intentionally unhandled
func (h *Handler) Ignore404Handler(w http.ResponseWriter, r *http.Request) {
	if err := h.notFound.Ignore(r.Context(), pathID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type redirectFrom404Request struct {
	TargetURL string `json:"target_url"`
}

// RedirectFrom404Handler creates a 301 redirect for a logged 404 and
// resolves the log
func (h *Handler) RedirectFrom404Handler(w http.ResponseWriter, r *http.Request) {
	var req redirectFrom404Request
	if !h.decodeJSON(w, r, &req) {
		return
	}

	redirect, err := h.notFound.CreateRedirectFromLog(r.Context(), pathID(r), req.TargetURL)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, redirect)
}

// CreateRedirectHandler creates an operator-defined redirect
func (h *Handler) CreateRedirectHandler(w http.ResponseWriter, r *http.Request) {
	var redirect domain.Redirect
	if !h.decodeJSON(w, r, &redirect) {
		return
	}

	if err := h.notFound.CreateRedirect(r.Context(), &redirect); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, redirect)
}

// ListRedirectsHandler lists active redirects
func (h *Handler) ListRedirectsHandler(w http.ResponseWriter, r *http.Request) {
	redirects, err := h.notFound.ListRedirects(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, redirects)
}

// RedirectHitHandler bumps a redirect's hit counter
func (h *Handler) RedirectHitHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.notFound.RecordHit(r.Context(), pathID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
