package handlers

import (
	"net/http"

	"seoengine/internal/metrics"
)

type runAuditRequest struct {
	Type string `json:"type"`
}

// RunAuditHandler starts an audit in the background and returns the
// pending record
func (h *Handler) RunAuditHandler(w http.ResponseWriter, r *http.Request) {
	var req runAuditRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	audit, err := h.audits.Run(r.Context(), req.Type)
	if err != nil {
		h.respondError(w, err)
		return
	}

	metrics.AuditsRun.WithLabelValues(string(audit.Status)).Inc()
	h.respondJSON(w, http.StatusAccepted, audit)
}

// ListAuditsHandler lists audits, newest first
func (h *Handler) ListAuditsHandler(w http.ResponseWriter, r *http.Request) {
	audits, err := h.audits.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, audits)
}

// GetAuditHandler returns a single audit by id
func (h *Handler) GetAuditHandler(w http.ResponseWriter, r *http.Request) {
	audit, err := h.audits.Get(r.Context(), pathID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, audit)
}
