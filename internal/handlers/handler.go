package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"seoengine/internal/config"
	"seoengine/internal/domain"
	"seoengine/internal/logger"
	"seoengine/internal/metrics"
	"seoengine/internal/service"
)

// PageService interface for scoring and page corpus operations
type PageService interface {
	Score(stats domain.ContentStats) domain.ScoreResult
	ScoreAndStore(ctx context.Context, page *domain.Page, stats domain.ContentStats) (*domain.Page, error)
	Get(ctx context.Context, url string) (*domain.Page, error)
	List(ctx context.Context) ([]domain.Page, error)
	Delete(ctx context.Context, url string) error
}

// ContentService interface for markdown rendering and stats extraction
type ContentService interface {
	RenderMarkdown(source []byte) (*service.RenderResult, error)
	ExtractStats(htmlContent, title, description, focusKeyword string) (domain.ContentStats, error)
	ExtractFromMarkdown(source []byte, focusKeyword string) (domain.ContentStats, error)
}

// KeywordService interface for keyword tracking operations
type KeywordService interface {
	Track(ctx context.Context, phrase, targetURL string) (*domain.Keyword, error)
	List(ctx context.Context) ([]domain.Keyword, error)
	RecordPosition(ctx context.Context, keywordID, position int, url string, serpFeatures []string) (*domain.Keyword, error)
	History(ctx context.Context, keywordID, days int) ([]domain.KeywordHistory, error)
}

// NotFoundService interface for 404 and redirect operations
type NotFoundService interface {
	Log404(ctx context.Context, url, referrer, userAgent, ip string) (*domain.Log404, error)
	ListUnresolved(ctx context.Context) ([]domain.Log404, error)
	Resolve(ctx context.Context, id int, redirectID *int) error
	Ignore(ctx context.Context, id int) error
	CreateRedirectFromLog(ctx context.Context, id int, targetURL string) (*domain.Redirect, error)
	CreateRedirect(ctx context.Context, redirect *domain.Redirect) error
	ListRedirects(ctx context.Context) ([]domain.Redirect, error)
	RecordHit(ctx context.Context, redirectID int) error
}

// LinkGraphService interface for link graph operations
type LinkGraphService interface {
	UpsertLink(ctx context.Context, source, target, anchorText, linkType string) (*domain.InternalLink, error)
	List(ctx context.Context) ([]domain.InternalLink, error)
	BrokenLinks(ctx context.Context) ([]domain.InternalLink, error)
	Orphans(ctx context.Context) ([]domain.Page, error)
	UnderLinked(ctx context.Context, threshold int) ([]domain.PageLinkCount, error)
	Suggestions(ctx context.Context) ([]domain.LinkSuggestion, error)
	MarkBroken(ctx context.Context, source, target string, broken bool) error
}

// AuditService interface for audit operations
type AuditService interface {
	Run(ctx context.Context, auditType string) (*domain.Audit, error)
	Get(ctx context.Context, id int) (*domain.Audit, error)
	List(ctx context.Context) ([]domain.Audit, error)
}

// IndexNowService interface for indexing submissions
type IndexNowService interface {
	Submit(ctx context.Context, urls []string) domain.SubmitResult
}

// SitemapService interface for sitemap generation
type SitemapService interface {
	Generate(ctx context.Context) ([]byte, error)
}

// ContentSuggestionService interface for content suggestion operations
type ContentSuggestionService interface {
	Create(ctx context.Context, suggestion *domain.ContentSuggestion) error
	List(ctx context.Context, status domain.SuggestionStatus) ([]domain.ContentSuggestion, error)
	SetStatus(ctx context.Context, id int, status domain.SuggestionStatus) error
}

// Handler holds the HTTP handlers
type Handler struct {
	pages       PageService
	content     ContentService
	keywords    KeywordService
	notFound    NotFoundService
	links       LinkGraphService
	audits      AuditService
	indexNow    IndexNowService
	sitemap     SitemapService
	suggestions ContentSuggestionService
	config      *config.Config
	logger      *logger.Logger
}

// NewHandler creates a new handler
func NewHandler(
	pages PageService,
	content ContentService,
	keywords KeywordService,
	notFound NotFoundService,
	links LinkGraphService,
	audits AuditService,
	indexNow IndexNowService,
	sitemap SitemapService,
	suggestions ContentSuggestionService,
	cfg *config.Config,
	log *logger.Logger,
) *Handler {
	log.Info("Handler initialized successfully")
	return &Handler{
		pages:       pages,
		content:     content,
		keywords:    keywords,
		notFound:    notFound,
		links:       links,
		audits:      audits,
		indexNow:    indexNow,
		sitemap:     sitemap,
		suggestions: suggestions,
		config:      cfg,
		logger:      log,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.Use(h.metricsMiddleware)

	// Scoring and pages
	router.HandleFunc("/api/seo/score", h.ScoreHandler).Methods("POST")
	router.HandleFunc("/api/seo/pages", h.UpsertPageHandler).Methods("POST")
	router.HandleFunc("/api/seo/pages", h.ListPagesHandler).Methods("GET")
	router.HandleFunc("/api/seo/pages", h.DeletePageHandler).Methods("DELETE")

	// Content tooling
	router.HandleFunc("/api/seo/preview", h.PreviewHandler).Methods("POST")
	router.HandleFunc("/api/seo/extract", h.ExtractHandler).Methods("POST")

	// Keywords
	router.HandleFunc("/api/seo/keywords", h.TrackKeywordHandler).Methods("POST")
	router.HandleFunc("/api/seo/keywords", h.ListKeywordsHandler).Methods("GET")
	router.HandleFunc("/api/seo/keywords/{id:[0-9]+}/positions", h.RecordPositionHandler).Methods("POST")
	router.HandleFunc("/api/seo/keywords/{id:[0-9]+}/history", h.KeywordHistoryHandler).Methods("GET")

	// 404 log and redirects
	router.HandleFunc("/api/seo/404", h.Log404Handler).Methods("POST")
	router.HandleFunc("/api/seo/404", h.ListUnresolvedHandler).Methods("GET")
	router.HandleFunc("/api/seo/404/{id:[0-9]+}/resolve", h.Resolve404Handler).Methods("POST")
	router.HandleFunc("/api/seo/404/{id:[0-9]+}/ignore", h.Ignore404Handler).Methods("POST")
	router.HandleFunc("/api/seo/404/{id:[0-9]+}/redirect", h.RedirectFrom404Handler).Methods("POST")
	router.HandleFunc("/api/seo/redirects", h.CreateRedirectHandler).Methods("POST")
	router.HandleFunc("/api/seo/redirects", h.ListRedirectsHandler).Methods("GET")
	router.HandleFunc("/api/seo/redirects/{id:[0-9]+}/hit", h.RedirectHitHandler).Methods("POST")

	// Link graph
	router.HandleFunc("/api/seo/links", h.UpsertLinkHandler).Methods("POST")
	router.HandleFunc("/api/seo/links", h.ListLinksHandler).Methods("GET")
	router.HandleFunc("/api/seo/links/orphans", h.OrphansHandler).Methods("GET")
	router.HandleFunc("/api/seo/links/underlinked", h.UnderLinkedHandler).Methods("GET")
	router.HandleFunc("/api/seo/links/suggestions", h.LinkSuggestionsHandler).Methods("GET")
	router.HandleFunc("/api/seo/links/broken", h.BrokenLinksHandler).Methods("GET")
	router.HandleFunc("/api/seo/links/broken", h.MarkBrokenHandler).Methods("POST")

	// Audits
	router.HandleFunc("/api/seo/audits", h.RunAuditHandler).Methods("POST")
	router.HandleFunc("/api/seo/audits", h.ListAuditsHandler).Methods("GET")
	router.HandleFunc("/api/seo/audits/{id:[0-9]+}", h.GetAuditHandler).Methods("GET")

	// Indexing and sitemap
	router.HandleFunc("/api/seo/indexnow", h.IndexNowHandler).Methods("POST")
	router.HandleFunc("/sitemap.xml", h.SitemapHandler).Methods("GET")

	// Content suggestions
	router.HandleFunc("/api/seo/suggestions", h.CreateSuggestionHandler).Methods("POST")
	router.HandleFunc("/api/seo/suggestions", h.ListSuggestionsHandler).Methods("GET")
	router.HandleFunc("/api/seo/suggestions/{id:[0-9]+}/status", h.SuggestionStatusHandler).Methods("POST")

	// Operational
	router.HandleFunc("/api/health", h.HealthHandler).Methods("GET")
	if h.config.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler()).Methods("GET")
	}
}

// HealthHandler reports service liveness
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": h.config.Environment,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				path = template
			}
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(path, r.Method, strconv.Itoa(recorder.status)).
			Observe(time.Since(start).Seconds())
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to write response: %v", err)
	}
}

// respondError maps validation errors to 400 and everything else to 500.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if service.IsValidation(err) {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.logger.Error("Request failed: %v", err)
	h.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("Invalid request body: %v", err)
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}
