package domain

import (
	"time"
)

// PageType classifies a tracked URL.
type PageType string

const (
	PageTypePage     PageType = "page"
	PageTypePost     PageType = "post"
	PageTypeProduct  PageType = "product"
	PageTypeCategory PageType = "category"
)

// IssueSeverity is the severity attached to a scoring or audit issue.
type IssueSeverity string

const (
	SeverityInfo    IssueSeverity = "info"
	SeverityWarning IssueSeverity = "warning"
	SeverityError   IssueSeverity = "error"
)

// AuditStatus is the life cycle state of an audit run.
type AuditStatus string

const (
	AuditStatusPending   AuditStatus = "pending"
	AuditStatusRunning   AuditStatus = "running"
	AuditStatusCompleted AuditStatus = "completed"
	AuditStatusFailed    AuditStatus = "failed"
)

// SuggestionStatus is the operator-facing state of a content suggestion.
type SuggestionStatus string

const (
	SuggestionPending   SuggestionStatus = "pending"
	SuggestionApplied   SuggestionStatus = "applied"
	SuggestionDismissed SuggestionStatus = "dismissed"
)

// Issue is a single finding produced by the scorer or the auditor.
type Issue struct {
	Type       string        `json:"type"`
	Severity   IssueSeverity `json:"severity"`
	Message    string        `json:"message"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// Page is one URL-addressable content unit tracked for SEO purposes.
// Created on first score write (upsert by URL), mutated on every rescore.
type Page struct {
	ID                int        `json:"id" db:"id"`
	URL               string     `json:"url" db:"url"`
	PageType          PageType   `json:"page_type" db:"page_type"`
	Title             string     `json:"title" db:"title"`
	Description       string     `json:"description" db:"description"`
	CanonicalURL      string     `json:"canonical_url" db:"canonical_url"`
	FocusKeyword      string     `json:"focus_keyword" db:"focus_keyword"`
	SchemaType        string     `json:"schema_type" db:"schema_type"`
	TitleScore        int        `json:"title_score" db:"title_score"`
	DescriptionScore  int        `json:"description_score" db:"description_score"`
	ContentScore      int        `json:"content_score" db:"content_score"`
	ReadabilityScore  int        `json:"readability_score" db:"readability_score"`
	KeywordScore      int        `json:"keyword_score" db:"keyword_score"`
	LinkScore         int        `json:"link_score" db:"link_score"`
	ImageScore        int        `json:"image_score" db:"image_score"`
	OverallScore      int        `json:"overall_score" db:"overall_score"`
	Issues            []Issue    `json:"issues" db:"issues"`
	Suggestions       []string   `json:"suggestions" db:"suggestions"`
	InSitemap         bool       `json:"in_sitemap" db:"in_sitemap"`
	SitemapPriority   float64    `json:"sitemap_priority" db:"sitemap_priority"`
	SitemapChangefreq string     `json:"sitemap_changefreq" db:"sitemap_changefreq"`
	IndexNowSubmitted bool       `json:"indexnow_submitted" db:"indexnow_submitted"`
	IndexNowAt        *time.Time `json:"indexnow_at,omitempty" db:"indexnow_at"`
	LastAnalyzedAt    *time.Time `json:"last_analyzed_at,omitempty" db:"last_analyzed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Keyword is a tracked search phrase with its rank positions.
// Lower positions are better; BestPosition never increases.
type Keyword struct {
	ID               int        `json:"id" db:"id"`
	Phrase           string     `json:"phrase" db:"phrase"`
	TargetURL        string     `json:"target_url" db:"target_url"`
	CurrentPosition  int        `json:"current_position" db:"current_position"`
	PreviousPosition int        `json:"previous_position" db:"previous_position"`
	BestPosition     int        `json:"best_position" db:"best_position"`
	PositionChange   int        `json:"position_change" db:"position_change"`
	TrackingEnabled  bool       `json:"tracking_enabled" db:"tracking_enabled"`
	LastCheckedAt    *time.Time `json:"last_checked_at,omitempty" db:"last_checked_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// KeywordHistory is one append-only rank observation for a keyword.
type KeywordHistory struct {
	ID           int       `json:"id" db:"id"`
	KeywordID    int       `json:"keyword_id" db:"keyword_id"`
	Position     int       `json:"position" db:"position"`
	URL          string    `json:"url" db:"url"`
	SerpFeatures []string  `json:"serp_features" db:"serp_features"`
	ObservedAt   time.Time `json:"observed_at" db:"observed_at"`
}

// Redirect maps a source URL to a target URL with an HTTP redirect class.
type Redirect struct {
	ID         int       `json:"id" db:"id"`
	SourceURL  string    `json:"source_url" db:"source_url"`
	TargetURL  string    `json:"target_url" db:"target_url"`
	StatusCode int       `json:"status_code" db:"status_code"`
	IsRegex    bool      `json:"is_regex" db:"is_regex"`
	Active     bool      `json:"active" db:"active"`
	HitCount   int       `json:"hit_count" db:"hit_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Log404 records misses against a distinct URL. One row per URL; repeats
// bump the hit count and refresh the most recent request details.
type Log404 struct {
	ID          int        `json:"id" db:"id"`
	URL         string     `json:"url" db:"url"`
	HitCount    int        `json:"hit_count" db:"hit_count"`
	Referrer    string     `json:"referrer" db:"referrer"`
	UserAgent   string     `json:"user_agent" db:"user_agent"`
	IPAddress   string     `json:"ip_address" db:"ip_address"`
	Resolved    bool       `json:"resolved" db:"resolved"`
	Ignored     bool       `json:"ignored" db:"ignored"`
	RedirectID  *int       `json:"redirect_id,omitempty" db:"redirect_id"`
	FirstSeenAt time.Time  `json:"first_seen_at" db:"first_seen_at"`
	LastSeenAt  time.Time  `json:"last_seen_at" db:"last_seen_at"`
}

// Unresolved reports whether the log still needs operator attention.
func (l Log404) Unresolved() bool {
	return !l.Resolved && !l.Ignored
}

// InternalLink is a directed edge between two page URLs, unique per
// (source, target) pair.
type InternalLink struct {
	ID            int        `json:"id" db:"id"`
	SourceURL     string     `json:"source_url" db:"source_url"`
	TargetURL     string     `json:"target_url" db:"target_url"`
	AnchorText    string     `json:"anchor_text" db:"anchor_text"`
	LinkType      string     `json:"link_type" db:"link_type"`
	Broken        bool       `json:"broken" db:"broken"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty" db:"last_checked_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Audit is one full-site evaluation run.
type Audit struct {
	ID               int         `json:"id" db:"id"`
	Type             string      `json:"type" db:"type"`
	Status           AuditStatus `json:"status" db:"status"`
	TechnicalScore   int         `json:"technical_score" db:"technical_score"`
	ContentScore     int         `json:"content_score" db:"content_score"`
	LinkScore        int         `json:"link_score" db:"link_score"`
	PerformanceScore int         `json:"performance_score" db:"performance_score"`
	OverallScore     int         `json:"overall_score" db:"overall_score"`
	CriticalIssues   int         `json:"critical_issues" db:"critical_issues"`
	WarningIssues    int         `json:"warning_issues" db:"warning_issues"`
	PassedChecks     int         `json:"passed_checks" db:"passed_checks"`
	PagesAnalyzed    int         `json:"pages_analyzed" db:"pages_analyzed"`
	Issues           []Issue     `json:"issues" db:"issues"`
	Recommendations  []string    `json:"recommendations" db:"recommendations"`
	StartedAt        *time.Time  `json:"started_at,omitempty" db:"started_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
}

// Terminal reports whether the audit has reached a final state.
func (a Audit) Terminal() bool {
	return a.Status == AuditStatusCompleted || a.Status == AuditStatusFailed
}

// InFlight reports whether the audit blocks a new trigger.
func (a Audit) InFlight() bool {
	return a.Status == AuditStatusPending || a.Status == AuditStatusRunning
}

// ContentSuggestion is an operator-facing recommendation, optionally tied
// to a page URL.
type ContentSuggestion struct {
	ID         int              `json:"id" db:"id"`
	PageURL    string           `json:"page_url" db:"page_url"`
	Type       string           `json:"type" db:"type"`
	Suggestion string           `json:"suggestion" db:"suggestion"`
	Reasoning  string           `json:"reasoning" db:"reasoning"`
	Priority   int              `json:"priority" db:"priority"`
	Status     SuggestionStatus `json:"status" db:"status"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}
