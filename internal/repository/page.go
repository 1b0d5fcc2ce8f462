package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// PageRepository handles database operations for pages
type PageRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewPageRepository creates a new page repository
func NewPageRepository(db *sql.DB, log *logger.Logger) *PageRepository {
	log.Info("Page repository initialized")
	return &PageRepository{
		db:     db,
		logger: log,
	}
}

const pageColumns = `id, url, page_type, title, description, canonical_url, focus_keyword,
	schema_type, title_score, description_score, content_score, readability_score,
	keyword_score, link_score, image_score, overall_score, issues, suggestions,
	in_sitemap, sitemap_priority, sitemap_changefreq, indexnow_submitted, indexnow_at,
	last_analyzed_at, created_at, updated_at`

// Upsert creates or updates a page keyed by URL. Score fields, metadata and
// the issue/suggestion lists are replaced; sitemap flags keep their stored
// values on update unless the caller changed them.
func (r *PageRepository) Upsert(ctx context.Context, page *domain.Page) error {
	start := time.Now()
	r.logger.Debug("Upserting page: url='%s' overall=%d", page.URL, page.OverallScore)

	issues, err := json.Marshal(page.Issues)
	if err != nil {
		return fmt.Errorf("failed to encode page issues: %w", err)
	}
	suggestions, err := json.Marshal(page.Suggestions)
	if err != nil {
		return fmt.Errorf("failed to encode page suggestions: %w", err)
	}

	query := `
		INSERT INTO pages (
			url, page_type, title, description, canonical_url, focus_keyword, schema_type,
			title_score, description_score, content_score, readability_score,
			keyword_score, link_score, image_score, overall_score,
			issues, suggestions, in_sitemap, sitemap_priority, sitemap_changefreq,
			last_analyzed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(url) DO UPDATE SET
			page_type = excluded.page_type,
			title = excluded.title,
			description = excluded.description,
			canonical_url = excluded.canonical_url,
			focus_keyword = excluded.focus_keyword,
			schema_type = excluded.schema_type,
			title_score = excluded.title_score,
			description_score = excluded.description_score,
			content_score = excluded.content_score,
			readability_score = excluded.readability_score,
			keyword_score = excluded.keyword_score,
			link_score = excluded.link_score,
			image_score = excluded.image_score,
			overall_score = excluded.overall_score,
			issues = excluded.issues,
			suggestions = excluded.suggestions,
			in_sitemap = excluded.in_sitemap,
			sitemap_priority = excluded.sitemap_priority,
			sitemap_changefreq = excluded.sitemap_changefreq,
			last_analyzed_at = excluded.last_analyzed_at,
			updated_at = CURRENT_TIMESTAMP
	`

	var lastAnalyzed interface{}
	if page.LastAnalyzedAt != nil {
		lastAnalyzed = *page.LastAnalyzedAt
	}

	_, err = r.db.ExecContext(ctx, query,
		page.URL, page.PageType, page.Title, page.Description, page.CanonicalURL,
		page.FocusKeyword, page.SchemaType,
		page.TitleScore, page.DescriptionScore, page.ContentScore, page.ReadabilityScore,
		page.KeywordScore, page.LinkScore, page.ImageScore, page.OverallScore,
		string(issues), string(suggestions),
		page.InSitemap, page.SitemapPriority, page.SitemapChangefreq,
		lastAnalyzed,
	)
	duration := time.Since(start)

	if err != nil {
		r.logger.Error("Database upsert failed for page '%s': %v (%v)", page.URL, err, duration)
		return fmt.Errorf("failed to upsert page: %w", err)
	}

	r.logger.Debug("Page upserted successfully: url='%s' (%v)", page.URL, duration)
	return nil
}

// GetByURL retrieves a page by its URL, returning (nil, nil) when absent
func (r *PageRepository) GetByURL(ctx context.Context, url string) (*domain.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM pages WHERE url = ?`, pageColumns)

	page, err := scanPage(r.db.QueryRowContext(ctx, query, url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Database query failed for page '%s': %v", url, err)
		return nil, fmt.Errorf("failed to get page by url: %w", err)
	}

	return page, nil
}

// List retrieves all pages ordered by URL
func (r *PageRepository) List(ctx context.Context) ([]domain.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM pages ORDER BY url`, pageColumns)
	return r.list(ctx, query)
}

// ListSitemap retrieves pages flagged for sitemap inclusion
func (r *PageRepository) ListSitemap(ctx context.Context) ([]domain.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM pages WHERE in_sitemap = 1 ORDER BY url`, pageColumns)
	return r.list(ctx, query)
}

func (r *PageRepository) list(ctx context.Context, query string) ([]domain.Page, error) {
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Database query failed: %v (%v)", err, time.Since(start))
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, *page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pages: %w", err)
	}

	r.logger.Debug("Pages retrieved: %d (%v)", len(pages), time.Since(start))
	return pages, nil
}

// MarkSubmitted flags the given URLs as submitted to the indexing service
func (r *PageRepository) MarkSubmitted(ctx context.Context, urls []string, submittedAt time.Time) error {
	if len(urls) == 0 {
		return nil
	}

	query := `UPDATE pages SET indexnow_submitted = 1, indexnow_at = ?, updated_at = CURRENT_TIMESTAMP WHERE url = ?`
	for _, url := range urls {
		if _, err := r.db.ExecContext(ctx, query, submittedAt, url); err != nil {
			r.logger.Error("Failed to mark page submitted '%s': %v", url, err)
			return fmt.Errorf("failed to mark page submitted: %w", err)
		}
	}

	r.logger.Info("Marked %d pages as submitted for indexing", len(urls))
	return nil
}

// Delete removes a page by URL. Explicit operator action only.
func (r *PageRepository) Delete(ctx context.Context, url string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE url = ?`, url)
	if err != nil {
		r.logger.Error("Failed to delete page '%s': %v", url, err)
		return fmt.Errorf("failed to delete page: %w", err)
	}

	affected, _ := result.RowsAffected()
	r.logger.Info("Page deleted: url='%s' rows=%d", url, affected)
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan path
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPage(s scanner) (*domain.Page, error) {
	var page domain.Page
	var issues, suggestions string
	var indexNowAt, lastAnalyzedAt sql.NullTime

	err := s.Scan(
		&page.ID, &page.URL, &page.PageType, &page.Title, &page.Description,
		&page.CanonicalURL, &page.FocusKeyword, &page.SchemaType,
		&page.TitleScore, &page.DescriptionScore, &page.ContentScore, &page.ReadabilityScore,
		&page.KeywordScore, &page.LinkScore, &page.ImageScore, &page.OverallScore,
		&issues, &suggestions,
		&page.InSitemap, &page.SitemapPriority, &page.SitemapChangefreq,
		&page.IndexNowSubmitted, &indexNowAt, &lastAnalyzedAt,
		&page.CreatedAt, &page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(issues), &page.Issues); err != nil {
		return nil, fmt.Errorf("failed to decode page issues: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestions), &page.Suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode page suggestions: %w", err)
	}
	if indexNowAt.Valid {
		page.IndexNowAt = &indexNowAt.Time
	}
	if lastAnalyzedAt.Valid {
		page.LastAnalyzedAt = &lastAnalyzedAt.Time
	}

	return &page, nil
}
