package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// PageRepository defines the interface for page data access
type PageRepository interface {
	Upsert(ctx context.Context, page *domain.Page) error
	GetByURL(ctx context.Context, url string) (*domain.Page, error)
	List(ctx context.Context) ([]domain.Page, error)
	ListSitemap(ctx context.Context) ([]domain.Page, error)
	MarkSubmitted(ctx context.Context, urls []string, submittedAt time.Time) error
	Delete(ctx context.Context, url string) error
}

// PageService scores page content and maintains the page corpus.
type PageService struct {
	pages  PageRepository
	scorer *Scorer
	logger *logger.Logger
	now    func() time.Time
}

// NewPageService creates a new page service
func NewPageService(pages PageRepository, scorer *Scorer, log *logger.Logger) *PageService {
	return &PageService{
		pages:  pages,
		scorer: scorer,
		logger: log,
		now:    time.Now,
	}
}

// Score evaluates content without persisting anything
func (s *PageService) Score(stats domain.ContentStats) domain.ScoreResult {
	return s.scorer.Score(stats)
}

// ScoreAndStore scores content and upserts the result against the page
// keyed by url. Repeated calls rescore in place; no duplicate rows.
func (s *PageService) ScoreAndStore(ctx context.Context, page *domain.Page, stats domain.ContentStats) (*domain.Page, error) {
	page.URL = strings.TrimSpace(page.URL)
	if page.URL == "" {
		return nil, ValidationError{Message: "page url is required"}
	}
	if page.PageType == "" {
		page.PageType = domain.PageTypePage
	}

	result := s.scorer.Score(stats)

	page.Title = stats.Title
	page.Description = stats.Description
	page.FocusKeyword = stats.FocusKeyword
	page.TitleScore = result.TitleScore
	page.DescriptionScore = result.DescriptionScore
	page.ContentScore = result.ContentScore
	page.ReadabilityScore = result.ReadabilityScore
	page.KeywordScore = result.KeywordScore
	page.LinkScore = result.LinkScore
	page.ImageScore = result.ImageScore
	page.OverallScore = result.OverallScore
	page.Issues = result.Issues
	page.Suggestions = result.Suggestions

	analyzedAt := s.now()
	page.LastAnalyzedAt = &analyzedAt

	if page.SitemapChangefreq == "" {
		page.SitemapChangefreq = "weekly"
	}
	if page.SitemapPriority == 0 {
		page.SitemapPriority = 0.5
	}

	if err := s.pages.Upsert(ctx, page); err != nil {
		return nil, fmt.Errorf("failed to store page score: %w", err)
	}

	stored, err := s.pages.GetByURL(ctx, page.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored page: %w", err)
	}

	s.logger.Info("Page scored: url='%s' overall=%d issues=%d", page.URL, result.OverallScore, len(result.Issues))
	return stored, nil
}

// Get retrieves a page by URL
func (s *PageService) Get(ctx context.Context, url string) (*domain.Page, error) {
	page, err := s.pages.GetByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ValidationError{Message: fmt.Sprintf("page not found: %s", url)}
	}
	return page, nil
}

// List returns the full page corpus
func (s *PageService) List(ctx context.Context) ([]domain.Page, error) {
	return s.pages.List(ctx)
}

// Delete removes a page from tracking
func (s *PageService) Delete(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ValidationError{Message: "page url is required"}
	}
	return s.pages.Delete(ctx, url)
}
