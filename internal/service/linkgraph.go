package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// Suggestions are capped because the scan is quadratic over the page
// corpus; it runs out of band and the cap keeps payloads bounded.
const (
	maxLinkSuggestions   = 20
	defaultLinkThreshold = 2
)

// LinkRepository defines the interface for link graph data access
type LinkRepository interface {
	Upsert(ctx context.Context, link *domain.InternalLink) error
	List(ctx context.Context) ([]domain.InternalLink, error)
	ListBroken(ctx context.Context) ([]domain.InternalLink, error)
	InboundCounts(ctx context.Context) (map[string]int, error)
	SetBroken(ctx context.Context, sourceURL, targetURL string, broken bool) (int64, error)
}

// SuggestionCache caches the suggestion scan output between batch runs.
// A miss is (nil, nil).
type SuggestionCache interface {
	Get(ctx context.Context) ([]domain.LinkSuggestion, error)
	Set(ctx context.Context, suggestions []domain.LinkSuggestion) error
}

// LinkGraphService maintains the directed link graph over page URLs and
// answers the derived queries over it.
type LinkGraphService struct {
	links   LinkRepository
	pages   PageRepository
	cache   SuggestionCache
	rootURL string
	logger  *logger.Logger
}

// NewLinkGraphService creates a new link graph service. cache may be nil,
// in which case every suggestion request runs the full scan.
func NewLinkGraphService(links LinkRepository, pages PageRepository, cache SuggestionCache, rootURL string, log *logger.Logger) *LinkGraphService {
	return &LinkGraphService{
		links:   links,
		pages:   pages,
		cache:   cache,
		rootURL: strings.TrimRight(rootURL, "/"),
		logger:  log,
	}
}

// UpsertLink records a directed edge. Re-crawling the same pair updates
// anchor text and the last-checked stamp instead of duplicating.
func (s *LinkGraphService) UpsertLink(ctx context.Context, source, target, anchorText, linkType string) (*domain.InternalLink, error) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	if source == "" || target == "" {
		return nil, ValidationError{Message: "source and target urls are required"}
	}
	if linkType == "" {
		linkType = "internal"
	}

	link := &domain.InternalLink{
		SourceURL:  source,
		TargetURL:  target,
		AnchorText: anchorText,
		LinkType:   linkType,
	}
	if err := s.links.Upsert(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to upsert link: %w", err)
	}

	return link, nil
}

// List returns the full edge set
func (s *LinkGraphService) List(ctx context.Context) ([]domain.InternalLink, error) {
	return s.links.List(ctx)
}

// BrokenLinks returns edges flagged broken
func (s *LinkGraphService) BrokenLinks(ctx context.Context) ([]domain.InternalLink, error) {
	return s.links.ListBroken(ctx)
}

// Orphans returns pages with zero inbound internal edges. The site root
// is excluded; it legitimately has no inbound links.
func (s *LinkGraphService) Orphans(ctx context.Context) ([]domain.Page, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	inbound, err := s.links.InboundCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inbound counts: %w", err)
	}

	var orphans []domain.Page
	for _, page := range pages {
		if s.isRoot(page.URL) {
			continue
		}
		if inbound[page.URL] == 0 {
			orphans = append(orphans, page)
		}
	}

	s.logger.Debug("Orphan scan: %d of %d pages", len(orphans), len(pages))
	return orphans, nil
}

// UnderLinked returns non-root pages whose inbound count is below the
// threshold, least-linked first. A non-positive threshold falls back to 2.
func (s *LinkGraphService) UnderLinked(ctx context.Context, threshold int) ([]domain.PageLinkCount, error) {
	if threshold <= 0 {
		threshold = defaultLinkThreshold
	}

	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	inbound, err := s.links.InboundCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inbound counts: %w", err)
	}

	var results []domain.PageLinkCount
	for _, page := range pages {
		if s.isRoot(page.URL) {
			continue
		}
		if count := inbound[page.URL]; count < threshold {
			results = append(results, domain.PageLinkCount{URL: page.URL, InboundLinks: count})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].InboundLinks != results[j].InboundLinks {
			return results[i].InboundLinks < results[j].InboundLinks
		}
		return results[i].URL < results[j].URL
	})

	return results, nil
}

// Suggestions returns proposed new internal links, serving the cached
// batch result when one is available.
func (s *LinkGraphService) Suggestions(ctx context.Context) ([]domain.LinkSuggestion, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Suggestion cache read failed, falling back to scan: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	return s.RefreshSuggestions(ctx)
}

// RefreshSuggestions runs the full pairwise scan and repopulates the
// cache. The scan is O(pages squared) and meant for batch execution.
func (s *LinkGraphService) RefreshSuggestions(ctx context.Context) ([]domain.LinkSuggestion, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	links, err := s.links.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}

	edges := make(map[string]bool, len(links))
	for _, link := range links {
		edges[link.SourceURL+"\x00"+link.TargetURL] = true
	}

	suggestions := make([]domain.LinkSuggestion, 0, maxLinkSuggestions)
scan:
	for _, source := range pages {
		if source.FocusKeyword == "" {
			continue
		}
		keyword := strings.ToLower(source.FocusKeyword)

		for _, target := range pages {
			if source.URL == target.URL {
				continue
			}
			if edges[source.URL+"\x00"+target.URL] {
				continue
			}
			if !keywordMatchesPage(keyword, target) {
				continue
			}

			suggestions = append(suggestions, domain.LinkSuggestion{
				SourceURL: source.URL,
				TargetURL: target.URL,
				Reason:    fmt.Sprintf("'%s' is relevant to %s", source.FocusKeyword, target.URL),
			})
			if len(suggestions) >= maxLinkSuggestions {
				break scan
			}
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, suggestions); err != nil {
			s.logger.Warn("Suggestion cache write failed: %v", err)
		}
	}

	s.logger.Info("Link suggestion scan: %d suggestions over %d pages", len(suggestions), len(pages))
	return suggestions, nil
}

// MarkBroken flips the broken flag on an existing edge. Unknown edges are
// rejected rather than created.
func (s *LinkGraphService) MarkBroken(ctx context.Context, source, target string, broken bool) error {
	affected, err := s.links.SetBroken(ctx, source, target, broken)
	if err != nil {
		return fmt.Errorf("failed to mark link: %w", err)
	}
	if affected == 0 {
		return ValidationError{Message: fmt.Sprintf("link not found: %s -> %s", source, target)}
	}
	return nil
}

func (s *LinkGraphService) isRoot(url string) bool {
	trimmed := strings.TrimRight(url, "/")
	return trimmed == "" || trimmed == s.rootURL
}

func keywordMatchesPage(lowerKeyword string, page domain.Page) bool {
	return strings.Contains(strings.ToLower(page.Title), lowerKeyword) ||
		strings.Contains(strings.ToLower(page.Description), lowerKeyword) ||
		strings.Contains(strings.ToLower(page.FocusKeyword), lowerKeyword)
}
