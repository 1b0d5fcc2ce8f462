package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

type sitemapEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name       `xml:"urlset"`
	Xmlns   string         `xml:"xmlns,attr"`
	URLs    []sitemapEntry `xml:"url"`
}

// SitemapService renders the sitemap from the page corpus. Pure
// transform; only pages flagged for inclusion appear.
type SitemapService struct {
	pages   PageRepository
	siteURL string
	logger  *logger.Logger
}

// NewSitemapService creates a new sitemap service
func NewSitemapService(pages PageRepository, siteURL string, log *logger.Logger) *SitemapService {
	return &SitemapService{
		pages:   pages,
		siteURL: strings.TrimRight(siteURL, "/"),
		logger:  log,
	}
}

// Generate renders the sitemap XML document
func (s *SitemapService) Generate(ctx context.Context) ([]byte, error) {
	pages, err := s.pages.ListSitemap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sitemap pages: %w", err)
	}

	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapEntry, 0, len(pages)),
	}

	for _, page := range pages {
		set.URLs = append(set.URLs, sitemapEntry{
			Loc:        s.absoluteURL(page.URL),
			LastMod:    lastModified(page),
			ChangeFreq: page.SitemapChangefreq,
			Priority:   fmt.Sprintf("%.1f", page.SitemapPriority),
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}

	s.logger.Debug("Sitemap generated: %d urls", len(set.URLs))
	return append([]byte(xml.Header), body...), nil
}

func (s *SitemapService) absoluteURL(pageURL string) string {
	if strings.HasPrefix(pageURL, "http://") || strings.HasPrefix(pageURL, "https://") {
		return pageURL
	}
	if !strings.HasPrefix(pageURL, "/") {
		pageURL = "/" + pageURL
	}
	return s.siteURL + pageURL
}

func lastModified(page domain.Page) string {
	if page.LastAnalyzedAt != nil {
		return page.LastAnalyzedAt.Format("2006-01-02")
	}
	if !page.UpdatedAt.IsZero() {
		return page.UpdatedAt.Format("2006-01-02")
	}
	return ""
}
