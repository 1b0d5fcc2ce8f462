package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

func TestSitemapService_Generate(t *testing.T) {
	pages := newMockPageRepository()
	analyzed := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	pages.pages["/plans"] = &domain.Page{
		ID: 1, URL: "/plans", InSitemap: true,
		SitemapPriority: 0.8, SitemapChangefreq: "weekly",
		LastAnalyzedAt: &analyzed,
	}
	pages.pages["/internal-notes"] = &domain.Page{
		ID: 2, URL: "/internal-notes", InSitemap: false,
	}

	svc := NewSitemapService(pages, "https://streamdeals.example.com/",
		logger.New(logger.Config{Level: "error"}))

	body, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	xml := string(body)

	if !strings.HasPrefix(xml, "<?xml") {
		t.Errorf("missing XML header: %s", xml[:40])
	}
	if !strings.Contains(xml, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Error("missing sitemap namespace")
	}
	if !strings.Contains(xml, "<loc>https://streamdeals.example.com/plans</loc>") {
		t.Errorf("missing or relative loc:\n%s", xml)
	}
	if !strings.Contains(xml, "<lastmod>2025-05-20</lastmod>") {
		t.Errorf("missing lastmod:\n%s", xml)
	}
	if !strings.Contains(xml, "<changefreq>weekly</changefreq>") {
		t.Errorf("missing changefreq:\n%s", xml)
	}
	if !strings.Contains(xml, "<priority>0.8</priority>") {
		t.Errorf("missing priority:\n%s", xml)
	}
	if strings.Contains(xml, "/internal-notes") {
		t.Error("excluded page leaked into the sitemap")
	}
}

func TestSitemapService_GenerateEmpty(t *testing.T) {
	svc := NewSitemapService(newMockPageRepository(), "https://streamdeals.example.com",
		logger.New(logger.Config{Level: "error"}))

	body, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(string(body), "urlset") {
		t.Errorf("empty sitemap should still contain a urlset element:\n%s", body)
	}
}
