package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"seoengine/internal/database"
	"seoengine/internal/domain"
	"seoengine/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error"})
}

func TestPageRepository_UpsertByURL(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPageRepository(db, testLogger())
	ctx := context.Background()

	analyzed := time.Now().UTC()
	page := &domain.Page{
		URL:               "/plans",
		PageType:          domain.PageTypePage,
		Title:             "IPTV Plans",
		FocusKeyword:      "iptv",
		OverallScore:      72,
		Issues:            []domain.Issue{{Type: "title", Severity: domain.SeverityWarning, Message: "Title too short"}},
		Suggestions:       []string{"Lengthen the title"},
		InSitemap:         true,
		SitemapPriority:   0.8,
		SitemapChangefreq: "daily",
		LastAnalyzedAt:    &analyzed,
	}

	if err := repo.Upsert(ctx, page); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Rescore the same URL: must update in place, not duplicate
	page.Title = "Best IPTV Subscription Plans 2026"
	page.OverallScore = 91
	page.Issues = nil
	if err := repo.Upsert(ctx, page); err != nil {
		t.Fatalf("Upsert() rescore error = %v", err)
	}

	pages, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("List() returned %d pages, want 1", len(pages))
	}

	got, err := repo.GetByURL(ctx, "/plans")
	if err != nil {
		t.Fatalf("GetByURL() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByURL() = nil, want page")
	}
	if got.Title != "Best IPTV Subscription Plans 2026" || got.OverallScore != 91 {
		t.Errorf("GetByURL() = title %q overall %d, want updated values", got.Title, got.OverallScore)
	}
	if len(got.Issues) != 0 {
		t.Errorf("GetByURL() issues = %v, want empty after rescore", got.Issues)
	}
	if got.LastAnalyzedAt == nil {
		t.Error("GetByURL() LastAnalyzedAt = nil, want timestamp")
	}
}

func TestPageRepository_GetByURL_Missing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPageRepository(db, testLogger())

	got, err := repo.GetByURL(context.Background(), "/nonexistent")
	if err != nil {
		t.Fatalf("GetByURL() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetByURL() = %v, want nil for missing page", got)
	}
}

func TestPageRepository_ListSitemap(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPageRepository(db, testLogger())
	ctx := context.Background()

	included := &domain.Page{URL: "/plans", PageType: domain.PageTypePage, InSitemap: true, SitemapChangefreq: "weekly"}
	excluded := &domain.Page{URL: "/internal-tools", PageType: domain.PageTypePage, InSitemap: false}
	for _, page := range []*domain.Page{included, excluded} {
		if err := repo.Upsert(ctx, page); err != nil {
			t.Fatalf("Upsert(%s) error = %v", page.URL, err)
		}
	}

	pages, err := repo.ListSitemap(ctx)
	if err != nil {
		t.Fatalf("ListSitemap() error = %v", err)
	}
	if len(pages) != 1 || pages[0].URL != "/plans" {
		t.Errorf("ListSitemap() = %v, want only /plans", pages)
	}
}

func TestPageRepository_MarkSubmitted(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPageRepository(db, testLogger())
	ctx := context.Background()

	if err := repo.Upsert(ctx, &domain.Page{URL: "/plans", PageType: domain.PageTypePage, InSitemap: true}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	submittedAt := time.Now().UTC()
	if err := repo.MarkSubmitted(ctx, []string{"/plans"}, submittedAt); err != nil {
		t.Fatalf("MarkSubmitted() error = %v", err)
	}

	got, err := repo.GetByURL(ctx, "/plans")
	if err != nil {
		t.Fatalf("GetByURL() error = %v", err)
	}
	if !got.IndexNowSubmitted || got.IndexNowAt == nil {
		t.Errorf("MarkSubmitted() submitted=%v at=%v, want flagged with timestamp", got.IndexNowSubmitted, got.IndexNowAt)
	}
}

func TestPageRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPageRepository(db, testLogger())
	ctx := context.Background()

	if err := repo.Upsert(ctx, &domain.Page{URL: "/plans", PageType: domain.PageTypePage}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Delete(ctx, "/plans"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := repo.GetByURL(ctx, "/plans")
	if err != nil {
		t.Fatalf("GetByURL() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetByURL() after delete = %v, want nil", got)
	}
}
