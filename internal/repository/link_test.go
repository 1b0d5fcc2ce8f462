package repository

import (
	"context"
	"testing"

	"seoengine/internal/domain"
)

func TestLinkRepository_UpsertPairUnique(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewLinkRepository(db, testLogger())
	ctx := context.Background()

	link := &domain.InternalLink{SourceURL: "/blog/setup", TargetURL: "/plans", AnchorText: "our plans", LinkType: "internal"}
	if err := repo.Upsert(ctx, link); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Re-crawling the same pair must refresh, not duplicate
	link.AnchorText = "subscription plans"
	if err := repo.Upsert(ctx, link); err != nil {
		t.Fatalf("Upsert() recrawl error = %v", err)
	}

	links, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("List() returned %d edges, want 1", len(links))
	}
	if links[0].AnchorText != "subscription plans" {
		t.Errorf("List() anchor = %q, want refreshed anchor text", links[0].AnchorText)
	}
	if links[0].LastCheckedAt == nil {
		t.Error("List() LastCheckedAt = nil, want timestamp")
	}
}

func TestLinkRepository_InboundCounts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewLinkRepository(db, testLogger())
	ctx := context.Background()

	edges := []domain.InternalLink{
		{SourceURL: "/", TargetURL: "/plans", LinkType: "internal"},
		{SourceURL: "/blog/setup", TargetURL: "/plans", LinkType: "internal"},
		{SourceURL: "/plans", TargetURL: "/faq", LinkType: "internal"},
		{SourceURL: "/plans", TargetURL: "https://example.org", LinkType: "external"},
	}
	for i := range edges {
		if err := repo.Upsert(ctx, &edges[i]); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	counts, err := repo.InboundCounts(ctx)
	if err != nil {
		t.Fatalf("InboundCounts() error = %v", err)
	}
	if counts["/plans"] != 2 {
		t.Errorf("InboundCounts()[/plans] = %d, want 2", counts["/plans"])
	}
	if counts["/faq"] != 1 {
		t.Errorf("InboundCounts()[/faq] = %d, want 1", counts["/faq"])
	}
	// External edges do not count toward the internal graph
	if _, ok := counts["https://example.org"]; ok {
		t.Error("InboundCounts() includes external target, want internal edges only")
	}
}

func TestLinkRepository_SetBroken(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewLinkRepository(db, testLogger())
	ctx := context.Background()

	link := &domain.InternalLink{SourceURL: "/blog/setup", TargetURL: "/plans", LinkType: "internal"}
	if err := repo.Upsert(ctx, link); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	affected, err := repo.SetBroken(ctx, "/blog/setup", "/plans", true)
	if err != nil {
		t.Fatalf("SetBroken() error = %v", err)
	}
	if affected != 1 {
		t.Errorf("SetBroken() affected = %d, want 1", affected)
	}

	broken, err := repo.ListBroken(ctx)
	if err != nil {
		t.Fatalf("ListBroken() error = %v", err)
	}
	if len(broken) != 1 || !broken[0].Broken {
		t.Errorf("ListBroken() = %v, want the flagged edge", broken)
	}

	affected, err = repo.SetBroken(ctx, "/missing", "/plans", true)
	if err != nil {
		t.Fatalf("SetBroken() error = %v", err)
	}
	if affected != 0 {
		t.Errorf("SetBroken() on missing edge affected = %d, want 0", affected)
	}
}
