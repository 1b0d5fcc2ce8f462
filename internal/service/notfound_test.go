package service

import (
	"context"
	"testing"
	"time"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

type mockNotFoundRepository struct {
	logs   map[string]*domain.Log404
	nextID int
}

func newMockNotFoundRepository() *mockNotFoundRepository {
	return &mockNotFoundRepository{logs: make(map[string]*domain.Log404), nextID: 1}
}

func (m *mockNotFoundRepository) Record(ctx context.Context, url, referrer, userAgent, ip string) error {
	if entry, ok := m.logs[url]; ok {
		entry.HitCount++
		entry.Referrer = referrer
		entry.UserAgent = userAgent
		entry.IPAddress = ip
		entry.LastSeenAt = time.Now()
		return nil
	}
	m.logs[url] = &domain.Log404{
		ID:          m.nextID,
		URL:         url,
		HitCount:    1,
		Referrer:    referrer,
		UserAgent:   userAgent,
		IPAddress:   ip,
		FirstSeenAt: time.Now(),
		LastSeenAt:  time.Now(),
	}
	m.nextID++
	return nil
}

func (m *mockNotFoundRepository) GetByID(ctx context.Context, id int) (*domain.Log404, error) {
	for _, entry := range m.logs {
		if entry.ID == id {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockNotFoundRepository) GetByURL(ctx context.Context, url string) (*domain.Log404, error) {
	if entry, ok := m.logs[url]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, nil
}

func (m *mockNotFoundRepository) ListUnresolved(ctx context.Context) ([]domain.Log404, error) {
	var out []domain.Log404
	for _, entry := range m.logs {
		if entry.Unresolved() {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (m *mockNotFoundRepository) MarkResolved(ctx context.Context, id int, redirectID *int) error {
	for _, entry := range m.logs {
		if entry.ID == id {
			entry.Resolved = true
			entry.RedirectID = redirectID
			return nil
		}
	}
	return nil
}

func (m *mockNotFoundRepository) MarkIgnored(ctx context.Context, id int) error {
	for _, entry := range m.logs {
		if entry.ID == id {
			entry.Ignored = true
			return nil
		}
	}
	return nil
}

type mockRedirectRepository struct {
	redirects map[int]*domain.Redirect
	nextID    int
}

func newMockRedirectRepository() *mockRedirectRepository {
	return &mockRedirectRepository{redirects: make(map[int]*domain.Redirect), nextID: 1}
}

func (m *mockRedirectRepository) Create(ctx context.Context, redirect *domain.Redirect) error {
	redirect.ID = m.nextID
	m.nextID++
	copied := *redirect
	m.redirects[redirect.ID] = &copied
	return nil
}

func (m *mockRedirectRepository) GetByID(ctx context.Context, id int) (*domain.Redirect, error) {
	redirect, ok := m.redirects[id]
	if !ok {
		return nil, nil
	}
	copied := *redirect
	return &copied, nil
}

func (m *mockRedirectRepository) ListActive(ctx context.Context) ([]domain.Redirect, error) {
	var out []domain.Redirect
	for _, redirect := range m.redirects {
		if redirect.Active {
			out = append(out, *redirect)
		}
	}
	return out, nil
}

func (m *mockRedirectRepository) IncrementHit(ctx context.Context, id int) error {
	if redirect, ok := m.redirects[id]; ok {
		redirect.HitCount++
	}
	return nil
}

func (m *mockRedirectRepository) SetActive(ctx context.Context, id int, active bool) error {
	if redirect, ok := m.redirects[id]; ok {
		redirect.Active = active
	}
	return nil
}

func newNotFoundService() (*NotFoundService, *mockNotFoundRepository, *mockRedirectRepository) {
	logs := newMockNotFoundRepository()
	redirects := newMockRedirectRepository()
	svc := NewNotFoundService(logs, redirects, logger.New(logger.Config{Level: "error"}))
	return svc, logs, redirects
}

func TestNotFoundService_Log404Dedupes(t *testing.T) {
	svc, logs, _ := newNotFoundService()
	ctx := context.Background()

	first, err := svc.Log404(ctx, "/old-page", "https://google.com", "bot", "1.2.3.4")
	if err != nil {
		t.Fatalf("Log404() error = %v", err)
	}
	if first.HitCount != 1 {
		t.Errorf("HitCount = %d, want 1", first.HitCount)
	}

	second, err := svc.Log404(ctx, "/old-page", "https://bing.com", "browser", "5.6.7.8")
	if err != nil {
		t.Fatalf("Log404() error = %v", err)
	}
	if second.HitCount != 2 {
		t.Errorf("HitCount = %d, want 2", second.HitCount)
	}
	if second.Referrer != "https://bing.com" {
		t.Errorf("Referrer = %q, want latest request details", second.Referrer)
	}
	if len(logs.logs) != 1 {
		t.Errorf("got %d rows, want 1", len(logs.logs))
	}

	if _, err := svc.Log404(ctx, "  ", "", "", ""); !IsValidation(err) {
		t.Errorf("empty url error = %v, want validation error", err)
	}
}

func TestNotFoundService_CreateRedirectFromLog(t *testing.T) {
	svc, logs, redirects := newNotFoundService()
	ctx := context.Background()

	entry, _ := svc.Log404(ctx, "/old-plans", "", "", "")

	redirect, err := svc.CreateRedirectFromLog(ctx, entry.ID, "/plans")
	if err != nil {
		t.Fatalf("CreateRedirectFromLog() error = %v", err)
	}

	if redirect.StatusCode != 301 {
		t.Errorf("StatusCode = %d, want 301", redirect.StatusCode)
	}
	if redirect.SourceURL != "/old-plans" || redirect.TargetURL != "/plans" {
		t.Errorf("redirect mapping = %s -> %s", redirect.SourceURL, redirect.TargetURL)
	}
	if !redirect.Active {
		t.Error("redirect should be active")
	}
	if len(redirects.redirects) != 1 {
		t.Errorf("got %d redirects, want 1", len(redirects.redirects))
	}

	resolved, _ := logs.GetByID(ctx, entry.ID)
	if !resolved.Resolved {
		t.Error("log should be resolved")
	}
	if resolved.RedirectID == nil || *resolved.RedirectID != redirect.ID {
		t.Errorf("RedirectID = %v, want %d", resolved.RedirectID, redirect.ID)
	}
}

func TestNotFoundService_CreateRedirectFromLogValidation(t *testing.T) {
	svc, _, _ := newNotFoundService()
	ctx := context.Background()

	if _, err := svc.CreateRedirectFromLog(ctx, 42, "/plans"); !IsValidation(err) {
		t.Errorf("unknown log error = %v, want validation error", err)
	}

	entry, _ := svc.Log404(ctx, "/loop", "", "", "")
	if _, err := svc.CreateRedirectFromLog(ctx, entry.ID, "/loop"); !IsValidation(err) {
		t.Errorf("self redirect error = %v, want validation error", err)
	}
	if _, err := svc.CreateRedirectFromLog(ctx, entry.ID, ""); !IsValidation(err) {
		t.Errorf("empty target error = %v, want validation error", err)
	}
}

func TestNotFoundService_ResolveAndIgnore(t *testing.T) {
	svc, _, _ := newNotFoundService()
	ctx := context.Background()

	entry, _ := svc.Log404(ctx, "/gone", "", "", "")
	other, _ := svc.Log404(ctx, "/also-gone", "", "", "")

	if err := svc.Resolve(ctx, entry.ID, nil); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := svc.Ignore(ctx, other.ID); err != nil {
		t.Fatalf("Ignore() error = %v", err)
	}

	open, err := svc.ListUnresolved(ctx)
	if err != nil {
		t.Fatalf("ListUnresolved() error = %v", err)
	}
	if len(open) != 0 {
		t.Errorf("got %d unresolved logs, want 0", len(open))
	}

	if err := svc.Resolve(ctx, 999, nil); !IsValidation(err) {
		t.Errorf("unknown log error = %v, want validation error", err)
	}
}

func TestNotFoundService_ResolveWithRedirect(t *testing.T) {
	svc, logs, _ := newNotFoundService()
	ctx := context.Background()

	entry, _ := svc.Log404(ctx, "/moved", "", "", "")
	redirect := &domain.Redirect{SourceURL: "/moved", TargetURL: "/new"}
	if err := svc.CreateRedirect(ctx, redirect); err != nil {
		t.Fatalf("CreateRedirect() error = %v", err)
	}

	if err := svc.Resolve(ctx, entry.ID, &redirect.ID); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	resolved, _ := logs.GetByID(ctx, entry.ID)
	if resolved.RedirectID == nil || *resolved.RedirectID != redirect.ID {
		t.Errorf("RedirectID = %v, want %d", resolved.RedirectID, redirect.ID)
	}

	missing := 999
	if err := svc.Resolve(ctx, entry.ID, &missing); !IsValidation(err) {
		t.Errorf("unknown redirect error = %v, want validation error", err)
	}
}

func TestNotFoundService_CreateRedirect(t *testing.T) {
	svc, _, redirects := newNotFoundService()
	ctx := context.Background()

	redirect := &domain.Redirect{SourceURL: "/a", TargetURL: "/b"}
	if err := svc.CreateRedirect(ctx, redirect); err != nil {
		t.Fatalf("CreateRedirect() error = %v", err)
	}
	if redirect.StatusCode != 301 {
		t.Errorf("StatusCode = %d, want default 301", redirect.StatusCode)
	}

	tests := []struct {
		name     string
		redirect domain.Redirect
	}{
		{"missing source", domain.Redirect{TargetURL: "/b"}},
		{"same source and target", domain.Redirect{SourceURL: "/a", TargetURL: "/a"}},
		{"non redirect status", domain.Redirect{SourceURL: "/a", TargetURL: "/b", StatusCode: 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.redirect
			if err := svc.CreateRedirect(ctx, &r); !IsValidation(err) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}

	if err := svc.RecordHit(ctx, redirect.ID); err != nil {
		t.Fatalf("RecordHit() error = %v", err)
	}
	stored, _ := redirects.GetByID(ctx, redirect.ID)
	if stored.HitCount != 1 {
		t.Errorf("HitCount = %d, want 1", stored.HitCount)
	}
}
