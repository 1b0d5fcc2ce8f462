package service

import (
	"context"
	"fmt"
	"strings"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// NotFoundRepository defines the interface for 404 log data access
type NotFoundRepository interface {
	Record(ctx context.Context, url, referrer, userAgent, ip string) error
	GetByID(ctx context.Context, id int) (*domain.Log404, error)
	GetByURL(ctx context.Context, url string) (*domain.Log404, error)
	ListUnresolved(ctx context.Context) ([]domain.Log404, error)
	MarkResolved(ctx context.Context, id int, redirectID *int) error
	MarkIgnored(ctx context.Context, id int) error
}

// RedirectRepository defines the interface for redirect data access
type RedirectRepository interface {
	Create(ctx context.Context, redirect *domain.Redirect) error
	GetByID(ctx context.Context, id int) (*domain.Redirect, error)
	ListActive(ctx context.Context) ([]domain.Redirect, error)
	IncrementHit(ctx context.Context, id int) error
	SetActive(ctx context.Context, id int, active bool) error
}

// NotFoundService owns the 404 log and the redirects that resolve it.
type NotFoundService struct {
	logs      NotFoundRepository
	redirects RedirectRepository
	logger    *logger.Logger
}

// NewNotFoundService creates a new redirect and 404 resolver service
func NewNotFoundService(logs NotFoundRepository, redirects RedirectRepository, log *logger.Logger) *NotFoundService {
	return &NotFoundService{
		logs:      logs,
		redirects: redirects,
		logger:    log,
	}
}

// Log404 records a miss. Repeats against the same URL bump the hit count
// on the existing row and refresh the request details.
func (s *NotFoundService) Log404(ctx context.Context, url, referrer, userAgent, ip string) (*domain.Log404, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ValidationError{Message: "url is required"}
	}

	if err := s.logs.Record(ctx, url, referrer, userAgent, ip); err != nil {
		return nil, fmt.Errorf("failed to record 404: %w", err)
	}

	entry, err := s.logs.GetByURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to load 404 log: %w", err)
	}

	s.logger.Debug("404 logged: url=%s hits=%d", url, entry.HitCount)
	return entry, nil
}

// ListUnresolved returns open 404 logs, most-hit first
func (s *NotFoundService) ListUnresolved(ctx context.Context) ([]domain.Log404, error) {
	return s.logs.ListUnresolved(ctx)
}

// Resolve marks a 404 log as handled, optionally linking the redirect
// that covers it.
func (s *NotFoundService) Resolve(ctx context.Context, id int, redirectID *int) error {
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load 404 log: %w", err)
	}
	if entry == nil {
		return ValidationError{Message: fmt.Sprintf("404 log %d not found", id)}
	}

	if redirectID != nil {
		redirect, err := s.redirects.GetByID(ctx, *redirectID)
		if err != nil {
			return fmt.Errorf("failed to load redirect: %w", err)
		}
		if redirect == nil {
			return ValidationError{Message: fmt.Sprintf("redirect %d not found", *redirectID)}
		}
	}

	if err := s.logs.MarkResolved(ctx, id, redirectID); err != nil {
		return fmt.Errorf("failed to resolve 404: %w", err)
	}

	s.logger.Info("404 resolved: id=%d url=%s", id, entry.URL)
	return nil
}

// Ignore marks a 404 log as intentionally unhandled
func (s *NotFoundService) Ignore(ctx context.Context, id int) error {
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load 404 log: %w", err)
	}
	if entry == nil {
		return ValidationError{Message: fmt.Sprintf("404 log %d not found", id)}
	}

	if err := s.logs.MarkIgnored(ctx, id); err != nil {
		return fmt.Errorf("failed to ignore 404: %w", err)
	}

	s.logger.Info("404 ignored: id=%d url=%s", id, entry.URL)
	return nil
}

// CreateRedirectFromLog creates a permanent redirect for a logged 404 and
// marks the log resolved, linking it to the new redirect.
func (s *NotFoundService) CreateRedirectFromLog(ctx context.Context, id int, targetURL string) (*domain.Redirect, error) {
	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" {
		return nil, ValidationError{Message: "target url is required"}
	}

	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load 404 log: %w", err)
	}
	if entry == nil {
		return nil, ValidationError{Message: fmt.Sprintf("404 log %d not found", id)}
	}
	if entry.URL == targetURL {
		return nil, ValidationError{Message: "redirect target must differ from the 404 url"}
	}

	redirect := &domain.Redirect{
		SourceURL:  entry.URL,
		TargetURL:  targetURL,
		StatusCode: 301,
		Active:     true,
	}
	if err := s.redirects.Create(ctx, redirect); err != nil {
		return nil, fmt.Errorf("failed to create redirect: %w", err)
	}

	if err := s.logs.MarkResolved(ctx, id, &redirect.ID); err != nil {
		return nil, fmt.Errorf("failed to resolve 404 after redirect: %w", err)
	}

	s.logger.Info("Redirect created from 404: %s -> %s (redirect=%d)", entry.URL, targetURL, redirect.ID)
	return redirect, nil
}

// CreateRedirect creates an operator-defined redirect. Status defaults to
// 301 when unset.
func (s *NotFoundService) CreateRedirect(ctx context.Context, redirect *domain.Redirect) error {
	redirect.SourceURL = strings.TrimSpace(redirect.SourceURL)
	redirect.TargetURL = strings.TrimSpace(redirect.TargetURL)

	if redirect.SourceURL == "" || redirect.TargetURL == "" {
		return ValidationError{Message: "source and target urls are required"}
	}
	if redirect.SourceURL == redirect.TargetURL {
		return ValidationError{Message: "redirect source and target must differ"}
	}
	if redirect.StatusCode == 0 {
		redirect.StatusCode = 301
	}
	if redirect.StatusCode < 300 || redirect.StatusCode > 308 {
		return ValidationError{Message: "status code must be a redirect class code"}
	}

	redirect.Active = true
	if err := s.redirects.Create(ctx, redirect); err != nil {
		return fmt.Errorf("failed to create redirect: %w", err)
	}

	s.logger.Info("Redirect created: %s -> %s (%d)", redirect.SourceURL, redirect.TargetURL, redirect.StatusCode)
	return nil
}

// ListRedirects returns active redirects
func (s *NotFoundService) ListRedirects(ctx context.Context) ([]domain.Redirect, error) {
	return s.redirects.ListActive(ctx)
}

// RecordHit bumps a redirect's hit counter
func (s *NotFoundService) RecordHit(ctx context.Context, redirectID int) error {
	redirect, err := s.redirects.GetByID(ctx, redirectID)
	if err != nil {
		return fmt.Errorf("failed to load redirect: %w", err)
	}
	if redirect == nil {
		return ValidationError{Message: fmt.Sprintf("redirect %d not found", redirectID)}
	}

	return s.redirects.IncrementHit(ctx, redirectID)
}
