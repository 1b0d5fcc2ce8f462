package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// Overall audit weighting.
const (
	auditWeightTechnical   = 0.30
	auditWeightContent     = 0.35
	auditWeightLink        = 0.20
	auditWeightPerformance = 0.15

	checksPerPage = 5
)

// auditRecommendations is the static advice list attached to every
// completed audit.
var auditRecommendations = []string{
	"Keep titles between 50 and 60 characters with the focus keyword near the front",
	"Resolve 404 errors with permanent redirects to preserve link equity",
	"Interlink related pages so no page sits more than three clicks from the home page",
	"Submit new and updated URLs to the indexing API after publishing",
	"Review keyword rankings weekly and refresh pages that are losing positions",
}

// AuditRepository defines the interface for audit data access
type AuditRepository interface {
	Create(ctx context.Context, audit *domain.Audit) error
	GetByID(ctx context.Context, id int) (*domain.Audit, error)
	List(ctx context.Context) ([]domain.Audit, error)
	AnyInFlight(ctx context.Context) (bool, error)
	MarkRunning(ctx context.Context, id int, startedAt time.Time) error
	Complete(ctx context.Context, audit *domain.Audit) error
	MarkFailed(ctx context.Context, id int, completedAt time.Time) error
}

// PerformanceProvider supplies the performance sub-score. The engine does
// not measure performance itself; this is an external collaborator.
type PerformanceProvider interface {
	Score(ctx context.Context) (int, error)
}

// StaticPerformance returns a fixed performance score.
type StaticPerformance struct {
	Value int
}

// Score implements PerformanceProvider
func (p StaticPerformance) Score(ctx context.Context) (int, error) {
	return p.Value, nil
}

// NewStaticPerformance returns the default fixed-score provider
func NewStaticPerformance() StaticPerformance {
	return StaticPerformance{Value: 80}
}

// AuditService runs full-site evaluations as detached background tasks.
// At most one audit may be pending or running at a time.
type AuditService struct {
	audits      AuditRepository
	pages       PageRepository
	redirects   RedirectRepository
	logs        NotFoundRepository
	links       LinkRepository
	performance PerformanceProvider
	logger      *logger.Logger
	now         func() time.Time

	mu sync.Mutex
	wg sync.WaitGroup
}

// NewAuditService creates a new site audit service
func NewAuditService(
	audits AuditRepository,
	pages PageRepository,
	redirects RedirectRepository,
	logs NotFoundRepository,
	links LinkRepository,
	performance PerformanceProvider,
	log *logger.Logger,
) *AuditService {
	return &AuditService{
		audits:      audits,
		pages:       pages,
		redirects:   redirects,
		logs:        logs,
		links:       links,
		performance: performance,
		logger:      log,
		now:         time.Now,
	}
}

// Run creates a pending audit and fires the background run. The caller
// gets the pending record back immediately and polls Get for completion.
// A second trigger while an audit is pending or running is rejected.
func (s *AuditService) Run(ctx context.Context, auditType string) (*domain.Audit, error) {
	if auditType == "" {
		auditType = "full"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inFlight, err := s.audits.AnyInFlight(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check audit state: %w", err)
	}
	if inFlight {
		return nil, ValidationError{Message: "an audit is already in progress"}
	}

	audit := &domain.Audit{Type: auditType}
	if err := s.audits.Create(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to create audit: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(audit.ID)
	}()

	s.logger.Info("Audit triggered: id=%d type='%s'", audit.ID, audit.Type)
	return audit, nil
}

// Get retrieves an audit by id
func (s *AuditService) Get(ctx context.Context, id int) (*domain.Audit, error) {
	audit, err := s.audits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if audit == nil {
		return nil, ValidationError{Message: fmt.Sprintf("audit %d not found", id)}
	}
	return audit, nil
}

// List returns all audits, newest first
func (s *AuditService) List(ctx context.Context) ([]domain.Audit, error) {
	return s.audits.List(ctx)
}

// Wait blocks until every in-flight audit goroutine has finished. Used
// during shutdown and by tests.
func (s *AuditService) Wait() {
	s.wg.Wait()
}

// execute runs the audit to a terminal state. Errors are absorbed: the
// trigger request has already returned, so failures mark the record
// failed instead of propagating.
func (s *AuditService) execute(id int) {
	ctx := context.Background()

	if err := s.audits.MarkRunning(ctx, id, s.now()); err != nil {
		s.logger.Error("Audit %d failed before running: %v", id, err)
		s.fail(ctx, id)
		return
	}

	audit, err := s.evaluate(ctx, id)
	if err != nil {
		s.logger.Error("Audit %d failed: %v", id, err)
		s.fail(ctx, id)
		return
	}

	if err := s.audits.Complete(ctx, audit); err != nil {
		s.logger.Error("Audit %d failed to persist: %v", id, err)
		s.fail(ctx, id)
	}
}

func (s *AuditService) fail(ctx context.Context, id int) {
	if err := s.audits.MarkFailed(ctx, id, s.now()); err != nil {
		s.logger.Error("Audit %d could not be marked failed: %v", id, err)
	}
}

func (s *AuditService) evaluate(ctx context.Context, id int) (*domain.Audit, error) {
	var (
		pages       []domain.Page
		redirects   []domain.Redirect
		unresolved  []domain.Log404
		brokenLinks []domain.InternalLink
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pages, err = s.pages.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		redirects, err = s.redirects.ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		unresolved, err = s.logs.ListUnresolved(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		brokenLinks, err = s.links.ListBroken(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load audit inputs: %w", err)
	}

	performanceScore, err := s.performance.Score(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get performance score: %w", err)
	}

	var issues []domain.Issue

	contentScore := 0
	if len(pages) > 0 {
		sum := 0
		for _, page := range pages {
			sum += page.OverallScore
		}
		contentScore = int(math.Round(float64(sum) / float64(len(pages))))
	}

	technicalScore := 100
	for _, page := range pages {
		if page.Title == "" {
			technicalScore -= 5
			issues = append(issues, domain.Issue{
				Type:       "technical",
				Severity:   domain.SeverityError,
				Message:    fmt.Sprintf("Page %s has no title", page.URL),
				Suggestion: "Add a unique title tag",
			})
		}
		if page.Description == "" {
			technicalScore -= 3
			issues = append(issues, domain.Issue{
				Type:       "technical",
				Severity:   domain.SeverityWarning,
				Message:    fmt.Sprintf("Page %s has no meta description", page.URL),
				Suggestion: "Add a meta description",
			})
		}
		if page.CanonicalURL == "" {
			issues = append(issues, domain.Issue{
				Type:     "technical",
				Severity: domain.SeverityInfo,
				Message:  fmt.Sprintf("Page %s has no canonical URL", page.URL),
			})
		}
		if page.SchemaType == "" {
			issues = append(issues, domain.Issue{
				Type:     "technical",
				Severity: domain.SeverityInfo,
				Message:  fmt.Sprintf("Page %s has no schema type", page.URL),
			})
		}
	}
	if len(unresolved) > 0 {
		technicalScore -= minInt(len(unresolved)*2, 20)
		issues = append(issues, domain.Issue{
			Type:       "technical",
			Severity:   domain.SeverityWarning,
			Message:    fmt.Sprintf("%d unresolved 404 URLs", len(unresolved)),
			Suggestion: "Create redirects for the most-hit 404 URLs",
		})
	}
	if technicalScore < 0 {
		technicalScore = 0
	}

	linkScore := 100
	if len(brokenLinks) > 0 {
		linkScore -= minInt(len(brokenLinks)*5, 30)
		issues = append(issues, domain.Issue{
			Type:       "links",
			Severity:   domain.SeverityError,
			Message:    fmt.Sprintf("%d broken internal links", len(brokenLinks)),
			Suggestion: "Fix or remove broken internal links",
		})
	}

	overall := int(math.Round(
		float64(technicalScore)*auditWeightTechnical +
			float64(contentScore)*auditWeightContent +
			float64(linkScore)*auditWeightLink +
			float64(performanceScore)*auditWeightPerformance))

	critical, warnings := 0, 0
	for _, issue := range issues {
		switch issue.Severity {
		case domain.SeverityError:
			critical++
		case domain.SeverityWarning:
			warnings++
		}
	}

	passed := len(pages)*checksPerPage - critical - warnings
	if passed < 0 {
		passed = 0
	}

	completedAt := s.now()
	recommendations := make([]string, len(auditRecommendations))
	copy(recommendations, auditRecommendations)

	s.logger.Debug("Audit %d evaluated: pages=%d redirects=%d 404s=%d broken=%d",
		id, len(pages), len(redirects), len(unresolved), len(brokenLinks))

	return &domain.Audit{
		ID:               id,
		Status:           domain.AuditStatusCompleted,
		TechnicalScore:   technicalScore,
		ContentScore:     contentScore,
		LinkScore:        linkScore,
		PerformanceScore: performanceScore,
		OverallScore:     clampScore(overall),
		CriticalIssues:   critical,
		WarningIssues:    warnings,
		PassedChecks:     passed,
		PagesAnalyzed:    len(pages),
		Issues:           issues,
		Recommendations:  recommendations,
		CompletedAt:      &completedAt,
	}, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
