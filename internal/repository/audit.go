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

// AuditRepository handles database operations for audit runs
type AuditRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB, log *logger.Logger) *AuditRepository {
	log.Info("Audit repository initialized")
	return &AuditRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new audit in the pending state
func (r *AuditRepository) Create(ctx context.Context, audit *domain.Audit) error {
	query := `INSERT INTO audits (type, status, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`

	result, err := r.db.ExecContext(ctx, query, audit.Type, domain.AuditStatusPending)
	if err != nil {
		r.logger.Error("Database insert failed for audit: %v", err)
		return fmt.Errorf("failed to create audit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	audit.ID = int(id)
	audit.Status = domain.AuditStatusPending
	r.logger.Info("Audit created: id=%d type='%s'", audit.ID, audit.Type)
	return nil
}

// GetByID retrieves an audit by id, returning (nil, nil) when absent
func (r *AuditRepository) GetByID(ctx context.Context, id int) (*domain.Audit, error) {
	query := `
		SELECT id, type, status, technical_score, content_score, link_score, performance_score,
			overall_score, critical_issues, warning_issues, passed_checks, pages_analyzed,
			issues, recommendations, started_at, completed_at, created_at
		FROM audits
		WHERE id = ?
	`

	audit, err := scanAudit(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit by id: %w", err)
	}

	return audit, nil
}

// List retrieves all audits, newest first
func (r *AuditRepository) List(ctx context.Context) ([]domain.Audit, error) {
	query := `
		SELECT id, type, status, technical_score, content_score, link_score, performance_score,
			overall_score, critical_issues, warning_issues, passed_checks, pages_analyzed,
			issues, recommendations, started_at, completed_at, created_at
		FROM audits
		ORDER BY id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	var audits []domain.Audit
	for rows.Next() {
		audit, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit: %w", err)
		}
		audits = append(audits, *audit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audits: %w", err)
	}

	return audits, nil
}

// AnyInFlight reports whether an audit is currently pending or running
func (r *AuditRepository) AnyInFlight(ctx context.Context) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audits WHERE status IN (?, ?)`,
		domain.AuditStatusPending, domain.AuditStatusRunning,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count in-flight audits: %w", err)
	}
	return count > 0, nil
}

// MarkRunning transitions a pending audit to running and stamps startedAt
func (r *AuditRepository) MarkRunning(ctx context.Context, id int, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE audits SET status = ?, started_at = ? WHERE id = ? AND status = ?`,
		domain.AuditStatusRunning, startedAt, id, domain.AuditStatusPending)
	if err != nil {
		r.logger.Error("Failed to mark audit %d running: %v", id, err)
		return fmt.Errorf("failed to mark audit running: %w", err)
	}

	r.logger.Debug("Audit marked running: id=%d", id)
	return nil
}

// Complete transitions an audit to completed and writes all result fields
func (r *AuditRepository) Complete(ctx context.Context, audit *domain.Audit) error {
	start := time.Now()

	issues, err := json.Marshal(audit.Issues)
	if err != nil {
		return fmt.Errorf("failed to encode audit issues: %w", err)
	}
	recommendations, err := json.Marshal(audit.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to encode audit recommendations: %w", err)
	}

	query := `
		UPDATE audits SET
			status = ?, technical_score = ?, content_score = ?, link_score = ?,
			performance_score = ?, overall_score = ?, critical_issues = ?,
			warning_issues = ?, passed_checks = ?, pages_analyzed = ?,
			issues = ?, recommendations = ?, completed_at = ?
		WHERE id = ?
	`

	var completedAt interface{}
	if audit.CompletedAt != nil {
		completedAt = *audit.CompletedAt
	}

	_, err = r.db.ExecContext(ctx, query,
		domain.AuditStatusCompleted,
		audit.TechnicalScore, audit.ContentScore, audit.LinkScore, audit.PerformanceScore,
		audit.OverallScore, audit.CriticalIssues, audit.WarningIssues, audit.PassedChecks,
		audit.PagesAnalyzed, string(issues), string(recommendations), completedAt, audit.ID,
	)
	if err != nil {
		r.logger.Error("Failed to complete audit %d: %v (%v)", audit.ID, err, time.Since(start))
		return fmt.Errorf("failed to complete audit: %w", err)
	}

	r.logger.Info("Audit completed: id=%d overall=%d pages=%d (%v)",
		audit.ID, audit.OverallScore, audit.PagesAnalyzed, time.Since(start))
	return nil
}

// MarkFailed transitions an audit to failed, leaving score fields untouched
func (r *AuditRepository) MarkFailed(ctx context.Context, id int, completedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE audits SET status = ?, completed_at = ? WHERE id = ?`,
		domain.AuditStatusFailed, completedAt, id)
	if err != nil {
		r.logger.Error("Failed to mark audit %d failed: %v", id, err)
		return fmt.Errorf("failed to mark audit failed: %w", err)
	}

	r.logger.Warn("Audit marked failed: id=%d", id)
	return nil
}

func scanAudit(s scanner) (*domain.Audit, error) {
	var audit domain.Audit
	var issues, recommendations string
	var startedAt, completedAt sql.NullTime

	err := s.Scan(
		&audit.ID, &audit.Type, &audit.Status,
		&audit.TechnicalScore, &audit.ContentScore, &audit.LinkScore, &audit.PerformanceScore,
		&audit.OverallScore, &audit.CriticalIssues, &audit.WarningIssues, &audit.PassedChecks,
		&audit.PagesAnalyzed, &issues, &recommendations, &startedAt, &completedAt, &audit.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(issues), &audit.Issues); err != nil {
		return nil, fmt.Errorf("failed to decode audit issues: %w", err)
	}
	if err := json.Unmarshal([]byte(recommendations), &audit.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode audit recommendations: %w", err)
	}
	if startedAt.Valid {
		audit.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		audit.CompletedAt = &completedAt.Time
	}

	return &audit, nil
}
