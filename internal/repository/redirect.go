package repository

import (
	"context"
	"database/sql"
	"fmt"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// RedirectRepository handles database operations for redirects
type RedirectRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewRedirectRepository creates a new redirect repository
func NewRedirectRepository(db *sql.DB, log *logger.Logger) *RedirectRepository {
	log.Info("Redirect repository initialized")
	return &RedirectRepository{
		db:     db,
		logger: log,
	}
}

// Create creates a new redirect
func (r *RedirectRepository) Create(ctx context.Context, redirect *domain.Redirect) error {
	query := `
		INSERT INTO redirects (source_url, target_url, status_code, is_regex, active, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	result, err := r.db.ExecContext(ctx, query,
		redirect.SourceURL, redirect.TargetURL, redirect.StatusCode, redirect.IsRegex, redirect.Active)
	if err != nil {
		r.logger.Error("Database insert failed for redirect '%s': %v", redirect.SourceURL, err)
		return fmt.Errorf("failed to create redirect: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	redirect.ID = int(id)
	r.logger.Info("Redirect created: id=%d %s -> %s (%d)",
		redirect.ID, redirect.SourceURL, redirect.TargetURL, redirect.StatusCode)
	return nil
}

// GetByID retrieves a redirect by id, returning (nil, nil) when absent
func (r *RedirectRepository) GetByID(ctx context.Context, id int) (*domain.Redirect, error) {
	query := `
		SELECT id, source_url, target_url, status_code, is_regex, active, hit_count, created_at
		FROM redirects
		WHERE id = ?
	`

	var redirect domain.Redirect
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&redirect.ID, &redirect.SourceURL, &redirect.TargetURL, &redirect.StatusCode,
		&redirect.IsRegex, &redirect.Active, &redirect.HitCount, &redirect.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get redirect by id: %w", err)
	}

	return &redirect, nil
}

// ListActive retrieves all active redirects
func (r *RedirectRepository) ListActive(ctx context.Context) ([]domain.Redirect, error) {
	query := `
		SELECT id, source_url, target_url, status_code, is_regex, active, hit_count, created_at
		FROM redirects
		WHERE active = 1
		ORDER BY source_url
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active redirects: %w", err)
	}
	defer rows.Close()

	var redirects []domain.Redirect
	for rows.Next() {
		var redirect domain.Redirect
		err := rows.Scan(
			&redirect.ID, &redirect.SourceURL, &redirect.TargetURL, &redirect.StatusCode,
			&redirect.IsRegex, &redirect.Active, &redirect.HitCount, &redirect.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan redirect: %w", err)
		}
		redirects = append(redirects, redirect)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating redirects: %w", err)
	}

	return redirects, nil
}

// IncrementHit bumps the hit counter for a redirect. The routing layer
// calls this when serving the redirect; it is not part of audit logic.
func (r *RedirectRepository) IncrementHit(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE redirects SET hit_count = hit_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment redirect hit count: %w", err)
	}
	return nil
}

// SetActive enables or disables a redirect
func (r *RedirectRepository) SetActive(ctx context.Context, id int, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE redirects SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("failed to set redirect active flag: %w", err)
	}
	return nil
}
