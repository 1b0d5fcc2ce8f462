package repository

import (
	"context"
	"database/sql"
	"fmt"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// SuggestionRepository handles database operations for content suggestions
type SuggestionRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSuggestionRepository creates a new content suggestion repository
func NewSuggestionRepository(db *sql.DB, log *logger.Logger) *SuggestionRepository {
	return &SuggestionRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new content suggestion in the pending state
func (r *SuggestionRepository) Create(ctx context.Context, s *domain.ContentSuggestion) error {
	query := `
		INSERT INTO content_suggestions (page_url, type, suggestion, reasoning, priority, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	result, err := r.db.ExecContext(ctx, query,
		s.PageURL, s.Type, s.Suggestion, s.Reasoning, s.Priority, domain.SuggestionPending)
	if err != nil {
		r.logger.Error("Database insert failed for content suggestion: %v", err)
		return fmt.Errorf("failed to create content suggestion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	s.ID = int(id)
	s.Status = domain.SuggestionPending
	return nil
}

// List retrieves suggestions, optionally filtered by status, highest
// priority first
func (r *SuggestionRepository) List(ctx context.Context, status domain.SuggestionStatus) ([]domain.ContentSuggestion, error) {
	query := `
		SELECT id, page_url, type, suggestion, reasoning, priority, status, created_at
		FROM content_suggestions
	`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY priority DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list content suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []domain.ContentSuggestion
	for rows.Next() {
		var s domain.ContentSuggestion
		err := rows.Scan(&s.ID, &s.PageURL, &s.Type, &s.Suggestion, &s.Reasoning,
			&s.Priority, &s.Status, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content suggestions: %w", err)
	}

	return suggestions, nil
}

// UpdateStatus moves a suggestion to applied or dismissed
func (r *SuggestionRepository) UpdateStatus(ctx context.Context, id int, status domain.SuggestionStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE content_suggestions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update suggestion status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
