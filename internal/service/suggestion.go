package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// ContentSuggestionRepository defines the interface for suggestion data access
type ContentSuggestionRepository interface {
	Create(ctx context.Context, s *domain.ContentSuggestion) error
	List(ctx context.Context, status domain.SuggestionStatus) ([]domain.ContentSuggestion, error)
	UpdateStatus(ctx context.Context, id int, status domain.SuggestionStatus) error
}

// SuggestionService manages operator-facing content suggestions.
type SuggestionService struct {
	repo   ContentSuggestionRepository
	logger *logger.Logger
}

// NewSuggestionService creates a new content suggestion service
func NewSuggestionService(repo ContentSuggestionRepository, log *logger.Logger) *SuggestionService {
	return &SuggestionService{
		repo:   repo,
		logger: log,
	}
}

// Create records a new suggestion in the pending state
func (s *SuggestionService) Create(ctx context.Context, suggestion *domain.ContentSuggestion) error {
	suggestion.Suggestion = strings.TrimSpace(suggestion.Suggestion)
	if suggestion.Suggestion == "" {
		return ValidationError{Message: "suggestion text is required"}
	}
	if suggestion.Type == "" {
		suggestion.Type = "content"
	}

	if err := s.repo.Create(ctx, suggestion); err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}

	s.logger.Info("Content suggestion created: id=%d page='%s'", suggestion.ID, suggestion.PageURL)
	return nil
}

// List returns suggestions, optionally filtered by status
func (s *SuggestionService) List(ctx context.Context, status domain.SuggestionStatus) ([]domain.ContentSuggestion, error) {
	switch status {
	case "", domain.SuggestionPending, domain.SuggestionApplied, domain.SuggestionDismissed:
	default:
		return nil, ValidationError{Message: fmt.Sprintf("unknown suggestion status: %s", status)}
	}
	return s.repo.List(ctx, status)
}

// SetStatus moves a suggestion to applied or dismissed
func (s *SuggestionService) SetStatus(ctx context.Context, id int, status domain.SuggestionStatus) error {
	if status != domain.SuggestionApplied && status != domain.SuggestionDismissed {
		return ValidationError{Message: fmt.Sprintf("invalid target status: %s", status)}
	}

	err := s.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return ValidationError{Message: fmt.Sprintf("suggestion %d not found", id)}
	}
	if err != nil {
		return fmt.Errorf("failed to update suggestion: %w", err)
	}

	return nil
}
