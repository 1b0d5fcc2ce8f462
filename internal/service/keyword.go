package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// KeywordRepository defines the interface for keyword data access
type KeywordRepository interface {
	Create(ctx context.Context, keyword *domain.Keyword) error
	GetByID(ctx context.Context, id int) (*domain.Keyword, error)
	List(ctx context.Context) ([]domain.Keyword, error)
	UpdatePositions(ctx context.Context, keyword *domain.Keyword) error
	AddHistory(ctx context.Context, history *domain.KeywordHistory) error
	History(ctx context.Context, keywordID, days int) ([]domain.KeywordHistory, error)
}

// KeywordService tracks search phrases and their rank history. Lower
// positions are better; the best position never moves backward.
type KeywordService struct {
	repo   KeywordRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewKeywordService creates a new keyword tracking service
func NewKeywordService(repo KeywordRepository, log *logger.Logger) *KeywordService {
	return &KeywordService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// Track starts tracking a new keyword phrase
func (s *KeywordService) Track(ctx context.Context, phrase, targetURL string) (*domain.Keyword, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, ValidationError{Message: "keyword phrase is required"}
	}

	keyword := &domain.Keyword{
		Phrase:          phrase,
		TargetURL:       targetURL,
		TrackingEnabled: true,
	}

	if err := s.repo.Create(ctx, keyword); err != nil {
		return nil, fmt.Errorf("failed to track keyword: %w", err)
	}

	s.logger.Info("Keyword tracked: id=%d phrase='%s'", keyword.ID, keyword.Phrase)
	return keyword, nil
}

// List returns all tracked keywords
func (s *KeywordService) List(ctx context.Context) ([]domain.Keyword, error) {
	return s.repo.List(ctx)
}

// RecordPosition appends a rank observation and rolls the keyword's
// current, previous and best positions forward. A positive change means
// the keyword moved up.
func (s *KeywordService) RecordPosition(ctx context.Context, keywordID, position int, url string, serpFeatures []string) (*domain.Keyword, error) {
	if position < 1 {
		return nil, ValidationError{Message: "position must be at least 1"}
	}

	keyword, err := s.repo.GetByID(ctx, keywordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword: %w", err)
	}
	if keyword == nil {
		return nil, ValidationError{Message: fmt.Sprintf("keyword %d not found", keywordID)}
	}

	observedAt := s.now()
	history := &domain.KeywordHistory{
		KeywordID:    keywordID,
		Position:     position,
		URL:          url,
		SerpFeatures: serpFeatures,
		ObservedAt:   observedAt,
	}
	if err := s.repo.AddHistory(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to record keyword history: %w", err)
	}

	keyword.PreviousPosition = keyword.CurrentPosition
	keyword.CurrentPosition = position
	if keyword.PreviousPosition > 0 {
		keyword.PositionChange = keyword.PreviousPosition - position
	} else {
		keyword.PositionChange = 0
	}
	if keyword.BestPosition == 0 || position < keyword.BestPosition {
		keyword.BestPosition = position
	}
	keyword.LastCheckedAt = &observedAt

	if err := s.repo.UpdatePositions(ctx, keyword); err != nil {
		return nil, fmt.Errorf("failed to update keyword positions: %w", err)
	}

	s.logger.Debug("Position recorded: keyword=%d position=%d change=%d best=%d",
		keyword.ID, keyword.CurrentPosition, keyword.PositionChange, keyword.BestPosition)
	return keyword, nil
}

// History returns the rank observations for a keyword within the given
// window. A non-positive days value falls back to 30.
func (s *KeywordService) History(ctx context.Context, keywordID, days int) ([]domain.KeywordHistory, error) {
	if days <= 0 {
		days = 30
	}

	keyword, err := s.repo.GetByID(ctx, keywordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword: %w", err)
	}
	if keyword == nil {
		return nil, ValidationError{Message: fmt.Sprintf("keyword %d not found", keywordID)}
	}

	return s.repo.History(ctx, keywordID, days)
}
