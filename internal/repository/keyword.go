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

// KeywordRepository handles database operations for tracked keywords and
// their rank history
type KeywordRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewKeywordRepository creates a new keyword repository
func NewKeywordRepository(db *sql.DB, log *logger.Logger) *KeywordRepository {
	log.Info("Keyword repository initialized")
	return &KeywordRepository{
		db:     db,
		logger: log,
	}
}

// Create creates a new tracked keyword
func (r *KeywordRepository) Create(ctx context.Context, keyword *domain.Keyword) error {
	query := `
		INSERT INTO keywords (phrase, target_url, tracking_enabled, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`

	result, err := r.db.ExecContext(ctx, query, keyword.Phrase, keyword.TargetURL, keyword.TrackingEnabled)
	if err != nil {
		r.logger.Error("Database insert failed for keyword '%s': %v", keyword.Phrase, err)
		return fmt.Errorf("failed to create keyword: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	keyword.ID = int(id)
	r.logger.Info("Keyword created: id=%d phrase='%s'", keyword.ID, keyword.Phrase)
	return nil
}

// GetByID retrieves a keyword by id, returning (nil, nil) when absent
func (r *KeywordRepository) GetByID(ctx context.Context, id int) (*domain.Keyword, error) {
	query := `
		SELECT id, phrase, target_url, current_position, previous_position, best_position,
			position_change, tracking_enabled, last_checked_at, created_at
		FROM keywords
		WHERE id = ?
	`

	var keyword domain.Keyword
	var lastChecked sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&keyword.ID, &keyword.Phrase, &keyword.TargetURL,
		&keyword.CurrentPosition, &keyword.PreviousPosition, &keyword.BestPosition,
		&keyword.PositionChange, &keyword.TrackingEnabled, &lastChecked, &keyword.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Database query failed for keyword %d: %v", id, err)
		return nil, fmt.Errorf("failed to get keyword by id: %w", err)
	}

	if lastChecked.Valid {
		keyword.LastCheckedAt = &lastChecked.Time
	}
	return &keyword, nil
}

// List retrieves all tracked keywords ordered by phrase
func (r *KeywordRepository) List(ctx context.Context) ([]domain.Keyword, error) {
	query := `
		SELECT id, phrase, target_url, current_position, previous_position, best_position,
			position_change, tracking_enabled, last_checked_at, created_at
		FROM keywords
		ORDER BY phrase
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []domain.Keyword
	for rows.Next() {
		var keyword domain.Keyword
		var lastChecked sql.NullTime
		err := rows.Scan(
			&keyword.ID, &keyword.Phrase, &keyword.TargetURL,
			&keyword.CurrentPosition, &keyword.PreviousPosition, &keyword.BestPosition,
			&keyword.PositionChange, &keyword.TrackingEnabled, &lastChecked, &keyword.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		if lastChecked.Valid {
			keyword.LastCheckedAt = &lastChecked.Time
		}
		keywords = append(keywords, keyword)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keywords: %w", err)
	}

	return keywords, nil
}

// UpdatePositions writes the position fields after a new observation
func (r *KeywordRepository) UpdatePositions(ctx context.Context, keyword *domain.Keyword) error {
	start := time.Now()

	query := `
		UPDATE keywords
		SET current_position = ?, previous_position = ?, best_position = ?,
			position_change = ?, last_checked_at = ?
		WHERE id = ?
	`

	var lastChecked interface{}
	if keyword.LastCheckedAt != nil {
		lastChecked = *keyword.LastCheckedAt
	}

	_, err := r.db.ExecContext(ctx, query,
		keyword.CurrentPosition, keyword.PreviousPosition, keyword.BestPosition,
		keyword.PositionChange, lastChecked, keyword.ID,
	)
	if err != nil {
		r.logger.Error("Database update failed for keyword %d: %v (%v)", keyword.ID, err, time.Since(start))
		return fmt.Errorf("failed to update keyword positions: %w", err)
	}

	r.logger.Debug("Keyword positions updated: id=%d current=%d best=%d (%v)",
		keyword.ID, keyword.CurrentPosition, keyword.BestPosition, time.Since(start))
	return nil
}

// AddHistory appends one rank observation row
func (r *KeywordRepository) AddHistory(ctx context.Context, history *domain.KeywordHistory) error {
	features, err := json.Marshal(history.SerpFeatures)
	if err != nil {
		return fmt.Errorf("failed to encode serp features: %w", err)
	}

	query := `
		INSERT INTO keyword_history (keyword_id, position, url, serp_features, observed_at)
		VALUES (?, ?, ?, ?, ?)
	`

	// Stored in UTC so the window query compares like with like
	result, err := r.db.ExecContext(ctx, query,
		history.KeywordID, history.Position, history.URL, string(features), history.ObservedAt.UTC())
	if err != nil {
		r.logger.Error("Database insert failed for keyword history (keyword %d): %v", history.KeywordID, err)
		return fmt.Errorf("failed to add keyword history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	history.ID = int(id)
	return nil
}

// History retrieves observations within a trailing N-day window, ascending
// by observation time
func (r *KeywordRepository) History(ctx context.Context, keywordID, days int) ([]domain.KeywordHistory, error) {
	start := time.Now()
	r.logger.Debug("Getting keyword history: keyword=%d window=%d days", keywordID, days)

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	query := `
		SELECT id, keyword_id, position, url, serp_features, observed_at
		FROM keyword_history
		WHERE keyword_id = ?
			AND observed_at > ?
		ORDER BY observed_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, keywordID, cutoff)
	if err != nil {
		r.logger.Error("Database query failed: %v (%v)", err, time.Since(start))
		return nil, fmt.Errorf("failed to get keyword history: %w", err)
	}
	defer rows.Close()

	var history []domain.KeywordHistory
	for rows.Next() {
		var h domain.KeywordHistory
		var features string
		if err := rows.Scan(&h.ID, &h.KeywordID, &h.Position, &h.URL, &features, &h.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword history: %w", err)
		}
		if err := json.Unmarshal([]byte(features), &h.SerpFeatures); err != nil {
			return nil, fmt.Errorf("failed to decode serp features: %w", err)
		}
		history = append(history, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword history: %w", err)
	}

	r.logger.Debug("Keyword history retrieved: %d rows (%v)", len(history), time.Since(start))
	return history, nil
}
