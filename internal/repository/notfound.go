package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// NotFoundRepository handles database operations for 404 logs
type NotFoundRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewNotFoundRepository creates a new 404 log repository
func NewNotFoundRepository(db *sql.DB, log *logger.Logger) *NotFoundRepository {
	log.Info("404 log repository initialized")
	return &NotFoundRepository{
		db:     db,
		logger: log,
	}
}

// Record creates a log row for the URL or, when one already exists, bumps
// its hit counter and refreshes the most recent request details. One row
// per distinct URL.
func (r *NotFoundRepository) Record(ctx context.Context, url, referrer, userAgent, ip string) error {
	start := time.Now()

	query := `
		INSERT INTO logs_404 (url, hit_count, referrer, user_agent, ip_address, first_seen_at, last_seen_at)
		VALUES (?, 1, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(url) DO UPDATE SET
			hit_count = hit_count + 1,
			referrer = excluded.referrer,
			user_agent = excluded.user_agent,
			ip_address = excluded.ip_address,
			last_seen_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, url, referrer, userAgent, ip)
	if err != nil {
		r.logger.Error("Database upsert failed for 404 log '%s': %v (%v)", url, err, time.Since(start))
		return fmt.Errorf("failed to record 404: %w", err)
	}

	r.logger.Debug("404 recorded: url='%s' (%v)", url, time.Since(start))
	return nil
}

// GetByID retrieves a 404 log by id, returning (nil, nil) when absent
func (r *NotFoundRepository) GetByID(ctx context.Context, id int) (*domain.Log404, error) {
	query := `
		SELECT id, url, hit_count, referrer, user_agent, ip_address,
			resolved, ignored, redirect_id, first_seen_at, last_seen_at
		FROM logs_404
		WHERE id = ?
	`

	log, err := scanLog404(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get 404 log by id: %w", err)
	}

	return log, nil
}

// GetByURL retrieves a 404 log by URL, returning (nil, nil) when absent
func (r *NotFoundRepository) GetByURL(ctx context.Context, url string) (*domain.Log404, error) {
	query := `
		SELECT id, url, hit_count, referrer, user_agent, ip_address,
			resolved, ignored, redirect_id, first_seen_at, last_seen_at
		FROM logs_404
		WHERE url = ?
	`

	log, err := scanLog404(r.db.QueryRowContext(ctx, query, url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get 404 log by url: %w", err)
	}

	return log, nil
}

// ListUnresolved retrieves logs that are neither resolved nor ignored,
// worst offenders first
func (r *NotFoundRepository) ListUnresolved(ctx context.Context) ([]domain.Log404, error) {
	start := time.Now()

	query := `
		SELECT id, url, hit_count, referrer, user_agent, ip_address,
			resolved, ignored, redirect_id, first_seen_at, last_seen_at
		FROM logs_404
		WHERE resolved = 0 AND ignored = 0
		ORDER BY hit_count DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Database query failed: %v (%v)", err, time.Since(start))
		return nil, fmt.Errorf("failed to list unresolved 404 logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.Log404
	for rows.Next() {
		log, err := scanLog404(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan 404 log: %w", err)
		}
		logs = append(logs, *log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating 404 logs: %w", err)
	}

	r.logger.Debug("Unresolved 404 logs retrieved: %d (%v)", len(logs), time.Since(start))
	return logs, nil
}

// MarkResolved flags a log as resolved, optionally linking the redirect
// that fixed it
func (r *NotFoundRepository) MarkResolved(ctx context.Context, id int, redirectID *int) error {
	var redirect interface{}
	if redirectID != nil {
		redirect = *redirectID
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE logs_404 SET resolved = 1, redirect_id = ? WHERE id = ?`, redirect, id)
	if err != nil {
		r.logger.Error("Failed to mark 404 log %d resolved: %v", id, err)
		return fmt.Errorf("failed to mark 404 log resolved: %w", err)
	}

	r.logger.Info("404 log resolved: id=%d", id)
	return nil
}

// MarkIgnored flags a log as ignored
func (r *NotFoundRepository) MarkIgnored(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE logs_404 SET ignored = 1 WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to mark 404 log %d ignored: %v", id, err)
		return fmt.Errorf("failed to mark 404 log ignored: %w", err)
	}

	r.logger.Info("404 log ignored: id=%d", id)
	return nil
}

func scanLog404(s scanner) (*domain.Log404, error) {
	var log domain.Log404
	var redirectID sql.NullInt64

	err := s.Scan(
		&log.ID, &log.URL, &log.HitCount, &log.Referrer, &log.UserAgent, &log.IPAddress,
		&log.Resolved, &log.Ignored, &redirectID, &log.FirstSeenAt, &log.LastSeenAt,
	)
	if err != nil {
		return nil, err
	}

	if redirectID.Valid {
		id := int(redirectID.Int64)
		log.RedirectID = &id
	}
	return &log, nil
}
