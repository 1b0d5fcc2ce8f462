package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

// LinkRepository handles database operations for the internal link graph
type LinkRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewLinkRepository creates a new internal link repository
func NewLinkRepository(db *sql.DB, log *logger.Logger) *LinkRepository {
	log.Info("Internal link repository initialized")
	return &LinkRepository{
		db:     db,
		logger: log,
	}
}

// Upsert creates an edge keyed by (source, target) or, when it exists,
// refreshes its anchor text, type and last-checked timestamp. Repeated
// crawls never duplicate edges.
func (r *LinkRepository) Upsert(ctx context.Context, link *domain.InternalLink) error {
	start := time.Now()

	query := `
		INSERT INTO internal_links (source_url, target_url, anchor_text, link_type, last_checked_at, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(source_url, target_url) DO UPDATE SET
			anchor_text = excluded.anchor_text,
			link_type = excluded.link_type,
			last_checked_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, link.SourceURL, link.TargetURL, link.AnchorText, link.LinkType)
	if err != nil {
		r.logger.Error("Database upsert failed for link %s -> %s: %v (%v)",
			link.SourceURL, link.TargetURL, err, time.Since(start))
		return fmt.Errorf("failed to upsert internal link: %w", err)
	}

	r.logger.Debug("Internal link upserted: %s -> %s (%v)", link.SourceURL, link.TargetURL, time.Since(start))
	return nil
}

// List retrieves the full edge set
func (r *LinkRepository) List(ctx context.Context) ([]domain.InternalLink, error) {
	query := `
		SELECT id, source_url, target_url, anchor_text, link_type, broken, last_checked_at, created_at
		FROM internal_links
		ORDER BY source_url, target_url
	`
	return r.list(ctx, query)
}

// ListBroken retrieves edges flagged as broken
func (r *LinkRepository) ListBroken(ctx context.Context) ([]domain.InternalLink, error) {
	query := `
		SELECT id, source_url, target_url, anchor_text, link_type, broken, last_checked_at, created_at
		FROM internal_links
		WHERE broken = 1
		ORDER BY source_url, target_url
	`
	return r.list(ctx, query)
}

func (r *LinkRepository) list(ctx context.Context, query string) ([]domain.InternalLink, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list internal links: %w", err)
	}
	defer rows.Close()

	var links []domain.InternalLink
	for rows.Next() {
		var link domain.InternalLink
		var lastChecked sql.NullTime
		err := rows.Scan(
			&link.ID, &link.SourceURL, &link.TargetURL, &link.AnchorText,
			&link.LinkType, &link.Broken, &lastChecked, &link.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan internal link: %w", err)
		}
		if lastChecked.Valid {
			link.LastCheckedAt = &lastChecked.Time
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating internal links: %w", err)
	}

	return links, nil
}

// InboundCounts returns the number of inbound internal edges per target URL
func (r *LinkRepository) InboundCounts(ctx context.Context) (map[string]int, error) {
	start := time.Now()

	query := `
		SELECT target_url, COUNT(*) AS inbound
		FROM internal_links
		WHERE link_type = 'internal'
		GROUP BY target_url
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Database query failed: %v (%v)", err, time.Since(start))
		return nil, fmt.Errorf("failed to count inbound links: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var url string
		var inbound int
		if err := rows.Scan(&url, &inbound); err != nil {
			return nil, fmt.Errorf("failed to scan inbound count: %w", err)
		}
		counts[url] = inbound
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inbound counts: %w", err)
	}

	r.logger.Debug("Inbound counts computed for %d targets (%v)", len(counts), time.Since(start))
	return counts, nil
}

// SetBroken flips the broken flag on an existing edge. Returns the number
// of rows touched; zero means the edge does not exist.
func (r *LinkRepository) SetBroken(ctx context.Context, sourceURL, targetURL string, broken bool) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE internal_links SET broken = ?, last_checked_at = CURRENT_TIMESTAMP
		 WHERE source_url = ? AND target_url = ?`,
		broken, sourceURL, targetURL)
	if err != nil {
		return 0, fmt.Errorf("failed to set broken flag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}
