package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate runs database migrations
func Migrate(db *sql.DB) error {
	for _, migration := range Migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}

// Migrations is the ordered schema for the SEO engine's record store.
// Tests reuse it against an in-memory database.
var Migrations = []string{
	`CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		page_type TEXT NOT NULL DEFAULT 'page',
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		canonical_url TEXT NOT NULL DEFAULT '',
		focus_keyword TEXT NOT NULL DEFAULT '',
		schema_type TEXT NOT NULL DEFAULT '',
		title_score INTEGER NOT NULL DEFAULT 0,
		description_score INTEGER NOT NULL DEFAULT 0,
		content_score INTEGER NOT NULL DEFAULT 0,
		readability_score INTEGER NOT NULL DEFAULT 0,
		keyword_score INTEGER NOT NULL DEFAULT 0,
		link_score INTEGER NOT NULL DEFAULT 0,
		image_score INTEGER NOT NULL DEFAULT 0,
		overall_score INTEGER NOT NULL DEFAULT 0,
		issues TEXT NOT NULL DEFAULT '[]',
		suggestions TEXT NOT NULL DEFAULT '[]',
		in_sitemap INTEGER NOT NULL DEFAULT 1,
		sitemap_priority REAL NOT NULL DEFAULT 0.5,
		sitemap_changefreq TEXT NOT NULL DEFAULT 'weekly',
		indexnow_submitted INTEGER NOT NULL DEFAULT 0,
		indexnow_at DATETIME,
		last_analyzed_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS keywords (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phrase TEXT NOT NULL,
		target_url TEXT NOT NULL DEFAULT '',
		current_position INTEGER NOT NULL DEFAULT 0,
		previous_position INTEGER NOT NULL DEFAULT 0,
		best_position INTEGER NOT NULL DEFAULT 0,
		position_change INTEGER NOT NULL DEFAULT 0,
		tracking_enabled INTEGER NOT NULL DEFAULT 1,
		last_checked_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS keyword_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		serp_features TEXT NOT NULL DEFAULT '[]',
		observed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (keyword_id) REFERENCES keywords(id)
	)`,
	`CREATE TABLE IF NOT EXISTS redirects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_url TEXT NOT NULL,
		target_url TEXT NOT NULL,
		status_code INTEGER NOT NULL DEFAULT 301,
		is_regex INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		hit_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS logs_404 (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		hit_count INTEGER NOT NULL DEFAULT 1,
		referrer TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT '',
		resolved INTEGER NOT NULL DEFAULT 0,
		ignored INTEGER NOT NULL DEFAULT 0,
		redirect_id INTEGER,
		first_seen_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_seen_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (redirect_id) REFERENCES redirects(id)
	)`,
	`CREATE TABLE IF NOT EXISTS internal_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_url TEXT NOT NULL,
		target_url TEXT NOT NULL,
		anchor_text TEXT NOT NULL DEFAULT '',
		link_type TEXT NOT NULL DEFAULT 'internal',
		broken INTEGER NOT NULL DEFAULT 0,
		last_checked_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_url, target_url)
	)`,
	`CREATE TABLE IF NOT EXISTS audits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL DEFAULT 'full',
		status TEXT NOT NULL DEFAULT 'pending',
		technical_score INTEGER NOT NULL DEFAULT 0,
		content_score INTEGER NOT NULL DEFAULT 0,
		link_score INTEGER NOT NULL DEFAULT 0,
		performance_score INTEGER NOT NULL DEFAULT 0,
		overall_score INTEGER NOT NULL DEFAULT 0,
		critical_issues INTEGER NOT NULL DEFAULT 0,
		warning_issues INTEGER NOT NULL DEFAULT 0,
		passed_checks INTEGER NOT NULL DEFAULT 0,
		pages_analyzed INTEGER NOT NULL DEFAULT 0,
		issues TEXT NOT NULL DEFAULT '[]',
		recommendations TEXT NOT NULL DEFAULT '[]',
		started_at DATETIME,
		completed_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS content_suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		page_url TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT 'general',
		suggestion TEXT NOT NULL,
		reasoning TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url)`,
	`CREATE INDEX IF NOT EXISTS idx_keyword_history_keyword_id ON keyword_history(keyword_id)`,
	`CREATE INDEX IF NOT EXISTS idx_keyword_history_observed_at ON keyword_history(observed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_redirects_source_url ON redirects(source_url)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_404_url ON logs_404(url)`,
	`CREATE INDEX IF NOT EXISTS idx_internal_links_target ON internal_links(target_url)`,
	`CREATE INDEX IF NOT EXISTS idx_audits_status ON audits(status)`,
}
