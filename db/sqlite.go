package db

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite application ledger
type DB struct {
	conn *sql.DB
	path string
}

// New opens (creating if necessary) the ledger at dbPath and ensures the
// schema exists. Re-opening an existing file preserves its data.
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create database directory: %v", ErrStorageUnavailable, err)
	}

	// Open database connection
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStorageUnavailable, err)
	}

	// Set connection pool settings
	conn.SetMaxOpenConns(1) // SQLite works best with single connection
	conn.SetMaxIdleConns(1)

	db := &DB{conn: conn, path: dbPath}

	// Run migrations
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: failed to run migrations: %v", ErrStorageUnavailable, err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate runs database migrations
func (db *DB) migrate() error {
	migrations := []string{
		// Applications table
		`CREATE TABLE IF NOT EXISTS applications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			company TEXT NOT NULL,
			role_title TEXT NOT NULL,
			country TEXT NOT NULL,
			jd_text TEXT NOT NULL,
			jd_analysis TEXT,
			credibility_score INTEGER NOT NULL DEFAULT 0,
			profile_match_analysis TEXT,
			positioning_strategy TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Content versions table
		`CREATE TABLE IF NOT EXISTS content_versions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			application_id INTEGER NOT NULL,
			content_type TEXT NOT NULL,
			version INTEGER NOT NULL,
			content TEXT NOT NULL,
			template_variant TEXT DEFAULT '',
			llm_customization_applied BOOLEAN DEFAULT 0,
			quality_score REAL DEFAULT 0,
			generation_method TEXT DEFAULT '',
			generation_time_ms INTEGER DEFAULT 0,
			llm_cost_usd REAL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(application_id) REFERENCES applications(id) ON DELETE CASCADE
		)`,

		// Application tracking table
		`CREATE TABLE IF NOT EXISTS application_tracking (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			application_id INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			metadata TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(application_id) REFERENCES applications(id) ON DELETE CASCADE
		)`,

		// LLM usage table
		`CREATE TABLE IF NOT EXISTS llm_usage (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			application_id INTEGER NOT NULL,
			task_type TEXT NOT NULL,
			model_used TEXT NOT NULL,
			tokens_input INTEGER DEFAULT 0,
			tokens_output INTEGER DEFAULT 0,
			cost_usd REAL DEFAULT 0,
			response_time_ms INTEGER DEFAULT 0,
			success BOOLEAN DEFAULT 1,
			error_message TEXT DEFAULT '',
			output_quality_score REAL,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(application_id) REFERENCES applications(id) ON DELETE CASCADE
		)`,

		// Content quality metrics table
		`CREATE TABLE IF NOT EXISTS content_quality_metrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content_version_id INTEGER NOT NULL,
			factual_accuracy_score REAL DEFAULT 0,
			cultural_appropriateness_score REAL DEFAULT 0,
			professional_tone_score REAL DEFAULT 0,
			achievement_clarity_score REAL DEFAULT 0,
			length_compliance_score REAL DEFAULT 0,
			country_tone_compliance REAL DEFAULT 0,
			country_format_compliance REAL DEFAULT 0,
			llm_language_detected BOOLEAN DEFAULT 0,
			placeholder_text_found BOOLEAN DEFAULT 0,
			formatting_issues_count INTEGER DEFAULT 0,
			overall_quality REAL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(content_version_id) REFERENCES content_versions(id) ON DELETE CASCADE
		)`,

		// System metrics table
		`CREATE TABLE IF NOT EXISTS system_metrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			metric_name TEXT NOT NULL,
			metric_value REAL NOT NULL,
			recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// FTS5 virtual table for full-text search over applications
		`CREATE VIRTUAL TABLE IF NOT EXISTS applications_fts USING fts5(
			company,
			role_title,
			jd_text,
			content=applications,
			content_rowid=id
		)`,

		// Triggers to keep FTS in sync
		`CREATE TRIGGER IF NOT EXISTS applications_ai AFTER INSERT ON applications BEGIN
			INSERT INTO applications_fts(rowid, company, role_title, jd_text)
			VALUES (new.id, new.company, new.role_title, new.jd_text);
		END`,

		`CREATE TRIGGER IF NOT EXISTS applications_ad AFTER DELETE ON applications BEGIN
			DELETE FROM applications_fts WHERE rowid = old.id;
		END`,

		`CREATE TRIGGER IF NOT EXISTS applications_au AFTER UPDATE ON applications BEGIN
			UPDATE applications_fts SET company = new.company, role_title = new.role_title, jd_text = new.jd_text
			WHERE rowid = new.id;
		END`,

		// Indexes for better performance
		`CREATE INDEX IF NOT EXISTS idx_content_versions_app_type ON content_versions(application_id, content_type, version)`,
		`CREATE INDEX IF NOT EXISTS idx_tracking_application_id ON application_tracking(application_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_usage_task_type ON llm_usage(task_type, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_quality_metrics_version ON content_quality_metrics(content_version_id)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_created_at ON applications(created_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := db.conn.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	return nil
}

// ledgerTables lists every table the ledger owns.
var ledgerTables = []string{
	"applications",
	"content_versions",
	"application_tracking",
	"llm_usage",
	"content_quality_metrics",
	"system_metrics",
}

// DatabaseSize represents on-disk size and per-table row counts
type DatabaseSize struct {
	SizeBytes   int64
	SizeMB      float64
	TableCounts map[string]int64
}

// GetDatabaseSize returns the database file size and row counts for all tables
func (db *DB) GetDatabaseSize() (*DatabaseSize, error) {
	info, err := os.Stat(db.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat database file: %v", ErrStorageUnavailable, err)
	}

	size := &DatabaseSize{
		SizeBytes:   info.Size(),
		SizeMB:      float64(info.Size()) / (1024 * 1024),
		TableCounts: make(map[string]int64),
	}

	for _, table := range ledgerTables {
		var count int64
		if err := db.conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		size.TableCounts[table] = count
	}

	return size, nil
}

// Backup copies the database file to backupPath
func (db *DB) Backup(backupPath string) error {
	src, err := os.Open(db.path)
	if err != nil {
		return fmt.Errorf("%w: failed to open database file: %v", ErrStorageUnavailable, err)
	}
	defer src.Close()

	dir := filepath.Dir(backupPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create backup directory: %v", ErrStorageUnavailable, err)
	}

	dst, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("%w: failed to create backup file: %v", ErrStorageUnavailable, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy database: %w", err)
	}

	return nil
}

// Vacuum optimizes the database file
func (db *DB) Vacuum() error {
	_, err := db.conn.Exec("VACUUM")
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}
