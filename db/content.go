package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Content types the generation pipeline produces.
var contentTypes = []string{"resume", "cover_letter", "linkedin_message", "email_template"}

// SaveContentVersion appends a new version of the given content type for an
// application and returns the new row ID. Versions start at 1 per
// (application, content type) pair; existing versions are never mutated.
func (db *DB) SaveContentVersion(applicationID int64, contentType string, content Document, opts ContentVersionOptions) (int64, error) {
	if contentType == "" {
		return 0, fmt.Errorf("%w: content_type is required", ErrValidation)
	}
	if content == nil {
		return 0, fmt.Errorf("%w: content is required", ErrValidation)
	}

	contentJSON, err := marshalDoc(content)
	if err != nil {
		return 0, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := applicationExists(tx, applicationID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: application %d", ErrNotFound, applicationID)
	}

	var version int
	err = tx.QueryRow(
		"SELECT COALESCE(MAX(version), 0) + 1 FROM content_versions WHERE application_id = ? AND content_type = ?",
		applicationID, contentType,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get next version: %w", err)
	}

	result, err := tx.Exec(
		`INSERT INTO content_versions (
			application_id, content_type, version, content, template_variant,
			llm_customization_applied, quality_score, generation_method,
			generation_time_ms, llm_cost_usd, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		applicationID, contentType, version, contentJSON, opts.TemplateVariant,
		opts.LLMCustomized, opts.QualityScore, opts.GenerationMethod,
		opts.GenerationTimeMs, opts.LLMCostUSD, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save content version: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get content version ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit content version: %w", err)
	}

	return id, nil
}

// GetLatestContent returns the highest version of the given content type for
// an application, or (nil, nil) if no version exists.
func (db *DB) GetLatestContent(applicationID int64, contentType string) (*ContentVersion, error) {
	var cv ContentVersion
	var contentJSON sql.NullString

	err := db.conn.QueryRow(
		`SELECT id, application_id, content_type, version, content, template_variant,
			llm_customization_applied, quality_score, generation_method,
			generation_time_ms, llm_cost_usd, created_at
		FROM content_versions
		WHERE application_id = ? AND content_type = ?
		ORDER BY version DESC LIMIT 1`,
		applicationID, contentType,
	).Scan(&cv.ID, &cv.ApplicationID, &cv.ContentType, &cv.Version, &contentJSON,
		&cv.TemplateVariant, &cv.LLMCustomized, &cv.QualityScore, &cv.GenerationMethod,
		&cv.GenerationTimeMs, &cv.LLMCostUSD, &cv.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest content: %w", err)
	}

	if cv.Content, err = unmarshalDoc(contentJSON); err != nil {
		return nil, err
	}

	return &cv, nil
}

// GetAllContent returns the latest version of each known content type for an
// application, keyed by content type. Types with no versions are omitted.
func (db *DB) GetAllContent(applicationID int64) (map[string]*ContentVersion, error) {
	result := make(map[string]*ContentVersion)

	for _, contentType := range contentTypes {
		cv, err := db.GetLatestContent(applicationID, contentType)
		if err != nil {
			return nil, err
		}
		if cv != nil {
			result[contentType] = cv
		}
	}

	return result, nil
}
