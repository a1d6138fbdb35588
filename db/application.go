package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// CreateApplication creates a new application record and its implicit
// "generated" tracking event in one transaction, returning the new ID.
func (db *DB) CreateApplication(company, roleTitle, country, jdText string,
	jdAnalysis Document, credibilityScore int,
	profileMatch, positioning Document) (int64, error) {

	if strings.TrimSpace(company) == "" {
		return 0, fmt.Errorf("%w: company is required", ErrValidation)
	}
	if strings.TrimSpace(roleTitle) == "" {
		return 0, fmt.Errorf("%w: role_title is required", ErrValidation)
	}
	if strings.TrimSpace(country) == "" {
		return 0, fmt.Errorf("%w: country is required", ErrValidation)
	}
	if strings.TrimSpace(jdText) == "" {
		return 0, fmt.Errorf("%w: jd_text is required", ErrValidation)
	}
	if credibilityScore < 0 || credibilityScore > 10 {
		return 0, fmt.Errorf("%w: credibility_score must be between 0 and 10, got %d", ErrValidation, credibilityScore)
	}

	analysisJSON, err := marshalDoc(jdAnalysis)
	if err != nil {
		return 0, err
	}
	matchJSON, err := marshalDoc(profileMatch)
	if err != nil {
		return 0, err
	}
	positioningJSON, err := marshalDoc(positioning)
	if err != nil {
		return 0, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO applications (
			company, role_title, country, jd_text, jd_analysis,
			credibility_score, profile_match_analysis, positioning_strategy, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		company, roleTitle, country, jdText, analysisJSON,
		credibilityScore, matchJSON, positioningJSON, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get application ID: %w", err)
	}

	// Creation event recorded in the same transaction
	if err := trackEvent(tx, id, EventGenerated, Document{
		"company":           company,
		"role":              roleTitle,
		"credibility_score": credibilityScore,
	}); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit application: %w", err)
	}

	return id, nil
}

// GetApplication retrieves an application by ID. Returns (nil, nil) if the
// ID is unknown.
func (db *DB) GetApplication(id int64) (*Application, error) {
	var app Application
	var analysisJSON, matchJSON, positioningJSON sql.NullString

	err := db.conn.QueryRow(
		`SELECT id, company, role_title, country, jd_text, jd_analysis,
			credibility_score, profile_match_analysis, positioning_strategy, created_at
		FROM applications WHERE id = ?`,
		id,
	).Scan(&app.ID, &app.Company, &app.RoleTitle, &app.Country, &app.JDText,
		&analysisJSON, &app.CredibilityScore, &matchJSON, &positioningJSON, &app.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if app.JDAnalysis, err = unmarshalDoc(analysisJSON); err != nil {
		return nil, err
	}
	if app.ProfileMatchAnalysis, err = unmarshalDoc(matchJSON); err != nil {
		return nil, err
	}
	if app.PositioningStrategy, err = unmarshalDoc(positioningJSON); err != nil {
		return nil, err
	}

	return &app, nil
}

// ApplicationFilter narrows GetApplications results. Zero values mean
// "no filter"; supplied filters combine with AND.
type ApplicationFilter struct {
	Company        string // substring match
	Country        string // exact match
	MinCredibility int    // credibility_score >= MinCredibility
	Limit          int    // 0 means no limit
}

// GetApplications retrieves applications matching the filter, newest first.
func (db *DB) GetApplications(filter ApplicationFilter) ([]*Application, error) {
	query := `SELECT id, company, role_title, country, jd_text, jd_analysis,
		credibility_score, profile_match_analysis, positioning_strategy, created_at
	FROM applications WHERE 1=1`
	var params []any

	if filter.Company != "" {
		query += " AND company LIKE ?"
		params = append(params, "%"+filter.Company+"%")
	}
	if filter.Country != "" {
		query += " AND country = ?"
		params = append(params, filter.Country)
	}
	if filter.MinCredibility > 0 {
		query += " AND credibility_score >= ?"
		params = append(params, filter.MinCredibility)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		params = append(params, filter.Limit)
	}

	rows, err := db.conn.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		var app Application
		var analysisJSON, matchJSON, positioningJSON sql.NullString
		if err := rows.Scan(&app.ID, &app.Company, &app.RoleTitle, &app.Country, &app.JDText,
			&analysisJSON, &app.CredibilityScore, &matchJSON, &positioningJSON, &app.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		if app.JDAnalysis, err = unmarshalDoc(analysisJSON); err != nil {
			return nil, err
		}
		if app.ProfileMatchAnalysis, err = unmarshalDoc(matchJSON); err != nil {
			return nil, err
		}
		if app.PositioningStrategy, err = unmarshalDoc(positioningJSON); err != nil {
			return nil, err
		}
		apps = append(apps, &app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return apps, nil
}

// ApplicationStats aggregates applications created within a trailing window.
// SentCount and ResponseCount are derived from the event timeline.
type ApplicationStats struct {
	TotalApplications int64
	UniqueCompanies   int64
	UniqueCountries   int64
	AvgCredibility    float64
	SentCount         int64
	ResponseCount     int64
}

// GetApplicationStats aggregates over applications created in the last N days.
func (db *DB) GetApplicationStats(days int) (*ApplicationStats, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	stats := &ApplicationStats{}
	err := db.conn.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(DISTINCT company),
			COUNT(DISTINCT country),
			COALESCE(AVG(credibility_score), 0),
			COUNT(CASE WHEN EXISTS (
				SELECT 1 FROM application_tracking t
				WHERE t.application_id = applications.id AND t.event_type = ?
			) THEN 1 END),
			COUNT(CASE WHEN EXISTS (
				SELECT 1 FROM application_tracking t
				WHERE t.application_id = applications.id AND t.event_type = ?
			) THEN 1 END)
		FROM applications
		WHERE created_at >= ?`,
		EventSent, EventResponded, cutoff,
	).Scan(&stats.TotalApplications, &stats.UniqueCompanies, &stats.UniqueCountries,
		&stats.AvgCredibility, &stats.SentCount, &stats.ResponseCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get application stats: %w", err)
	}

	return stats, nil
}

// applicationExists reports whether an application row exists, using the
// supplied queryable (connection or transaction).
func applicationExists(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, id int64) (bool, error) {
	var exists bool
	err := q.QueryRow("SELECT EXISTS(SELECT 1 FROM applications WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return exists, nil
}
