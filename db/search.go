package db

import (
	"database/sql"
	"fmt"
)

// SearchResult represents a full-text search hit
type SearchResult struct {
	Application *Application
	Snippet     string
}

// SearchApplications performs full-text search over company, role title and
// JD text, ordered by relevance.
func (db *DB) SearchApplications(query string, limit int) ([]*SearchResult, error) {
	rows, err := db.conn.Query(`
		SELECT a.id, a.company, a.role_title, a.country, a.jd_text, a.jd_analysis,
		       a.credibility_score, a.profile_match_analysis, a.positioning_strategy, a.created_at,
		       snippet(applications_fts, 2, '<mark>', '</mark>', '...', 32) as snippet
		FROM applications_fts
		JOIN applications a ON applications_fts.rowid = a.id
		WHERE applications_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search applications: %w", err)
	}
	defer rows.Close()

	var results []*SearchResult
	for rows.Next() {
		var app Application
		var analysisJSON, matchJSON, positioningJSON sql.NullString
		var snippet string
		if err := rows.Scan(&app.ID, &app.Company, &app.RoleTitle, &app.Country, &app.JDText,
			&analysisJSON, &app.CredibilityScore, &matchJSON, &positioningJSON,
			&app.CreatedAt, &snippet); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
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
		results = append(results, &SearchResult{
			Application: &app,
			Snippet:     snippet,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}

	return results, nil
}
