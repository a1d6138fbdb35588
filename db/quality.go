package db

import (
	"fmt"
	"time"
)

// SaveQualityMetrics stores a quality assessment for a content version and
// returns the new row ID. The overall quality column is the plain mean of
// the seven dimension scores.
func (db *DB) SaveQualityMetrics(m QualityMetrics) (int64, error) {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM content_versions WHERE id = ?)", m.ContentVersionID,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check content version: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: content version %d", ErrNotFound, m.ContentVersionID)
	}

	result, err := db.conn.Exec(
		`INSERT INTO content_quality_metrics (
			content_version_id, factual_accuracy_score, cultural_appropriateness_score,
			professional_tone_score, achievement_clarity_score, length_compliance_score,
			country_tone_compliance, country_format_compliance,
			llm_language_detected, placeholder_text_found, formatting_issues_count,
			overall_quality, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ContentVersionID, m.FactualAccuracyScore, m.CulturalAppropriatenessScore,
		m.ProfessionalToneScore, m.AchievementClarityScore, m.LengthComplianceScore,
		m.CountryToneCompliance, m.CountryFormatCompliance,
		m.LLMLanguageDetected, m.PlaceholderTextFound, m.FormattingIssuesCount,
		m.dimensionMean(), time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save quality metrics: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get metrics ID: %w", err)
	}

	return id, nil
}

// QualityTrends aggregates quality metrics stored within a trailing window.
type QualityTrends struct {
	AvgOverallQuality   float64 // mean of per-row dimension means
	AvgFactualAccuracy  float64
	AvgCulturalFit      float64
	AvgProfessionalTone float64
	TotalContentPieces  int64 // distinct content versions with metrics
}

// GetQualityTrends aggregates quality metrics from the last N days.
func (db *DB) GetQualityTrends(days int) (*QualityTrends, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	trends := &QualityTrends{}
	err := db.conn.QueryRow(`
		SELECT
			COALESCE(AVG(overall_quality), 0),
			COALESCE(AVG(factual_accuracy_score), 0),
			COALESCE(AVG(cultural_appropriateness_score), 0),
			COALESCE(AVG(professional_tone_score), 0),
			COUNT(DISTINCT content_version_id)
		FROM content_quality_metrics
		WHERE created_at >= ?`,
		cutoff,
	).Scan(&trends.AvgOverallQuality, &trends.AvgFactualAccuracy,
		&trends.AvgCulturalFit, &trends.AvgProfessionalTone, &trends.TotalContentPieces)
	if err != nil {
		return nil, fmt.Errorf("failed to get quality trends: %w", err)
	}

	return trends, nil
}
