package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Document is an opaque structured payload (JD analysis, generated content,
// event metadata). It is serialized to JSON on write and restored on read
// without altering its nested structure.
type Document map[string]any

// Application represents one job-application attempt, the root record.
type Application struct {
	ID                   int64     `json:"id"`
	Company              string    `json:"company"`
	RoleTitle            string    `json:"role_title"`
	Country              string    `json:"country"`
	JDText               string    `json:"jd_text"`
	JDAnalysis           Document  `json:"jd_analysis"`
	CredibilityScore     int       `json:"credibility_score"` // 0-10
	ProfileMatchAnalysis Document  `json:"profile_match_analysis"`
	PositioningStrategy  Document  `json:"positioning_strategy"`
	CreatedAt            time.Time `json:"created_at"`
}

// ContentVersion represents one immutable snapshot of generated material
// (resume, cover letter, email, LinkedIn message) for an application.
type ContentVersion struct {
	ID               int64     `json:"id"`
	ApplicationID    int64     `json:"application_id"`
	ContentType      string    `json:"content_type"` // "resume", "cover_letter", ...
	Version          int       `json:"version"`      // 1-based, per application+type
	Content          Document  `json:"content"`
	TemplateVariant  string    `json:"template_variant"`
	LLMCustomized    bool      `json:"llm_customization_applied"`
	QualityScore     float64   `json:"quality_score"`
	GenerationMethod string    `json:"generation_method"`
	GenerationTimeMs int       `json:"generation_time_ms"`
	LLMCostUSD       float64   `json:"llm_cost_usd"`
	CreatedAt        time.Time `json:"created_at"`
}

// ContentVersionOptions carries the optional attributes of a content version.
type ContentVersionOptions struct {
	TemplateVariant  string
	LLMCustomized    bool
	QualityScore     float64
	GenerationMethod string
	GenerationTimeMs int
	LLMCostUSD       float64
}

// TrackingEvent represents one timestamped lifecycle marker for an
// application (generated, sent, viewed, responded, ...).
type TrackingEvent struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	EventType     string    `json:"event_type"`
	Metadata      Document  `json:"metadata,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// LLMUsage represents one LLM call's cost and performance data.
type LLMUsage struct {
	ID                 int64     `json:"id"`
	ApplicationID      int64     `json:"application_id"`
	TaskType           string    `json:"task_type"` // "jd_analysis", "content_customization", ...
	ModelUsed          string    `json:"model_used"`
	TokensInput        int       `json:"tokens_input"`
	TokensOutput       int       `json:"tokens_output"`
	CostUSD            float64   `json:"cost_usd"`
	ResponseTimeMs     int       `json:"response_time_ms"`
	Success            bool      `json:"success"`
	ErrorMessage       string    `json:"error_message,omitempty"`
	OutputQualityScore float64   `json:"output_quality_score,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// QualityMetrics represents a multi-dimensional quality assessment of one
// content version. All dimension scores are on a 0-10 scale.
type QualityMetrics struct {
	ID                           int64     `json:"id"`
	ContentVersionID             int64     `json:"content_version_id"`
	FactualAccuracyScore         float64   `json:"factual_accuracy_score"`
	CulturalAppropriatenessScore float64   `json:"cultural_appropriateness_score"`
	ProfessionalToneScore        float64   `json:"professional_tone_score"`
	AchievementClarityScore      float64   `json:"achievement_clarity_score"`
	LengthComplianceScore        float64   `json:"length_compliance_score"`
	CountryToneCompliance        float64   `json:"country_tone_compliance"`
	CountryFormatCompliance      float64   `json:"country_format_compliance"`
	LLMLanguageDetected          bool      `json:"llm_language_detected"`
	PlaceholderTextFound         bool      `json:"placeholder_text_found"`
	FormattingIssuesCount        int       `json:"formatting_issues_count"`
	OverallQuality               float64   `json:"overall_quality"`
	CreatedAt                    time.Time `json:"created_at"`
}

// dimensionMean returns the plain mean of the seven dimension scores.
func (m *QualityMetrics) dimensionMean() float64 {
	return (m.FactualAccuracyScore +
		m.CulturalAppropriatenessScore +
		m.ProfessionalToneScore +
		m.AchievementClarityScore +
		m.LengthComplianceScore +
		m.CountryToneCompliance +
		m.CountryFormatCompliance) / 7.0
}

// marshalDoc serializes a document for storage. A nil document becomes SQL NULL.
func marshalDoc(doc Document) (sql.NullString, error) {
	if doc == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalDoc restores a stored document. NULL restores to nil.
func unmarshalDoc(raw sql.NullString) (Document, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var doc Document
	if err := json.Unmarshal([]byte(raw.String), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return doc, nil
}
