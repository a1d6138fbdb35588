package db

import (
	"database/sql"
	"fmt"
	"time"
)

// TrackLLMUsage appends one immutable LLM usage record and returns its ID.
func (db *DB) TrackLLMUsage(u LLMUsage) (int64, error) {
	if u.TaskType == "" {
		return 0, fmt.Errorf("%w: task_type is required", ErrValidation)
	}
	if u.ModelUsed == "" {
		return 0, fmt.Errorf("%w: model_used is required", ErrValidation)
	}
	if u.TokensInput < 0 || u.TokensOutput < 0 {
		return 0, fmt.Errorf("%w: token counts must be non-negative", ErrValidation)
	}
	if u.CostUSD < 0 {
		return 0, fmt.Errorf("%w: cost_usd must be non-negative", ErrValidation)
	}

	exists, err := applicationExists(db.conn, u.ApplicationID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: application %d", ErrNotFound, u.ApplicationID)
	}

	var quality sql.NullFloat64
	if u.OutputQualityScore != 0 {
		quality = sql.NullFloat64{Float64: u.OutputQualityScore, Valid: true}
	}

	result, err := db.conn.Exec(
		`INSERT INTO llm_usage (
			application_id, task_type, model_used, tokens_input, tokens_output,
			cost_usd, response_time_ms, success, error_message, output_quality_score, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ApplicationID, u.TaskType, u.ModelUsed, u.TokensInput, u.TokensOutput,
		u.CostUSD, u.ResponseTimeMs, u.Success, u.ErrorMessage, quality, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to track llm usage: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get usage ID: %w", err)
	}

	return id, nil
}

// TaskCostStats aggregates LLM usage for one task type.
type TaskCostStats struct {
	TaskType          string
	CallCount         int64
	TotalCost         float64
	AvgCostPerCall    float64
	AvgResponseTimeMs float64
	TotalInputTokens  int64
	TotalOutputTokens int64
}

// GetLLMCostSummary groups usage from the last N days by task type. Total
// cost per group is the exact sum of the stored cost_usd values.
func (db *DB) GetLLMCostSummary(days int) (map[string]*TaskCostStats, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	rows, err := db.conn.Query(`
		SELECT
			task_type,
			COUNT(*) as call_count,
			COALESCE(SUM(cost_usd), 0) as total_cost,
			COALESCE(AVG(cost_usd), 0) as avg_cost_per_call,
			COALESCE(AVG(response_time_ms), 0) as avg_response_time,
			COALESCE(SUM(tokens_input), 0) as total_input_tokens,
			COALESCE(SUM(tokens_output), 0) as total_output_tokens
		FROM llm_usage
		WHERE timestamp >= ?
		GROUP BY task_type
		ORDER BY total_cost DESC`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cost summary: %w", err)
	}
	defer rows.Close()

	summary := make(map[string]*TaskCostStats)
	for rows.Next() {
		var stats TaskCostStats
		if err := rows.Scan(&stats.TaskType, &stats.CallCount, &stats.TotalCost,
			&stats.AvgCostPerCall, &stats.AvgResponseTimeMs,
			&stats.TotalInputTokens, &stats.TotalOutputTokens); err != nil {
			return nil, fmt.Errorf("failed to scan cost stats: %w", err)
		}
		summary[stats.TaskType] = &stats
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cost stats: %w", err)
	}

	return summary, nil
}
