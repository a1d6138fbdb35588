package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackLLMUsage(t *testing.T) {
	ledger := newTestDB(t)
	appID := createSampleApplication(t, ledger)

	id, err := ledger.TrackLLMUsage(LLMUsage{
		ApplicationID:      appID,
		TaskType:           "jd_analysis",
		ModelUsed:          "gpt-4o-mini",
		TokensInput:        800,
		TokensOutput:       500,
		CostUSD:            0.004,
		ResponseTimeMs:     1200,
		Success:            true,
		OutputQualityScore: 8.5,
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
}

func TestTrackLLMUsage_Validation(t *testing.T) {
	ledger := newTestDB(t)
	appID := createSampleApplication(t, ledger)

	tests := []struct {
		name  string
		usage LLMUsage
	}{
		{"missing task type", LLMUsage{ApplicationID: appID, ModelUsed: "gpt-4o-mini"}},
		{"missing model", LLMUsage{ApplicationID: appID, TaskType: "jd_analysis"}},
		{"negative input tokens", LLMUsage{ApplicationID: appID, TaskType: "jd_analysis", ModelUsed: "m", TokensInput: -1}},
		{"negative cost", LLMUsage{ApplicationID: appID, TaskType: "jd_analysis", ModelUsed: "m", CostUSD: -0.01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.TrackLLMUsage(tt.usage)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestTrackLLMUsage_UnknownApplication(t *testing.T) {
	ledger := newTestDB(t)

	_, err := ledger.TrackLLMUsage(LLMUsage{
		ApplicationID: 9999,
		TaskType:      "jd_analysis",
		ModelUsed:     "gpt-4o-mini",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLLMCostSummary(t *testing.T) {
	ledger := newTestDB(t)
	appID := createSampleApplication(t, ledger)

	_, err := ledger.TrackLLMUsage(LLMUsage{
		ApplicationID: appID, TaskType: "jd_analysis", ModelUsed: "gpt-4o-mini",
		TokensInput: 800, TokensOutput: 500, CostUSD: 0.004, ResponseTimeMs: 1200, Success: true,
	})
	require.NoError(t, err)

	_, err = ledger.TrackLLMUsage(LLMUsage{
		ApplicationID: appID, TaskType: "content_customization", ModelUsed: "gpt-4o-mini",
		TokensInput: 1500, TokensOutput: 800, CostUSD: 0.003, ResponseTimeMs: 2100, Success: true,
	})
	require.NoError(t, err)

	summary, err := ledger.GetLLMCostSummary(1)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	analysis := summary["jd_analysis"]
	require.NotNil(t, analysis)
	assert.Equal(t, int64(1), analysis.CallCount)
	assert.InDelta(t, 0.004, analysis.TotalCost, 1e-9)
	assert.Equal(t, int64(800), analysis.TotalInputTokens)
	assert.Equal(t, int64(500), analysis.TotalOutputTokens)

	customization := summary["content_customization"]
	require.NotNil(t, customization)
	assert.Equal(t, int64(1), customization.CallCount)
	assert.InDelta(t, 0.003, customization.TotalCost, 1e-9)
}

func TestGetLLMCostSummary_ExactSums(t *testing.T) {
	ledger := newTestDB(t)
	appID := createSampleApplication(t, ledger)

	costs := []float64{0.0012, 0.0034, 0.0007, 0.0151}
	var total float64
	for _, cost := range costs {
		_, err := ledger.TrackLLMUsage(LLMUsage{
			ApplicationID: appID, TaskType: "jd_analysis", ModelUsed: "gpt-4o-mini",
			TokensInput: 100, TokensOutput: 100, CostUSD: cost, Success: true,
		})
		require.NoError(t, err)
		total += cost
	}

	summary, err := ledger.GetLLMCostSummary(1)
	require.NoError(t, err)

	analysis := summary["jd_analysis"]
	require.NotNil(t, analysis)
	assert.Equal(t, int64(len(costs)), analysis.CallCount)
	assert.InDelta(t, total, analysis.TotalCost, 1e-12)
	assert.InDelta(t, total/float64(len(costs)), analysis.AvgCostPerCall, 1e-12)
}

func TestGetLLMCostSummary_Empty(t *testing.T) {
	ledger := newTestDB(t)

	summary, err := ledger.GetLLMCostSummary(30)
	require.NoError(t, err)
	assert.Empty(t, summary)
}
