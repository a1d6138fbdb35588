package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		input    int
		output   int
		expected float64
	}{
		{
			name:  "gpt-4o-mini typical jd analysis",
			model: "gpt-4o-mini",
			input: 800, output: 500,
			expected: 800.0/1e6*0.15 + 500.0/1e6*0.60,
		},
		{
			name:  "gpt-4-turbo",
			model: "gpt-4-turbo",
			input: 1500, output: 800,
			expected: 1500.0/1e6*10.0 + 800.0/1e6*30.0,
		},
		{
			name:  "versioned model resolves by longest prefix",
			model: "gpt-4o-mini-2024-07-18",
			input: 1000, output: 1000,
			expected: 1000.0/1e6*0.15 + 1000.0/1e6*0.60,
		},
		{
			name:  "unknown model falls back to default rates",
			model: "some-future-model",
			input: 1000, output: 1000,
			expected: 1000.0/1e6*5.0 + 1000.0/1e6*15.0,
		},
		{
			name:  "zero tokens cost nothing",
			model: "gpt-4o-mini",
			input: 0, output: 0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EstimateCost(tt.model, tt.input, tt.output), 1e-12)
		})
	}
}

func TestEstimateCost_PrefixNotShadowed(t *testing.T) {
	// "gpt-4o-2024-05-13" must price as gpt-4o, not gpt-4
	cost := EstimateCost("gpt-4o-2024-05-13", 1_000_000, 0)
	assert.InDelta(t, 5.0, cost, 1e-9)
}
