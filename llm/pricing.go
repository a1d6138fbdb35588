package llm

import "strings"

// modelPricing holds cost per 1M tokens, split by direction.
type modelPricing struct {
	input  float64
	output float64
}

// Pricing per 1M tokens (approximate, as of 2024)
var pricing = map[string]modelPricing{
	"gpt-4o-mini":   {input: 0.15, output: 0.60},
	"gpt-4o":        {input: 5.0, output: 15.0},
	"gpt-4-turbo":   {input: 10.0, output: 30.0},
	"gpt-4":         {input: 30.0, output: 60.0},
	"gpt-3.5-turbo": {input: 0.50, output: 1.50},
}

// Used when the model is unknown; a conservative mid-range estimate.
var defaultPricing = modelPricing{input: 5.0, output: 15.0}

// EstimateCost estimates the USD cost of a call from its token counts.
func EstimateCost(model string, tokensInput, tokensOutput int) float64 {
	p, ok := pricing[model]
	if !ok {
		// Versioned model names like "gpt-4o-mini-2024-07-18";
		// longest prefix wins so "gpt-4o" is not shadowed by "gpt-4"
		best := ""
		for name, rates := range pricing {
			if strings.HasPrefix(model, name) && len(name) > len(best) {
				best = name
				p, ok = rates, true
			}
		}
	}
	if !ok {
		p = defaultPricing
	}

	return float64(tokensInput)/1000000.0*p.input + float64(tokensOutput)/1000000.0*p.output
}
