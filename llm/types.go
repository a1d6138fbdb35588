package llm

// Task types recorded against the ledger's llm_usage table.
const (
	TaskJDAnalysis           = "jd_analysis"
	TaskContentCustomization = "content_customization"
)

// Config represents LLM provider configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Usage captures one call's cost and performance data in the shape the
// ledger persists.
type Usage struct {
	TaskType       string
	Model          string
	TokensInput    int
	TokensOutput   int
	CostUSD        float64
	ResponseTimeMs int
	Success        bool
	ErrorMessage   string
}
