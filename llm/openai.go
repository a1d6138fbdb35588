package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const analysisSystemPrompt = `You are a job-description analyst. Given a job description, respond with a single JSON object containing:
"role_focus" (string), "key_requirements" (array of strings), "company_culture" (string), "skills_match" (array of strings).
Respond with JSON only, no commentary.`

const customizationSystemPrompt = `You are a resume-content editor. Given generated application content and a JD analysis, rewrite the content to emphasize the analysis's key requirements.
Respond with a single JSON object using the same keys as the input content. JSON only, no commentary.`

// Client wraps an OpenAI-compatible API for JD analysis and content
// customization, reporting per-call usage for the ledger.
type Client struct {
	client *openai.Client
	config Config
}

// NewClient creates a new LLM client
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	// Set defaults only if not provided
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 2048
	}
	if config.Temperature == 0 {
		config.Temperature = 0.3
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// AnalyzeJobDescription extracts a structured analysis from raw JD text.
// The returned Usage is always populated, including on failure, so the
// caller can record the attempt in the ledger.
func (c *Client) AnalyzeJobDescription(ctx context.Context, jdText string) (map[string]any, Usage, error) {
	return c.completeJSON(ctx, TaskJDAnalysis, analysisSystemPrompt, jdText)
}

// CustomizeContent rewrites generated content against a JD analysis.
func (c *Client) CustomizeContent(ctx context.Context, content, analysis map[string]any) (map[string]any, Usage, error) {
	input, err := json.Marshal(map[string]any{
		"content":     content,
		"jd_analysis": analysis,
	})
	if err != nil {
		return nil, Usage{TaskType: TaskContentCustomization, Model: c.config.Model}, fmt.Errorf("failed to encode input: %w", err)
	}
	return c.completeJSON(ctx, TaskContentCustomization, customizationSystemPrompt, string(input))
}

// completeJSON runs one chat completion and decodes the JSON object reply.
func (c *Client) completeJSON(ctx context.Context, taskType, systemPrompt, userPrompt string) (map[string]any, Usage, error) {
	usage := Usage{
		TaskType: taskType,
		Model:    c.config.Model,
	}

	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: float32(c.config.Temperature),
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	usage.ResponseTimeMs = int(time.Since(start).Milliseconds())

	if err != nil {
		usage.ErrorMessage = err.Error()
		return nil, usage, fmt.Errorf("completion failed: %w", err)
	}

	usage.TokensInput = resp.Usage.PromptTokens
	usage.TokensOutput = resp.Usage.CompletionTokens
	usage.CostUSD = EstimateCost(c.config.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		usage.ErrorMessage = "empty response"
		return nil, usage, fmt.Errorf("completion returned no choices")
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(extractJSON(resp.Choices[0].Message.Content)), &result); err != nil {
		usage.ErrorMessage = err.Error()
		return nil, usage, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	usage.Success = true
	return result, usage, nil
}

// extractJSON strips Markdown code fences some models wrap around JSON.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	return content
}
