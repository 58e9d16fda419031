package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"

	systemPrompt = "You are a senior database performance engineer. " +
		"Analyze the SQL query and its execution plan. " +
		"Provide concise, actionable performance improvement suggestions. " +
		"Focus on indexing, query rewriting, and configuration tuning. " +
		"Keep your response under 300 words. Use bullet points."

	// Plans are clipped before prompting to keep token usage bounded.
	maxPlanBytes = 3000

	requestTimeout = 60 * time.Second
)

// Client talks to an OpenAI-compatible chat completions endpoint. Pointing
// BaseURL at Groq or a local Ollama server works the same way; Ollama needs
// no API key.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	httpClient *http.Client
}

func New(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Suggest asks the model for optimization advice on one query and its plan.
func (c *Client) Suggest(ctx context.Context, query, planText string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(query, planText)},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", c.BaseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr chatResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("chat completion failed: %s", apiErr.Error.Message)
		}
		return "", fmt.Errorf("chat completion failed: HTTP %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func buildPrompt(query, planText string) string {
	var b strings.Builder
	b.WriteString("Analyze the following SQL query and its execution plan for performance issues.\n\n")
	b.WriteString("## SQL Query\n```sql\n")
	b.WriteString(query)
	b.WriteString("\n```\n")

	if planText != "" {
		if len(planText) > maxPlanBytes {
			planText = planText[:maxPlanBytes]
		}
		b.WriteString("\n## Execution Plan (EXPLAIN output)\n```\n")
		b.WriteString(planText)
		b.WriteString("\n```\n")
	}

	b.WriteString("\n## Please provide:\n")
	b.WriteString("1. Key performance issues identified\n")
	b.WriteString("2. Specific index recommendations\n")
	b.WriteString("3. Query rewrite suggestions (if applicable)\n")
	b.WriteString("4. Database configuration recommendations (if applicable)")

	return b.String()
}
