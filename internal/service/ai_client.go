package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"propchat/internal/config"
)

// ChatClient is the optional free-text completion fallback used only on the
// off-topic/small-talk reply path. Its absence degrades to a canned reply,
// never to an error surfaced to the user.
type ChatClient interface {
	// SmallTalk produces a short reply that acknowledges the utterance and
	// steers the conversation back to property search.
	SmallTalk(ctx context.Context, utterance string) (string, error)

	// IsEnabled returns whether the client is configured and ready
	IsEnabled() bool
}

// DisabledChatClient is the default no-op fallback.
type DisabledChatClient struct{}

// SmallTalk always fails so the planner falls back to its canned pool.
func (DisabledChatClient) SmallTalk(ctx context.Context, utterance string) (string, error) {
	return "", fmt.Errorf("chat client is not configured")
}

// IsEnabled returns false.
func (DisabledChatClient) IsEnabled() bool { return false }

// OpenAIChatClient calls an OpenAI-compatible chat-completion endpoint.
type OpenAIChatClient struct {
	config     *config.OpenAIConfig
	httpClient *http.Client
}

// Ensure both implementations satisfy ChatClient.
var (
	_ ChatClient = (*OpenAIChatClient)(nil)
	_ ChatClient = DisabledChatClient{}
)

// NewOpenAIChatClient creates a new OpenAI-compatible client.
func NewOpenAIChatClient(cfg *config.OpenAIConfig) *OpenAIChatClient {
	return &OpenAIChatClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIChatClient) IsEnabled() bool {
	return c.config.Enabled
}

// chatCompletionRequest represents a chat completion request
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage represents a single message in the conversation
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse represents the API response
type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

const smallTalkSystemPrompt = "You are a friendly property-search assistant for Malaysian real estate. " +
	"The user said something unrelated to property. Reply in one or two short sentences, " +
	"acknowledge what they said, and gently steer the conversation back to finding a home."

// SmallTalk performs a single bounded chat completion.
func (c *OpenAIChatClient) SmallTalk(ctx context.Context, utterance string) (string, error) {
	if !c.config.Enabled {
		return "", fmt.Errorf("OpenAI API is not enabled (missing API key)")
	}

	req := chatCompletionRequest{
		Model: c.config.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: smallTalkSystemPrompt},
			{Role: "user", Content: utterance},
		},
		Temperature: c.config.ChatTemperature,
		MaxTokens:   c.config.ChatMaxTokens,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIBase+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat completion returned no content")
	}

	return completion.Choices[0].Message.Content, nil
}
