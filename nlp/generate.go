package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// Generator abstracts a prompt->text capability with length bounds.
// Generation is deterministic (sampling disabled) so repeated runs over
// the same context produce the same summary.
type Generator interface {
	Generate(ctx context.Context, prompt string, minWords, maxWords int) (string, error)
	ModelName() string
}

// NewDefaultGenerator returns a generation provider if configured via env.
// Cohere is preferred when COHERE_API_KEY is set, then OpenAI.
func NewDefaultGenerator(preferredModel string) Generator {
	if cohereKey := os.Getenv("COHERE_API_KEY"); cohereKey != "" {
		model := preferredModel
		if model == "" {
			model = "command-r-08-2024"
		}
		client := cohereclient.NewClient(cohereclient.WithToken(cohereKey))
		return &CohereGenerator{client: client, model: model}
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		model := preferredModel
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &OpenAIGenerator{apiKey: apiKey, model: model}
	}
	return nil
}

// maxTokensFor converts a word bound to a token budget. English prose runs
// roughly 0.75 words per token.
func maxTokensFor(maxWords int) int {
	return maxWords * 4 / 3
}

// boundedPrompt appends the length instruction the caller's word bounds imply.
func boundedPrompt(prompt string, minWords, maxWords int) string {
	return fmt.Sprintf("%s\n\nWrite between %d and %d words.", prompt, minWords, maxWords)
}

// CohereGenerator implements Generator using the Cohere Chat API.
type CohereGenerator struct {
	client *cohereclient.Client
	model  string
}

func (c *CohereGenerator) ModelName() string { return c.model }

func (c *CohereGenerator) Generate(ctx context.Context, prompt string, minWords, maxWords int) (string, error) {
	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:     boundedPrompt(prompt, minWords, maxWords),
		Model:       cohere.String(c.model),
		MaxTokens:   cohere.Int(maxTokensFor(maxWords)),
		Temperature: cohere.Float64(0),
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", errors.New("cohere chat returned empty text")
	}
	return strings.TrimSpace(resp.Text), nil
}

// OpenAIGenerator implements Generator using the OpenAI chat completions API
// Endpoint: POST https://api.openai.com/v1/chat/completions
type OpenAIGenerator struct {
	apiKey   string
	model    string
	endpoint string
}

func (o *OpenAIGenerator) ModelName() string { return o.model }

func (o *OpenAIGenerator) Generate(ctx context.Context, prompt string, minWords, maxWords int) (string, error) {
	endpoint := o.endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	}

	payload := map[string]interface{}{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "user", "content": boundedPrompt(prompt, minWords, maxWords)},
		},
		"max_tokens":  maxTokensFor(maxWords),
		"temperature": 0,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiKey))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return "", fmt.Errorf("openai chat error: status %d: %v", resp.StatusCode, body)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("openai chat returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
