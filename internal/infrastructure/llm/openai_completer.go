package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
)

const maxResponseBytes = int64(4 * 1024 * 1024)

const msgInvalidFormat = "Invalid response format from API. The response does not contain the expected data structure."

// openAICompleter talks to any OpenAI-compatible chat-completions endpoint.
type openAICompleter struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

func newOpenAICompleter(client *http.Client, settings entity.SummarizationSettings) *openAICompleter {
	endpoint := settings.EndpointURL
	if endpoint == "" {
		endpoint = entity.DefaultEndpointURL
	}
	return &openAICompleter{
		client:   client,
		endpoint: endpoint,
		apiKey:   settings.APIKey,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *openAICompleter) Complete(ctx context.Context, req chatRequest) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", apperror.Format("failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apperror.Config("Invalid endpoint URL in settings", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", apperror.Network(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", apperror.Network(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperror.FromStatus(resp.StatusCode, serverMessage(body))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperror.Format(msgInvalidFormat, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == nil {
		return "", apperror.Format(msgInvalidFormat, nil)
	}

	return *parsed.Choices[0].Message.Content, nil
}

// serverMessage returns error.message from a JSON error body, or "".
func serverMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == nil {
		return ""
	}
	return parsed.Error.Message
}
